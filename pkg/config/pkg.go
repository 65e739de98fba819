package config

import (
	"time"

	"github.com/apex/log"
)

var configer Configer = &DotenvConfig{}

func SetConfig(c Configer) {
	configer = c
}

func GetConfig() Configer {
	return configer
}

// MustLoadFromDotenv loads the dotenv file pointed at by HARVESTD_DOTENV_PATH
// (when set) into the environment and returns the package Configer. Missing
// HARVESTD_DOTENV_PATH is fine, the environment is used as-is; a path that is
// set but can't be loaded is fatal.
func MustLoadFromDotenv() Configer {
	c := &DotenvConfig{DotenvPath: GetKey("HARVESTD_DOTENV_PATH")}
	if err := c.Load(); err != nil {
		log.Fatalf("Failed loading dotenv file %s: %s", c.DotenvPath, err)
	}

	SetConfig(c)

	return c
}

func LoadFromPath(path string) error {
	return configer.LoadFromPath(path)
}

func Load() error {
	return configer.Load()
}

func GetKey(key string) string {
	return configer.GetKey(key)
}

func MustGetKey(key string) string {
	return configer.MustGetKey(key)
}

func GetKeyWithDefault(key, defaultValue string) string {
	return configer.GetKeyWithDefault(key, defaultValue)
}

func GetIntKey(key string) int {
	return configer.GetIntKey(key)
}

func MustGetIntKey(key string) int {
	return configer.MustGetIntKey(key)
}

func GetIntKeyWithDefault(key string, defaultValue int) int {
	return configer.GetIntKeyWithDefault(key, defaultValue)
}

func GetSecondsKeyWithDefault(key string, defaultValue time.Duration) time.Duration {
	return configer.GetSecondsKeyWithDefault(key, defaultValue)
}
