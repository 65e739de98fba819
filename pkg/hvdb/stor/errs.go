package stor

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrServerNameTaken is returned by CreateServer when the server name is
	// already in use. Server names are unique.
	ErrServerNameTaken = errors.New("server name already taken")

	ErrNotImplemented = errors.New("not implemented")
)

func IsRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
