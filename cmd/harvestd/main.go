package main

import "github.com/xjoerootx/smart-test/cmd/harvestd/cmd"

func main() {
	cmd.Execute()
}
