package main

import (
	"os"

	"github.com/scan-io-git/class-pollution-detection/cmd"
)

func main() {
	code := cmd.Execute()
	os.Exit(code)
}
