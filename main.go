// File: attendify/main.go
package main

import (
	"os"

	"attendify/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
