package main

import (
	"os"

	"externals/cmd/externals/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
