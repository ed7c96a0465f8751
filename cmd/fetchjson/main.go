package main

import (
	"os"

	"github.com/adamwoolhether/fetchjson/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
