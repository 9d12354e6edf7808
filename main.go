package main

import (
	"os"

	"github.com/abhisek/adapted/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
