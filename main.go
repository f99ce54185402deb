package main

import (
	"os"

	"github.com/abhisek/calcquiz/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
