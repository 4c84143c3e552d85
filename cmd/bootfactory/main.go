package main

import (
	"os"

	"github.com/utkarsh5026/bootfactory/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
