package main

import (
	"os"

	"github.com/haocluo92/well-scheduler/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
