package main

import (
	"os"

	"github.com/Pramodsai29/AegisAI/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
