package main

import (
	"os"
)

// -------------------- MAIN --------------------

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
