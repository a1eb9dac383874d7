package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Optional .env for provider credentials; absence is fine.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
