package main

import (
	"os"

	"github.com/bnema/persona-cli/cmd"
	"github.com/joho/godotenv"
)

func main() {
	// Optional .env for GEMINI_API_KEY; absence is fine.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
