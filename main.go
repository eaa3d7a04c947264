package main

import (
	"github.com/joho/godotenv"

	"github.com/qmotors/dealerbot-go/cmd"
)

func main() {
	// Optional .env for local development; missing file is fine.
	godotenv.Load()
	cmd.Execute()
}
