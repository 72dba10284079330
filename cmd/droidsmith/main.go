package main

import (
	"github.com/joho/godotenv"

	"droidsmith/cli"
	"droidsmith/logger"
)

func main() {
	_ = godotenv.Load()
	logger.Init()
	cli.Execute()
}
