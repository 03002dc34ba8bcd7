package main

import (
	"dealwire/cmd/cmd"
	"dealwire/internal/logger"
)

func main() {
	logger.Init() // Initialize the logger
	cmd.Execute()
}
