package main

import (
	"os"

	"github.com/wonny/probe/backend/cmd/probe/commands"
)

// main is the entry point for the probe CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/probe [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
