package main

import (
	"os"

	"github.com/wonny/aegis-fin/backend/cmd/fin/commands"
)

// main is the entry point for the financial metrics CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/fin [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
