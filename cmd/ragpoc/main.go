// Command ragpoc is the entry point for the RAG pipeline CLI.
package main

import (
	"fmt"
	"os"

	"github.com/swdevsmz/spec-diven-rag-poc/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
