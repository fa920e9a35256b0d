package main

import (
	"log"
	"os"

	"github.com/zeu5/safe-interrupt/benchmarks"
)

// main entry point to all the experiments
func main() {
	// rootCommand defines a command line argument parser (some arguments and a subcommand to run)
	rootCommand := benchmarks.GetRootCommand()
	if err := rootCommand.Execute(); err != nil {
		log.Printf("[APP] [ERROR] %s", err)
		os.Exit(1)
	}
}
