// Package main provides the pagedb CLI application.
// pagedb manages the lifecycle of the newspaper page annotation
// database: schema creation, dataset import, reconciliation, and the
// HTTP API the annotation front-end talks to.
package main

import (
	"os"
)

var (
	// Version is set by build flags
	Version = "dev"
)

func main() {
	if err := getRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
