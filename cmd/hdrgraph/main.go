// Package main is the entry point for the hdrgraph CLI and MCP server.
package main

import (
	"github.com/dejo1307/hdrgraph/internal/cli"
)

func main() {
	cli.Execute()
}
