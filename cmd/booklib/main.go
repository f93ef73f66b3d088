// Package main provides the booklib CLI.
package main

import "github.com/mesh-intelligence/booklib/internal/cli"

func main() {
	cli.Execute()
}
