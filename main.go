package main

import "strings-rewriter/internal/cli"

func main() {
	cli.Execute()
}
