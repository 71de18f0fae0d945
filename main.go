package main

import "github.com/gavel-dev/gavel/internal/cli"

func main() {
	cli.Execute()
}
