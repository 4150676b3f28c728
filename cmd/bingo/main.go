package main

import "github.com/mcoot/rocketbingo/internal/cli"

func main() {
	cli.Execute()
}
