package main

import "codeberg.org/mutker/ryzenctl/internal/cli"

var version = "dev"

func main() {
	cli.Execute(version)
}
