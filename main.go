package main

import "github.com/Fepozopo/localeq/pkg/cli"

func main() {
	cli.RunCLI()
}
