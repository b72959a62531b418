package main

import (
	"os"

	"github.com/kx0101/devoverlay/internal/cli"
)

func main() {
	os.Exit(int(cli.Execute(os.Args[1:], os.Stdout, os.Stderr)))
}
