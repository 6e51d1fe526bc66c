package main

import (
	"os"

	"github.com/sgoodwin/xsearch/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
