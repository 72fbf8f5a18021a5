package main

import (
	"os"

	"github.com/zyxir/dotinstall/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
