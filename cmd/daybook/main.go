package main

import (
	"os"

	"github.com/pterm/pterm"

	"github.com/ayoisaiah/daybook/app"
	"github.com/ayoisaiah/daybook/config"
)

func run(args []string) error {
	config.InitializePaths()

	return app.Get().Run(args)
}

func main() {
	if err := run(os.Args); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}
