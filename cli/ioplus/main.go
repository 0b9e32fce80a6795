// Package main is the ioplus command line utility.
package main

import (
	"os"

	"github.com/fatih/color"

	"go.viam.com/ioplus/cli"
)

func main() {
	app := cli.NewApp(os.Stdout, os.Stderr)
	if err := app.Run(cli.TranslateArgs(os.Args)); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
