package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/itzCozi/v8build/internal/cli"
)

func main() {
	if _, err := cli.Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		color.New(color.FgRed, color.Bold).Fprint(os.Stderr, "Error: ")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitCode(err))
	}
}
