package main

import (
	"errors"
	"io"
	"os"

	"github.com/openspec-dev/openspec/internal/cli"
)

var version = "0.1.0-dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	rootCmd := cli.NewRootCommand(cli.NewApp(version))
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, cli.ErrValidationFailed) {
		cli.PrintError(stderr, err)
	}
	return cli.ExitCode(err)
}
