package main

import (
	"fmt"
	"os"

	"github.com/roach88/avrconf/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil && !cli.IsReported(err) {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
	os.Exit(cli.GetExitCode(err))
}
