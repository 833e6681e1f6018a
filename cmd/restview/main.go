// Command restview serves database tables as read-only REST resources.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/restview/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
