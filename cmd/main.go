package main

import (
	"fmt"
	"os"

	"github.com/ferdian3456/staffroster/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
