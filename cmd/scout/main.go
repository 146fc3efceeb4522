package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var root = &cobra.Command{
		Use:   "scout",
		Short: "Research assistant that plans, executes, and verifies tasks over GitHub and news APIs",
	}

	root.AddCommand(runCMD(), serveCMD())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
