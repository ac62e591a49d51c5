package main

import (
	"os"

	"github.com/pilacorp/go-did-sdk/cmd/didctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
