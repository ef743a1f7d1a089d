// Command debugdeck runs floating debug panels in the terminal.
package main

import (
	"os"

	"debugdeck/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
