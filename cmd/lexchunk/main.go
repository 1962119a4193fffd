// Lexchunk - article chunks from labor-code text
package main

import (
	"os"

	"github.com/HartBrook/lexchunk/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
