// chessboard edits saved chess boards and serves them over HTTP.
package main

import (
	"os"
)

const programVersion = "0.1.0"

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
