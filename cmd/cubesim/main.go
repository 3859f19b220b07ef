// cubesim - 3x3x3 puzzle simulator with an interactive terminal viewer.
package main

import (
	"github.com/SeamusWaldron/cubesim/internal/cli"
)

func main() {
	cli.Execute()
}
