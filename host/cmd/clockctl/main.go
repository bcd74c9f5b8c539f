// Command clockctl inspects clocksource scale factors and runs a board
// clock on a Linux host.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
