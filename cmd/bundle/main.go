// Command bundle is a thin CLI over pkg/bundle: point it at an entry file,
// get back the composed output spec.md's module graph engine produces.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
