// Command pdvctl runs the operational tasks the server never does on its
// own: schema migrations and bootstrapping the first administrator.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
