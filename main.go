// main is the entry point for the greenscore CLI.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/greenscore/cmd"
	"github.com/huangsam/greenscore/internal/iocache"
)

func main() {
	err := cmd.Execute()
	iocache.CloseStores()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
