// Command riskgate is the entry point for the riskgate CLI.
package main

import (
	"fmt"
	"os"

	"github.com/riskgate/riskgate/cmd"
	"github.com/riskgate/riskgate/schema"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(schema.ExitError)
	}
}
