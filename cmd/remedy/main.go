// Command remedy turns code-analysis findings into a phased cleanup plan.
package main

import (
	"os"

	"github.com/Iron-Ham/remedy/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
