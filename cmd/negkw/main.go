// Command negkw scores search-term reports from the command line.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonesrussell/north-cloud/negative-keywords/internal/cli"
)

func main() {
	if err := cli.Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
