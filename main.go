package main

import (
	"fmt"
	"os"

	"github.com/stevenmitchelltan/eyes-and-ears/cmd/cli"
)

const (
	exitErrorTemplateConstant = "%v\n"
)

// main executes the eyes-and-ears command-line application.
func main() {
	if executionError := cli.Execute(); executionError != nil {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
		os.Exit(1)
	}
}
