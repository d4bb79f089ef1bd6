package main

import (
	"context"
	"flag"
	"fmt"
	"os"
)

const version = "0.1.0"

var (
	versionOption = flag.Bool("version", false, "gqlgenpy version")
	configOption  = flag.String("config", "", "path to the config file (default: search the current directory)")
	verboseOption = flag.Bool("verbose", false, "enable debug logging")
)

func main() {
	flag.Parse()

	if *versionOption {
		fmt.Printf("gqlgenpy v%s", version)

		return
	}

	ctx := context.Background()
	if err := run(ctx, *configOption, *verboseOption); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
