package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/platinummonkey/pluginloader/pkg/cli"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	root := cli.NewRootCommand(version)
	if err := root.ExecuteContext(context.Background()); err != nil {
		if !errors.Is(err, cli.ErrMissingPlugins) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
