package main

import (
	"log/slog"
	"os"

	"github.com/spf13/afero"
)

func main() {
	fs := afero.NewOsFs()
	if err := newRootCmd(fs).Execute(); err != nil {
		slog.Error("kvgen failed", "error", err)
		os.Exit(1)
	}
}
