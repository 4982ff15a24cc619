package main

import (
	"fmt"
	"os"

	"blogcms/cmd"
	"blogcms/logger"
)

func main() {
	if err := cmd.NewRootCommand().Execute(); err != nil {
		logger.Get().Error().Err(err).Msg("Command failed")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
