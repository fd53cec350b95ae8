// Command wikientities-subset reduces an entity list to unambiguous phrase/label pairs
package main

import (
	"os"

	perr "wikientities/internal/platform/errors"
	"wikientities/internal/platform/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.Get().Error().Err(err).Str("code", perr.CodeOf(err).String()).Msg("wikientities-subset failed")
		os.Exit(1)
	}
}
