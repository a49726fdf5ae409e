package config

import (
	"inventory_server/structs"

	"github.com/MonkyMars/gecho"
)

// NewLogger creates a leveled logger for the configured environment. Request
// logging middleware passes showCaller=false, everything else true.
func NewLogger(cfg *structs.Config, showCaller bool) *gecho.Logger {
	logLevel := gecho.ParseLogLevel(GetLogLevel(cfg))
	return gecho.NewLogger(gecho.NewConfig(gecho.WithShowCaller(showCaller), gecho.WithLogLevel(logLevel)))
}
