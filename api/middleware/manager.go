package middleware

import (
	"inventory_server/lib"
	"inventory_server/structs"

	"github.com/MonkyMars/gecho"
)

type Middleware struct {
	cfg     *structs.Config
	logger  *gecho.Logger
	metrics *lib.Metrics
}

func NewMiddleware(cfg *structs.Config, logger *gecho.Logger, metrics *lib.Metrics) *Middleware {
	return &Middleware{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
	}
}
