package handling

import (
	"errors"
	"inventory_server/lib"
	"net/http"

	"github.com/MonkyMars/gecho"
)

// HandleError logs err and writes the matching error envelope. It is the last
// step for a failed request; nothing is retried.
func HandleError(err error, logger *gecho.Logger, w http.ResponseWriter) {
	var ve *lib.ValidationError
	if errors.As(err, &ve) {
		logger.Debug("Request body rejected", gecho.Field("error", err))
	} else {
		logger.Error("An error occurred", gecho.Field("error", err), gecho.WithCallerSkip(3))
	}

	lib.WriteError(w, err)
}
