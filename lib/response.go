package lib

import (
	"encoding/json"
	"errors"
	"net/http"
)

type resultEnvelope struct {
	Result json.RawMessage `json:"result"`
}

type errorEnvelope struct {
	Error  string       `json:"error"`
	Fields []FieldError `json:"fields,omitempty"`
}

// WriteJSON writes v as a JSON body with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

// WriteResult wraps a downstream payload in {"result": ...}.
func WriteResult(w http.ResponseWriter, result json.RawMessage) {
	WriteJSON(w, http.StatusOK, resultEnvelope{Result: result})
}

// WriteError translates err into the uniform error envelope. Validation
// failures map to 422, everything else to 500 with the operation context and
// the underlying message.
func WriteError(w http.ResponseWriter, err error) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		WriteJSON(w, http.StatusUnprocessableEntity, errorEnvelope{
			Error:  "Validation failed",
			Fields: ve.Errors,
		})
		return
	}

	WriteJSON(w, http.StatusInternalServerError, errorEnvelope{Error: err.Error()})
}
