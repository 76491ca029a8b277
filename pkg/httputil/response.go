// Package httputil provides the response writers shared by the editor API
// and the mock engine.
package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ourohead/ourohead/pkg/envelope"
)

// MaxBodySize bounds request bodies read by DecodeJSON.
const MaxBodySize = 10 << 20

// ErrBodyTooLarge is returned by DecodeJSON when the body exceeds the limit.
var ErrBodyTooLarge = errors.New("request body too large")

// WriteJSON writes data as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// WriteBody writes raw bytes with the given content type.
func WriteBody(w http.ResponseWriter, status int, contentType string, body []byte) {
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// WriteSuccess writes a success envelope. A nil data still serialises as
// "data": null.
func WriteSuccess(w http.ResponseWriter, status int, message string, data any) {
	WriteJSON(w, status, envelope.SuccessWithMessage(message, data))
}

// WriteFail writes an error envelope with code and message.
func WriteFail(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, envelope.Fail(code, message))
}

// WriteFailWithDetails writes an error envelope carrying details.
func WriteFailWithDetails(w http.ResponseWriter, status int, code, message string, details any) {
	WriteJSON(w, status, envelope.FailWithDetails(code, message, details))
}

// DecodeJSON reads a JSON request body into v, bounded by MaxBodySize.
func DecodeJSON(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodySize+1))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if len(body) > MaxBodySize {
		return ErrBodyTooLarge
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}
