package envelope

import (
	"encoding/json"
	"fmt"
	"io"
)

// ExtractData validates raw and returns its payload decoded into T.
//
// Structural failures return ErrMalformedResponse, ErrNotAnEnvelope or
// ErrMissingSuccessData. Error envelopes return a *RemoteError. A success
// payload of JSON null yields the zero T. With T = json.RawMessage the
// payload bytes are returned unchanged.
func ExtractData[T any](raw []byte) (T, error) {
	var zero T
	env, err := Decode(raw)
	if err != nil {
		return zero, err
	}
	return DataOf[T](env)
}

// ExtractDataFrom reads r to EOF and calls ExtractData.
func ExtractDataFrom[T any](r io.Reader) (T, error) {
	var zero T
	raw, err := io.ReadAll(r)
	if err != nil {
		return zero, err
	}
	return ExtractData[T](raw)
}

// DataOf returns the payload of an already decoded envelope.
func DataOf[T any](env *Raw) (T, error) {
	var out T
	if err := env.Err(); err != nil {
		return out, err
	}
	if env.Data == nil {
		return out, ErrMissingSuccessData
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return out, fmt.Errorf("envelope: decode data: %w", err)
	}
	return out, nil
}

// ExtractMessage returns the envelope message. It never fails: input that is
// not a JSON object yields the invalid-response text and a falsy or missing
// message yields the no-message text.
func ExtractMessage(raw []byte) string {
	rec, ok := parseRecord(raw)
	if !ok {
		return msgInvalidResponse
	}
	if msg := rec["message"]; truthy(msg) {
		return text(msg)
	}
	return msgNoMessage
}

// ExtractStatus returns the envelope tag. It never fails and answers
// StatusError whenever the tag is missing, falsy or not "success". Use
// Decode and read Raw.Tag for the tag exactly as received.
func ExtractStatus(raw []byte) Status {
	rec, ok := parseRecord(raw)
	if !ok {
		return StatusError
	}
	if status := rec["status"]; truthy(status) && isSuccessTag(status) {
		return StatusSuccess
	}
	return StatusError
}
