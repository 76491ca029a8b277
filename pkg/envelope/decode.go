package envelope

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"
)

// record is a JSON object with its member values left undecoded.
type record map[string]json.RawMessage

// parseRecord accepts only JSON objects. null, primitives, arrays and
// invalid JSON are all rejected.
func parseRecord(raw []byte) (record, bool) {
	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil || rec == nil {
		return nil, false
	}
	return rec, true
}

// Decode validates raw as an envelope. Checks run in order and the first
// failure wins:
//
//  1. raw is not a JSON object: ErrMalformedResponse.
//  2. status is missing or falsy, the message key is missing, or a
//     "success" envelope has a falsy message: ErrNotAnEnvelope.
//  3. status is "success" without a data key: ErrMissingSuccessData.
//
// An error envelope with a falsy message is accepted and rendered with a
// fallback. Any tag other than "success" decodes as StatusError; Tag keeps
// the raw value.
func Decode(raw []byte) (*Raw, error) {
	rec, ok := parseRecord(raw)
	if !ok {
		return nil, ErrMalformedResponse
	}

	status := rec["status"]
	message, hasMessage := rec["message"]
	if !truthy(status) || !hasMessage {
		return nil, ErrNotAnEnvelope
	}

	env := &Raw{Tag: text(status)}
	if truthy(message) {
		env.Message = text(message)
	}

	if isSuccessTag(status) {
		if !truthy(message) {
			return nil, ErrNotAnEnvelope
		}
		data, ok := rec["data"]
		if !ok {
			return nil, ErrMissingSuccessData
		}
		env.Status = StatusSuccess
		env.Data = data
		return env, nil
	}

	env.Status = StatusError
	env.Data = rec["data"]
	env.Error = decodeAPIError(rec["error"])
	return env, nil
}

// DecodeValue validates an already-decoded value, for example the result of
// unmarshalling into an any or a hand-built map.
func DecodeValue(v any) (*Raw, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, ErrMalformedResponse
	}
	return Decode(raw)
}

// DecodeReader reads r to EOF and decodes the result.
func DecodeReader(r io.Reader) (*Raw, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Decode(raw)
}

// decodeAPIError mirrors optional chaining on error.code: only an object
// contributes a code, and a falsy code counts as absent.
func decodeAPIError(raw json.RawMessage) *APIError[json.RawMessage] {
	rec, ok := parseRecord(raw)
	if !ok {
		return nil
	}
	apiErr := &APIError[json.RawMessage]{}
	if code := rec["code"]; truthy(code) {
		apiErr.Code = text(code)
	}
	if details, ok := rec["details"]; ok && !isNull(details) {
		apiErr.Details = details
	}
	return apiErr
}

func isSuccessTag(raw json.RawMessage) bool {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return false
	}
	return Status(s) == StatusSuccess
}

// truthy applies JavaScript truthiness to a JSON value. An absent value
// (nil) is falsy, as are null, false, 0 and "".
func truthy(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}
	switch raw[0] {
	case 'n', 'f':
		return false
	case 't', '{', '[':
		return true
	case '"':
		return len(raw) > 2
	default:
		f, _ := strconv.ParseFloat(string(raw), 64)
		return f != 0
	}
}

// text renders a JSON value for display: strings are unquoted, anything
// else is returned as its JSON text.
func text(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return string(raw)
}

func isNull(raw []byte) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
