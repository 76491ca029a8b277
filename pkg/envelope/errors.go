package envelope

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Failure texts. They double as the keys of the message catalog in i18n.go.
const (
	msgMalformedResponse  = "잘못된 API 응답 형식입니다."
	msgNotAnEnvelope      = "APIResponse 형식이 아닙니다."
	msgMissingSuccessData = "성공 응답이지만 data가 없습니다."
	msgRequestFailed      = "API 요청 실패"
	msgInvalidResponse    = "잘못된 응답입니다."
	msgNoMessage          = "메시지가 없습니다."
)

// UnknownErrorCode is rendered when an error envelope carries no code.
const UnknownErrorCode = "UNKNOWN_ERROR"

// Structural decode failures.
var (
	// ErrMalformedResponse means the input is not a JSON object at all.
	ErrMalformedResponse = errors.New(msgMalformedResponse)

	// ErrNotAnEnvelope means the input is an object without a status or message.
	ErrNotAnEnvelope = errors.New(msgNotAnEnvelope)

	// ErrMissingSuccessData means the envelope is tagged success but has no data key.
	ErrMissingSuccessData = errors.New(msgMissingSuccessData)
)

// Error kinds returned by Kind.
const (
	KindMalformedResponse  = "malformed_response"
	KindNotAnEnvelope      = "not_an_envelope"
	KindMissingSuccessData = "missing_success_data"
	KindRemoteError        = "remote_error"
)

// RemoteError is an error envelope surfaced as a Go error.
//
// Code, Message and Details hold the values as received; the fallbacks are
// applied only when rendering.
type RemoteError struct {
	Code    string
	Message string
	Details json.RawMessage
	Tag     string
}

// Error renders "[code] message".
func (e *RemoteError) Error() string {
	return "[" + e.DisplayCode() + "] " + e.DisplayMessage()
}

// DisplayCode returns Code, or UnknownErrorCode when it is empty.
func (e *RemoteError) DisplayCode() string {
	if e.Code == "" {
		return UnknownErrorCode
	}
	return e.Code
}

// DisplayMessage returns Message, or the generic request failure text when it is empty.
func (e *RemoteError) DisplayMessage() string {
	if e.Message == "" {
		return msgRequestFailed
	}
	return e.Message
}

// DecodeDetails unmarshals the details of a remote error into K.
// It returns the zero value and no error when there are no details.
func DecodeDetails[K any](e *RemoteError) (K, error) {
	var out K
	if e == nil || len(e.Details) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(e.Details, &out); err != nil {
		return out, fmt.Errorf("envelope: decode error details: %w", err)
	}
	return out, nil
}

// AsRemoteError returns the *RemoteError in err's chain, if any.
func AsRemoteError(err error) (*RemoteError, bool) {
	var re *RemoteError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// Kind classifies err into one of the Kind* constants, or "" for errors that
// did not come from this package.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMalformedResponse):
		return KindMalformedResponse
	case errors.Is(err, ErrNotAnEnvelope):
		return KindNotAnEnvelope
	case errors.Is(err, ErrMissingSuccessData):
		return KindMissingSuccessData
	}
	if _, ok := AsRemoteError(err); ok {
		return KindRemoteError
	}
	return ""
}
