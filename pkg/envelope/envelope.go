package envelope

import "encoding/json"

// Status is the envelope tag.
type Status string

// Envelope tags.
const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// DefaultSuccessMessage is the message used by Success.
const DefaultSuccessMessage = "요청에 성공했습니다."

// APIError carries the machine-readable part of an error envelope.
type APIError[K any] struct {
	Code    string `json:"code"`
	Details K      `json:"details,omitempty"`
}

// Envelope is the response wrapper. T is the success payload type and K the
// error details type.
//
// Data is always serialised, so a success envelope with a nil payload goes
// out as "data": null and still satisfies the strict consumer check.
type Envelope[T, K any] struct {
	Status  Status       `json:"status"`
	Data    T            `json:"data"`
	Message string       `json:"message"`
	Error   *APIError[K] `json:"error,omitempty"`

	// Tag is the status value exactly as it was received. Decode sets it;
	// unrecognised tags are normalised to StatusError in Status.
	Tag string `json:"-"`
}

// Raw is a decoded envelope whose payload and details are still undecoded JSON.
// A nil Data means the key was absent; JSON null is the 4-byte literal.
type Raw = Envelope[json.RawMessage, json.RawMessage]

// Success wraps data in a success envelope with the default message.
func Success[T any](data T) Envelope[T, any] {
	return Envelope[T, any]{Status: StatusSuccess, Data: data, Message: DefaultSuccessMessage}
}

// SuccessWithMessage wraps data in a success envelope with a custom message.
func SuccessWithMessage[T any](message string, data T) Envelope[T, any] {
	return Envelope[T, any]{Status: StatusSuccess, Data: data, Message: message}
}

// Fail builds an error envelope with a code and message.
func Fail(code, message string) Envelope[any, any] {
	return Envelope[any, any]{
		Status:  StatusError,
		Message: message,
		Error:   &APIError[any]{Code: code},
	}
}

// FailWithDetails builds an error envelope carrying structured details.
func FailWithDetails[K any](code, message string, details K) Envelope[any, K] {
	return Envelope[any, K]{
		Status:  StatusError,
		Message: message,
		Error:   &APIError[K]{Code: code, Details: details},
	}
}

// FailWithData builds an error envelope that also carries a partial payload.
func FailWithData[T, K any](code, message string, data T, details K) Envelope[T, K] {
	return Envelope[T, K]{
		Status:  StatusError,
		Data:    data,
		Message: message,
		Error:   &APIError[K]{Code: code, Details: details},
	}
}

// Succeeded reports whether the envelope is tagged success.
func (e *Envelope[T, K]) Succeeded() bool {
	return e != nil && e.Status == StatusSuccess
}

// Err returns nil for a success envelope and a *RemoteError otherwise.
// The remote error keeps the code, message and details as received.
func (e *Envelope[T, K]) Err() error {
	if e == nil {
		return ErrMalformedResponse
	}
	if e.Status == StatusSuccess {
		return nil
	}
	re := &RemoteError{Message: e.Message, Tag: e.Tag}
	if re.Tag == "" {
		re.Tag = string(e.Status)
	}
	if e.Error != nil {
		re.Code = e.Error.Code
		re.Details = marshalDetails(e.Error.Details)
	}
	return re
}

func marshalDetails(details any) json.RawMessage {
	if raw, ok := details.(json.RawMessage); ok {
		if isNull(raw) {
			return nil
		}
		return raw
	}
	b, err := json.Marshal(details)
	if err != nil || isNull(b) {
		return nil
	}
	return b
}
