// Package envelope implements the tagged success/error response envelope
// returned by the ourohead editor API.
//
// The wire shape is:
//
//	{"status": "success"|"error", "message": "...", "data": ..., "error": {"code": "...", "details": ...}}
//
// Producers build envelopes with [Success], [SuccessWithMessage], [Fail],
// [FailWithDetails] and [FailWithData]. Consumers validate untrusted bytes
// with [Decode] and pull values out with the extractors:
//
//   - [ExtractData] is strict: it fails on any structural violation and turns
//     error envelopes into a [*RemoteError].
//   - [ExtractMessage] and [ExtractStatus] are total: they always return a
//     displayable value, even for garbage input.
package envelope
