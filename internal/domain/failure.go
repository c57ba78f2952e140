package domain

import "fmt"

// FailureKind tags a failure with its user-facing category. Everything in this
// taxonomy is recoverable: the engine converts failures into an empty
// suggestion batch plus a message, never a crash.
type FailureKind string

const (
	// FailConfiguration: a required setting (the API credential) is absent.
	FailConfiguration FailureKind = "configuration_missing"
	// FailRateLimited: local limiter rejection or a remote 429.
	FailRateLimited FailureKind = "rate_limited"
	// FailUnauthorized: remote 401, bad credential.
	FailUnauthorized FailureKind = "unauthorized"
	// FailMalformed: remote 400, request rejected upstream.
	FailMalformed FailureKind = "malformed_request"
	// FailUpstream: any other non-2xx from the completion service.
	FailUpstream FailureKind = "upstream_error"
	// FailNetwork: transport-level error before a response arrived.
	FailNetwork FailureKind = "network_failure"
	// FailParse: the response parser exhausted both strategies.
	FailParse FailureKind = "parse_failure"
	// FailExtraction: required context could not be extracted at all
	// (e.g. empty transcript, unidentifiable recipient).
	FailExtraction FailureKind = "extraction_miss"
)

// Failure is the discriminated error carried across the engine boundary.
type Failure struct {
	Kind    FailureKind
	Message string
}

func (f *Failure) Error() string { return f.Message }

// NewFailure builds a Failure with a formatted message.
func NewFailure(kind FailureKind, format string, args ...any) *Failure {
	return &Failure{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// AsFailure unwraps err into a *Failure, wrapping unknown errors as upstream.
func AsFailure(err error) *Failure {
	if err == nil {
		return nil
	}
	if f, ok := err.(*Failure); ok {
		return f
	}
	return &Failure{Kind: FailUpstream, Message: err.Error()}
}
