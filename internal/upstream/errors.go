package upstream

import "errors"

// Submission failure kinds. Every failed submission is reported as exactly
// one of these; the draft and cart are always left untouched so the user
// can retry or adjust.
const (
	KindNetworkFailure = "network_failure" // transport-level failure before a response
	KindServerRejected = "server_rejected" // non-2xx response from the lab backend
	KindTimeout        = "timeout"         // the request exceeded its deadline
)

// ErrNotSubmittable is returned when the submission precondition fails,
// e.g. the cart is empty or required summary fields are missing. The
// pipeline refuses to build a request in that state.
var ErrNotSubmittable = errors.New("booking is not ready for submission")

// SubmissionError describes a failed booking submission. Message carries
// the server-provided text for rejections, or a generic fallback.
type SubmissionError struct {
	Kind    string
	Status  int // HTTP status for server rejections, 0 otherwise
	Message string
	Err     error // underlying transport error, if any
}

func (e *SubmissionError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "booking submission failed"
}

// Unwrap exposes the transport error for errors.Is inspection.
func (e *SubmissionError) Unwrap() error { return e.Err }

// IsRejected reports whether err is a server rejection, as opposed to a
// transport failure or timeout.
func IsRejected(err error) bool {
	var se *SubmissionError
	return errors.As(err, &se) && se.Kind == KindServerRejected
}

// IsTimeout reports whether err is a submission timeout.
func IsTimeout(err error) bool {
	var se *SubmissionError
	return errors.As(err, &se) && se.Kind == KindTimeout
}
