package entity

// ErrorKind classifies a routing or generation failure. The kind drives the
// failover decision (retry the same candidate, switch to the next one, or
// abort) and is attached to every failure log line and metric.
type ErrorKind int

const (
	// KindUnclassified marks errors that match no known signal. They are
	// handled conservatively: switch to the next candidate, never retried.
	KindUnclassified ErrorKind = iota

	// KindQuotaExhausted marks rate-limit or quota signals from the upstream.
	KindQuotaExhausted

	// KindTransientUnavailable marks temporary server-side failures expected
	// to resolve on retry (5xx, overload, timeouts).
	KindTransientUnavailable

	// KindInvalidConfiguration marks per-candidate configuration failures:
	// the backend does not exist for this credential or rejects the request
	// shape outright.
	KindInvalidConfiguration

	// KindMalformedResponse marks backend output that could not be parsed
	// into the expected structured shape.
	KindMalformedResponse

	// KindNoCandidatesAvailable marks an empty catalog, including the safe
	// default. Surfaced to the caller.
	KindNoCandidatesAvailable

	// KindAllBackendsExhausted marks a routing attempt in which every
	// candidate failed. Surfaced to the caller.
	KindAllBackendsExhausted
)

// String returns the stable kind label used in logs and metrics.
func (k ErrorKind) String() string {
	switch k {
	case KindQuotaExhausted:
		return "quota_exhausted"
	case KindTransientUnavailable:
		return "transient_unavailable"
	case KindInvalidConfiguration:
		return "invalid_configuration"
	case KindMalformedResponse:
		return "malformed_response"
	case KindNoCandidatesAvailable:
		return "no_candidates_available"
	case KindAllBackendsExhausted:
		return "all_backends_exhausted"
	default:
		return "unclassified"
	}
}

// GenerationOutcome is the result of one routing attempt. Exactly one of the
// success fields or Failure is set. Outcomes are returned by value and never
// stored.
type GenerationOutcome struct {
	// Text is the generated (and, when a response shape is configured,
	// normalized) output. Empty on failure.
	Text string

	// BackendID identifies the backend that produced Text. Empty on failure.
	BackendID string

	// Switched reports whether the router had to move past its first
	// candidate before the request was served. Used for SLO tracking.
	Switched bool

	// Failure describes why the routing attempt failed. Nil on success.
	Failure *FailureInfo
}

// FailureInfo describes a terminal routing failure.
type FailureInfo struct {
	// Kind is the classified failure kind.
	Kind ErrorKind

	// Detail is a short, sanitized description safe to show to end users.
	// It never contains raw upstream error bodies.
	Detail string
}

// Succeeded reports whether the outcome carries generated text.
func (o GenerationOutcome) Succeeded() bool {
	return o.Failure == nil
}

// Success builds a successful outcome for the given backend.
func Success(text, backendID string) GenerationOutcome {
	return GenerationOutcome{Text: text, BackendID: backendID}
}

// Failure builds a failed outcome with a stable, user-presentable detail.
func Failure(kind ErrorKind, detail string) GenerationOutcome {
	if detail == "" {
		detail = UserMessage(kind)
	}
	return GenerationOutcome{Failure: &FailureInfo{Kind: kind, Detail: detail}}
}

// UserMessage maps a failure kind to a stable message suitable for end users.
// Raw upstream errors or stack traces must never reach the caller; these
// messages are the only failure text the router surfaces.
func UserMessage(kind ErrorKind) string {
	switch kind {
	case KindNoCandidatesAvailable:
		return "no generation backends could be discovered"
	case KindAllBackendsExhausted:
		return "all available generation backends failed to respond"
	default:
		return "generation request failed"
	}
}
