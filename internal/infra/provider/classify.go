package provider

import (
	"context"
	"errors"
	"net"
	"net/http"

	"genroute/internal/domain/entity"
)

// classifyStatus maps an upstream HTTP status code onto a failure kind.
//
// The buckets drive the router's failover decisions:
//   - 429: the key or backend is out of quota; switching backends is the
//     only move that can help within this request
//   - 400/401/403/404: the request or credentials do not fit this backend
//     (retired model, revoked key); retrying cannot fix it
//   - 408 and 5xx: the backend is having a moment; worth a bounded retry
func classifyStatus(status int) entity.ErrorKind {
	switch {
	case status == http.StatusTooManyRequests:
		return entity.KindQuotaExhausted
	case status == http.StatusBadRequest,
		status == http.StatusUnauthorized,
		status == http.StatusForbidden,
		status == http.StatusNotFound:
		return entity.KindInvalidConfiguration
	case status == http.StatusRequestTimeout:
		return entity.KindTransientUnavailable
	case status >= 500 && status < 600:
		return entity.KindTransientUnavailable
	default:
		return entity.KindUnclassified
	}
}

// classify wraps an upstream error with its failure kind and the backend it
// came from. Errors without a status code fall back to network and context
// inspection.
func classify(backend string, status int, err error) error {
	if err == nil {
		return nil
	}

	if status > 0 {
		return entity.Classified(classifyStatus(status), backend, err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return entity.Classified(entity.KindTransientUnavailable, backend, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return entity.Classified(entity.KindTransientUnavailable, backend, err)
	}

	return entity.Classified(entity.KindUnclassified, backend, err)
}
