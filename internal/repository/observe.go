package repository

import (
	"context"

	"github.com/sunil-gumatimath/wave-length/internal/observability"
)

// observe opens a span and latency timer for a repository call. The returned
// function must be called with the call's final error.
func observe(ctx context.Context, op, table string) (context.Context, func(error)) {
	ctx, span := observability.TraceRepositoryMethod(ctx, op, table)
	done := observability.TrackQuery(op, table)
	return ctx, func(err error) {
		done()
		if err != nil {
			observability.RepositoryErrors.WithLabelValues(op, errorCode(err)).Inc()
		}
		observability.EndSpan(span, err)
	}
}
