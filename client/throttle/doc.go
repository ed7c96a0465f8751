// Package throttle rate-limits outbound requests per destination
// domain using token buckets from [golang.org/x/time/rate].
//
// # Usage
//
// Create a [Limiter] and wait on it before each request:
//
//	l, err := throttle.New(
//		10, // requests per second, per domain
//		5,  // burst capacity, per domain
//		func() *slog.Logger { return slog.Default() },
//	)
//	if err := l.Wait(ctx, "api.example.com"); err != nil { ... }
//
// Each domain gets its own bucket, so a slow host does not starve
// requests to others. Wait blocks until a token becomes available or
// the context is cancelled.
package throttle
