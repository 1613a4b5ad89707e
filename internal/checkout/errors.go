package checkout

import "errors"

var (
	// ErrNotAuthenticated gates entry; handlers answer it with a redirect
	// to the login view carrying a checkout redirect target.
	ErrNotAuthenticated = errors.New("checkout requires an authenticated identity")

	// ErrEmptyCart gates entry; handlers answer it with a redirect to the
	// cart view.
	ErrEmptyCart = errors.New("cart is empty, nothing to checkout")

	// ErrSubmissionInFlight rejects a second submission while one is
	// outstanding for the same session or idempotency key.
	ErrSubmissionInFlight = errors.New("a checkout submission is already in flight")

	// ErrCheckoutFailed is the generic user-facing failure; the underlying
	// cause is logged, not surfaced.
	ErrCheckoutFailed = errors.New("an error occurred during checkout")
)
