package marketcap

import "errors"

var (
	// ErrPaywalled is matched by errors from a source that refuses to serve a
	// symbol for the current subscription (HTTP 402).
	ErrPaywalled = errors.New("paywalled")

	// ErrNoData is matched by errors from a source that has nothing for a symbol.
	ErrNoData = errors.New("no data")

	// ErrNoShares is matched when shares outstanding cannot cover the price months.
	ErrNoShares = errors.New("no shares outstanding")
)
