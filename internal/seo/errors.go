package seo

import (
	"fmt"
	"time"
)

// FetchErrorKind distinguishes the terminal fetch failures.
type FetchErrorKind string

const (
	FetchUnreachable      FetchErrorKind = "unreachable"
	FetchTimeout          FetchErrorKind = "timeout"
	FetchNonHTML          FetchErrorKind = "non_html"
	FetchTooManyRedirects FetchErrorKind = "too_many_redirects"
	FetchBadStatus        FetchErrorKind = "bad_status"
)

// InputError rejects a request before any I/O happens. It is always
// user-correctable.
type InputError struct {
	Field  string
	Reason string
}

func (e InputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// CaptchaError rejects a request whose captcha token could not be
// verified. Verification failures are never degraded into a partial
// success.
type CaptchaError struct {
	Err error
}

func (e CaptchaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("captcha verification failed: %v", e.Err)
	}
	return "captcha verification failed"
}

func (e CaptchaError) Unwrap() error {
	return e.Err
}

// UsageLimitError rejects a request whose client exhausted the daily
// quota. ResetTime tells the caller when the bucket rolls over.
type UsageLimitError struct {
	ClientID  string
	ResetTime time.Time
}

func (e UsageLimitError) Error() string {
	return fmt.Sprintf("daily usage limit reached, resets at %s", e.ResetTime.Format(time.RFC3339))
}

// FetchError is fatal to an analysis: there is no page to score.
type FetchError struct {
	URL  string
	Kind FetchErrorKind
	Err  error
}

func (e FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s (%s): %v", e.URL, e.Kind, e.Err)
	}
	return fmt.Sprintf("fetch %s (%s)", e.URL, e.Kind)
}

func (e FetchError) Unwrap() error {
	return e.Err
}
