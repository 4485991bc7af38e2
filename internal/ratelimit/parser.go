// Package ratelimit recognizes rate-limit responses from generation
// providers and extracts the wait hint they carry, if any.
package ratelimit

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// BarePatternMaxContentSize caps the message length checked against bare
// phrases, so a long response that merely discusses rate limits is not
// mistaken for one.
const BarePatternMaxContentSize = 500

// MaxRetryAfter bounds a parsed wait hint.
const MaxRetryAfter = 2 * time.Minute

// Info describes a detected rate limit.
type Info struct {
	// Detected indicates a rate limit was found.
	Detected bool

	// Parseable indicates RetryAfter was extracted from the message.
	Parseable bool

	// RetryAfter is the provider's requested wait, capped at MaxRetryAfter.
	RetryAfter time.Duration
}

var (
	// "Please try again in 1.5s", "try again in 20ms", "retry after 30 seconds"
	retryAfterRe = regexp.MustCompile(`(?i)(?:try again in|retry after|retry-after:?)\s*(\d+(?:\.\d+)?)\s*(ms|milliseconds?|s|secs?|seconds?|m|mins?|minutes?)?\b`)

	barePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)rate limit exceeded`),
		regexp.MustCompile(`(?i)rate[- ]limited`),
		regexp.MustCompile(`(?i)too many requests`),
		regexp.MustCompile(`(?i)\b429\b`),
		regexp.MustCompile(`(?i)quota exceeded`),
		regexp.MustCompile(`(?i)server is overloaded|overloaded_error`),
	}
)

// Detect inspects a provider error message. It returns nil when the message
// does not look like a rate limit.
func Detect(message string) *Info {
	if message == "" || len(message) > BarePatternMaxContentSize {
		return nil
	}

	detected := false
	for _, re := range barePatterns {
		if re.MatchString(message) {
			detected = true
			break
		}
	}
	if !detected {
		return nil
	}

	info := &Info{Detected: true}
	if d, ok := ParseRetryAfter(message); ok {
		info.Parseable = true
		info.RetryAfter = d
	}
	return info
}

// ParseRetryAfter extracts a wait hint such as "try again in 1.5s".
// A bare number is read as seconds.
func ParseRetryAfter(message string) (time.Duration, bool) {
	m := retryAfterRe.FindStringSubmatch(message)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}

	unit := time.Second
	switch u := strings.ToLower(m[2]); {
	case strings.HasPrefix(u, "ms"), strings.HasPrefix(u, "milli"):
		unit = time.Millisecond
	case u == "m", strings.HasPrefix(u, "min"):
		unit = time.Minute
	}

	d := time.Duration(n * float64(unit))
	if d > MaxRetryAfter {
		d = MaxRetryAfter
	}
	return d, true
}
