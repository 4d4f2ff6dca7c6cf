package types

import "github.com/pkg/errors"

// Sentinel errors for the failure taxonomy. Callers match them with
// errors.Is through wrap chains; none of them ever crosses a repository
// boundary as control flow.
var (
	// ErrTransientNetwork marks a retryable network failure. The engine
	// does not retry within a run; callers may.
	ErrTransientNetwork = errors.New("transient network error")

	// ErrToolUnavailable marks a missing external tool (e.g. git not on
	// PATH). Fatal for extraction of that repository only.
	ErrToolUnavailable = errors.New("required tool unavailable")

	// ErrRateLimited marks a provider rate limit. Detection degrades to
	// README-only scoring; extraction surfaces it for user messaging.
	ErrRateLimited = errors.New("rate limited by remote API")

	// ErrStructuralMismatch marks unparseable structural data.
	// Classification proceeds with partial data instead of failing.
	ErrStructuralMismatch = errors.New("unexpected remote data structure")
)
