package retry

import (
	"errors"
	"net"

	"github.com/johnsonav1992/formularity"
)

// IsTransient reports whether err is worth retrying. Errors categorized
// through formularity.CategorizedError are trusted as-is; otherwise network
// timeouts count as transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var ce formularity.CategorizedError
	if errors.As(err, &ce) {
		return ce.Retryable()
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return false
}
