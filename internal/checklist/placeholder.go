package checklist

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

const placeholderPrefix = "local-"

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewPlaceholderID returns a locally generated id for a checklist that has
// not been saved yet.
func NewPlaceholderID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return placeholderPrefix + ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// IsPlaceholder reports whether id was generated locally, or is empty.
func IsPlaceholder(id string) bool {
	trimmed := strings.TrimSpace(id)
	return trimmed == "" || strings.HasPrefix(trimmed, placeholderPrefix)
}
