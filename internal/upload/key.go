package upload

import (
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// KeyPrefix is the folder every uploaded object lands in.
const KeyPrefix = "uploads/"

// TokenSource hands out epoch-millisecond tokens that are strictly
// increasing for the life of the process, so two calls in the same
// millisecond still get different tokens.
type TokenSource struct {
	last atomic.Int64
	now  func() time.Time
}

// NewTokenSource returns a TokenSource reading the wall clock.
func NewTokenSource() *TokenSource {
	return &TokenSource{now: time.Now}
}

// Next returns the next token.
func (t *TokenSource) Next() int64 {
	for {
		last := t.last.Load()
		next := t.now().UnixMilli()
		if next <= last {
			next = last + 1
		}
		if t.last.CompareAndSwap(last, next) {
			return next
		}
	}
}

var separatorReplacer = strings.NewReplacer("/", "_", "\\", "_")

// ObjectKey builds the storage path for name: "uploads/<token>-<name>" with
// path separators flattened.
func ObjectKey(token int64, name string) string {
	return KeyPrefix + strconv.FormatInt(token, 10) + "-" + separatorReplacer.Replace(name)
}
