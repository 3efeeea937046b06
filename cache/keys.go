package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"time"
)

// ResultKey builds the cache key of an analysis result. Kinds compare
// case-insensitively and dates by UTC calendar day.
func ResultKey(operation, kind, id string, from, to time.Time) string {
	return makeKey(
		strings.ToLower(strings.TrimSpace(operation)),
		strings.ToLower(strings.TrimSpace(kind)),
		strings.TrimSpace(id),
		canonicalDay(from),
		canonicalDay(to),
	)
}

// SnapshotKey names a snapshot by the calendar day its window ends on.
func SnapshotKey(windowEnd time.Time) string {
	return canonicalDay(windowEnd)
}

func canonicalDay(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format("2006-01-02")
}

func makeKey(parts ...string) string {
	joined := strings.Join(parts, "|")
	h := sha1.Sum([]byte(joined))
	return hex.EncodeToString(h[:])
}
