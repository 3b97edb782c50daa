package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// TargetIndex returns the deterministic catalog index for a date using
// HMAC(salt, YYYY-MM-DD) % catalogSize. Everyone playing the same date
// against the same salt and catalog gets the same target character.
func TargetIndex(date time.Time, salt string, catalogSize int) int {
	if catalogSize <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	n := binary.BigEndian.Uint64(sum[:8])
	return int(n % uint64(catalogSize))
}
