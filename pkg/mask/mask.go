package mask

import (
	"crypto/sha256"
	"encoding/hex"
)

// Key returns a redacted form of an API key safe for logs: the first and
// last four characters with the middle elided. Short keys are fully elided.
func Key(k string) string {
	if len(k) <= 8 {
		return "…"
	}
	return k[:4] + "…" + k[len(k)-4:]
}

// ShortHash produces a short, irreversible identifier for log correlation
// without exposing the underlying value.
func ShortHash(v string) string {
	h := sha256.Sum256([]byte(v))
	return hex.EncodeToString(h[:])[:12]
}
