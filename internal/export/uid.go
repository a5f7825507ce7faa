package export

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"time"
)

// DeriveUID hashes the canonical text of each part, in order, into a
// hex-encoded SHA-256 digest. Parts are concatenated without a separator.
func DeriveUID(parts ...any) string {
	h := sha256.New()
	for _, p := range parts {
		_, _ = io.WriteString(h, canonicalText(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}

func canonicalText(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case Instant:
		return v.String()
	case time.Time:
		return At(v).String()
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
