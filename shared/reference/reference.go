package reference

import (
	"math/rand/v2"
	"strings"
	"tarmac/shared/timezone"
)

const (
	prefix     = "BK"
	charset    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	randomPart = 6
)

// New generates a short human-readable booking reference, e.g. BK260829X4J9QD.
// Uniqueness is enforced by the store; callers regenerate on collision.
func New() string {
	var builder strings.Builder

	builder.WriteString(prefix)
	builder.WriteString(timezone.Now().Format("060102"))

	for range randomPart {
		builder.WriteByte(charset[rand.IntN(len(charset))])
	}

	return builder.String()
}
