// Package reference generates human-facing booking references of the form
// BK + YYYYMMDD + 6 uppercase alphanumeric characters.
package reference

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const prefix = "BK"

// TokenSource yields the random tail of a reference. Injectable so tests can
// supply deterministic tokens.
type TokenSource func() string

// UUIDTokenSource derives the token from a fresh UUID.
func UUIDTokenSource() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(hex[:6])
}

type Generator struct {
	tokens TokenSource
}

func NewGenerator(tokens TokenSource) *Generator {
	if tokens == nil {
		tokens = UUIDTokenSource
	}
	return &Generator{tokens: tokens}
}

// New builds a reference for a booking created at the given instant (UTC).
// Uniqueness rests on the token; collisions are treated as negligible and are
// not re-checked here.
func (g *Generator) New(createdAt time.Time) string {
	return prefix + createdAt.UTC().Format("20060102") + g.tokens()
}
