// Package caseid generates human-readable case identifiers of the form
// PREFIX-YYYY-NNNNN, e.g. POA-TN-2025-48213.
package caseid

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"time"
)

// DefaultPrefix is used when no prefix is configured.
const DefaultPrefix = "POA-TN"

const (
	minSerial = 10000
	maxSerial = 99999
)

var prefixRE = regexp.MustCompile(`^[A-Z0-9]+(-[A-Z0-9]+)*$`)

// ValidPrefix reports whether p is upper-case alphanumeric segments joined by hyphens.
func ValidPrefix(p string) bool {
	return prefixRE.MatchString(p)
}

// Generator produces candidate case ids. Uniqueness is enforced by the
// store's unique index; callers retry on collision.
type Generator struct {
	prefix string
	now    func() time.Time
	intn   func(n int) int
}

// New returns a Generator for prefix (DefaultPrefix when empty).
func New(prefix string) (*Generator, error) {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if !ValidPrefix(prefix) {
		return nil, fmt.Errorf("invalid case id prefix %q", prefix)
	}
	return &Generator{prefix: prefix, now: time.Now, intn: rand.IntN}, nil
}

// Prefix returns the configured prefix.
func (g *Generator) Prefix() string { return g.prefix }

// Next returns a new candidate id using the current year and a uniform
// serial in [10000, 99999].
func (g *Generator) Next() string {
	serial := minSerial + g.intn(maxSerial-minSerial+1)
	return fmt.Sprintf("%s-%d-%d", g.prefix, g.now().Year(), serial)
}
