// Package testutil provides deterministic helpers shared by tests: fixed
// run tokens and ready-made schemas.
package testutil

import "sync"

// FixedTokens returns predetermined run tokens in order.
//
// This enables deterministic test execution and golden log comparison: the
// same scenario with the same FixedTokens produces byte-identical output.
//
// Thread-safety: safe for concurrent use via internal mutex.
type FixedTokens struct {
	mu     sync.Mutex
	tokens []string
	idx    int
}

// NewFixedTokens creates a generator that returns tokens in order.
// With no tokens it always returns "test-run-default".
func NewFixedTokens(tokens ...string) *FixedTokens {
	return &FixedTokens{tokens: tokens}
}

// Generate returns the next predetermined token.
//
// Panics when all tokens have been consumed - fail fast on test
// misconfiguration (the test started more runs than it expected).
func (g *FixedTokens) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.tokens) == 0 {
		return "test-run-default"
	}
	if g.idx >= len(g.tokens) {
		panic("FixedTokens: all tokens exhausted")
	}
	token := g.tokens[g.idx]
	g.idx++
	return token
}
