package domain

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
)

// NewProposalID generates a globally unique proposal identifier. It
// prefers a cryptographic v4 UUID and falls back to a pseudo-random
// v4-shaped id when the platform's entropy source is unavailable, so id
// generation never fails.
func NewProposalID() string {
	id, err := uuid.NewRandom()
	if err != nil {
		return pseudoRandomV4()
	}
	return id.String()
}

// pseudoRandomV4 produces a v4-formatted identifier from math/rand.
// Not cryptographically strong; only used as a last-resort fallback.
func pseudoRandomV4() string {
	var b [16]byte
	for i := range b {
		b[i] = byte(rand.IntN(256))
	}
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16])
}
