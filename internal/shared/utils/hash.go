package utils

import (
	"crypto/sha256"
	"encoding/binary"
)

// Hasher derives stable values from identifiers
type Hasher struct{}

// DefaultHasher returns the shared hasher
func DefaultHasher() *Hasher {
	return &Hasher{}
}

// Seed maps s onto [0, span) deterministically. Windows use it to
// desynchronise their idle motion without storing a random phase.
func (h *Hasher) Seed(s string, span float64) float64 {
	sum := sha256.Sum256([]byte(s))
	n := binary.BigEndian.Uint64(sum[:8])
	return float64(n>>11) / (1 << 53) * span
}
