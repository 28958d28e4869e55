// Package idgen produces the opaque identifiers used for records, rows and
// share codes. Identifiers are collision-resistant by construction: 26
// characters drawn uniformly from a 36-symbol alphabet (~134 bits of
// entropy), so no uniqueness check against existing data is performed.
package idgen

import (
	"crypto/rand"
	"math/big"
)

const (
	alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	idLength = 26
)

// New returns a fresh identifier. It panics only if the system entropy
// source is unreadable, which is not a recoverable condition.
func New() string {
	max := big.NewInt(int64(len(alphabet)))
	b := make([]byte, idLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic("idgen: entropy source unavailable: " + err.Error())
		}
		b[i] = alphabet[n.Int64()]
	}
	return string(b)
}
