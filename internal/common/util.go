package common

import (
	"crypto/rand"
	"encoding/hex"
)

// MakeRandHexString generates a random hexadecimal string of the given size.
// The size parameter specifies the number of random bytes generated before
// hex encoding, so the resulting string is twice that length. Used for
// refresh tokens.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// WipeByteArray zeroes the buffer in place. Callers use it to shorten the
// lifetime of password bytes in memory.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
