// utils/strings.go
package utils

import (
	"crypto/rand"
	"math/big"
)

const randomAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateRandomString produces an unambiguous uppercase reference code,
// used for booking references.
func GenerateRandomString(length int) string {
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(randomAlphabet))))
		if err != nil {
			panic("failed to read random source")
		}
		b[i] = randomAlphabet[n.Int64()]
	}
	return string(b)
}
