// internal/utils/crypto.go
package utils

import (
	"crypto/rand"
	"math/big"
)

const upperAlnum = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateRandomString returns a random uppercase-alphanumeric string, used
// for order-number suffixes.
func GenerateRandomString(length int) (string, error) {
	b := make([]byte, length)

	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(upperAlnum))))
		if err != nil {
			return "", err
		}
		b[i] = upperAlnum[n.Int64()]
	}

	return string(b), nil
}
