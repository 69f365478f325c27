package shortcode

import (
	"crypto/rand"
	"math/big"
)

// Codes use uppercase letters and digits only, so they survive being read
// aloud or hand-typed from print.
const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length is the default generated code length (36^6 ≈ 2.2 billion codes).
const Length = 6

var maxIdx = big.NewInt(int64(len(charset)))

// Generate returns a random 6-character code from the A–Z, 0–9 alphabet.
func Generate() (string, error) {
	b := make([]byte, Length)
	for i := range b {
		n, err := rand.Int(rand.Reader, maxIdx)
		if err != nil {
			return "", err
		}
		b[i] = charset[n.Int64()]
	}
	return string(b), nil
}
