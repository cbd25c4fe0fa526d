package common

import (
	"crypto/rand"
	"math/big"
	"regexp"
)

var shareCodePattern = regexp.MustCompile("^[a-zA-Z0-9]+$")

// GenerateShareCode returns a random code of length n drawn from
// ShareCodeAlphabet using crypto/rand.
func GenerateShareCode(n int) (string, error) {
	if n <= 0 {
		n = ShareCodeLength
	}
	max := big.NewInt(int64(len(ShareCodeAlphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = ShareCodeAlphabet[idx.Int64()]
	}
	return string(b), nil
}

// IsValidShareCode reports whether a caller-supplied code is acceptable:
// 6-16 characters, letters and digits only.
func IsValidShareCode(code string) bool {
	if len(code) < ShareCodeMinLength || len(code) > ShareCodeMaxLength {
		return false
	}
	return shareCodePattern.MatchString(code)
}
