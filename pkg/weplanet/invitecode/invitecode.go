// Package invitecode generates family invite codes.
package invitecode

import (
	"crypto/rand"
	"math/big"

	"github.com/weplanet/weplanet/pkg/weplanet/models"
)

// Alphabet holds the characters an invite code is drawn from
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var alphabetSize = big.NewInt(int64(len(Alphabet)))

// Generator produces candidate invite codes. Uniqueness is the caller's concern.
type Generator func() (string, error)

// Generate returns a random code of models.InviteCodeLength characters
func Generate() (string, error) {
	code := make([]byte, models.InviteCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", err
		}
		code[i] = Alphabet[n.Int64()]
	}
	return string(code), nil
}

// Valid reports whether code has the shape of an invite code
func Valid(code string) bool {
	if len(code) != models.InviteCodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		c := code[i]
		if !(c >= 'A' && c <= 'Z') && !(c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}
