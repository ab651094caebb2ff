package security

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Iterations = 100_000
	passwordSaltLen  = 16
	passwordKeyLen   = 32
	MinPasswordLen   = 8
)

var ErrMalformedHash = errors.New("malformed password hash")

// HashPassword derives a PBKDF2-SHA256 key and encodes it as "salt:hash" hex.
func HashPassword(password string) (string, error) {
	salt := make([]byte, passwordSaltLen)
	if _, err := io.ReadFull(randReader, salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}
	key := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, passwordKeyLen, sha256.New)
	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(key), nil
}

func VerifyPassword(password, encoded string) (bool, error) {
	saltHex, keyHex, ok := strings.Cut(encoded, ":")
	if !ok {
		return false, ErrMalformedHash
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false, ErrMalformedHash
	}
	want, err := hex.DecodeString(keyHex)
	if err != nil || len(want) == 0 {
		return false, ErrMalformedHash
	}
	got := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, len(want), sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

// PasswordProblems lists every strength rule the password fails, in a fixed
// order. An empty result means the password is acceptable.
func PasswordProblems(password string) []string {
	var problems []string
	if len(password) < MinPasswordLen {
		problems = append(problems, "Password must be at least 8 characters long")
	}
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case !unicode.IsLetter(r) && !unicode.IsSpace(r):
			special = true
		}
	}
	if !upper {
		problems = append(problems, "Password must contain at least one uppercase letter")
	}
	if !lower {
		problems = append(problems, "Password must contain at least one lowercase letter")
	}
	if !digit {
		problems = append(problems, "Password must contain at least one digit")
	}
	if !special {
		problems = append(problems, "Password must contain at least one special character")
	}
	return problems
}
