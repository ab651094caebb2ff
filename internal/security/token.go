package security

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
)

const (
	SessionTokenBytes = 32
	userIDBytes       = 16
)

var randReader io.Reader = rand.Reader

// NewSessionToken returns 256 bits of crypto/rand entropy hex encoded.
func NewSessionToken() (string, error) {
	return randomHex(SessionTokenBytes)
}

func NewUserID() (string, error) {
	return randomHex(userIDBytes)
}

// NewURLToken is used for one-time links such as subscriber confirmations.
func NewURLToken() (string, error) {
	return randomHex(SessionTokenBytes)
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(randReader, buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
