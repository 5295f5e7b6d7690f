package util

import (
	"crypto/rand"
	"fmt"
)

// PsuUUID generates a pseudo-UUID suitable for session identifiers
func PsuUUID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return fmt.Sprintf("%X-%X-%X-%X-%X", b[0:4], b[4:6], b[6:8], b[8:10], b[10:]), nil
}
