package utils

import (
	"crypto/sha256"
	"fmt"
)

// Hash a fetched feed body so unchanged feeds can be skipped without
// touching the database.
func GetContentHash(data []byte) string {
	h := sha256.New()
	h.Write(data)
	return fmt.Sprintf("%x", h.Sum(nil))
}
