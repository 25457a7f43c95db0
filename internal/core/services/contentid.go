package services

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

// ContentID derives the document identifier from its bytes: the first
// 16 bytes of the SHA-256 digest, read as a UUID and rendered as 32 hex
// characters without separators.
func ContentID(content []byte) string {
	sum := sha256.Sum256(content)
	id, err := uuid.FromBytes(sum[:16])
	if err != nil {
		// FromBytes only fails on a length other than 16.
		panic(err)
	}
	return hex.EncodeToString(id[:])
}
