package source

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest is a fixed 256-bit content hash.
type Digest [32]byte

// HashString hashes text content.
func HashString(content string) Digest {
	return sha256.Sum256([]byte(content))
}

// Hex returns the lowercase hex form of the digest.
func (d Digest) Hex() string {
	return hex.EncodeToString(d[:])
}

// Short returns the first 8 hex characters, enough for log lines.
func (d Digest) Short() string {
	return d.Hex()[:8]
}
