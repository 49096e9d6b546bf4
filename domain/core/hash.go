package core

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// ContentHash hashes an ordered list of parts. Parts are separated so that
// ("ab", "c") and ("a", "bc") never collide.
func ContentHash(parts ...string) Hash {
	return NewHash([]byte(strings.Join(parts, "\x1f")))
}

// VersionHash hashes a set of key/value pairs independently of map order.
func VersionHash(entries map[string]string) Hash {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var data strings.Builder
	for _, key := range keys {
		data.WriteString(key)
		data.WriteByte('=')
		data.WriteString(entries[key])
		data.WriteByte('\n')
	}
	return NewHash([]byte(data.String()))
}
