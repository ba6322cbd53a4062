package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// hashKey builds a "prefix:digest" cache key from the JSON form of parts.
// The full 256-bit digest is kept: layout keys are only ever compared for
// equality, so the length costs nothing and truncating would invite
// collisions between near-identical scenes.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return prefix + ":" + hex.EncodeToString(sum[:])
}

// Hash returns the hex SHA-256 digest of data. Scene content hashes and
// placement context signatures are built on this.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
