package util

import (
	"crypto/rand"
	"encoding/hex"
)

// NewID mints a collision-resistant identifier, optionally namespaced with a
// prefix ("blk" for page blocks, "ast" for uploaded assets, and so on).
func NewID(prefix string) string {
	bytes := make([]byte, 16)
	_, _ = rand.Read(bytes)
	if prefix == "" {
		return hex.EncodeToString(bytes)
	}
	return prefix + "_" + hex.EncodeToString(bytes)
}
