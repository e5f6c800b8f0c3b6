package core

import (
	"encoding/hex"

	"github.com/go-crypt/x/blake2b"
)

// DocumentIDFromName generates a deterministic document ID from an arbitrary
// name (a URL, a file path) using BLAKE2b hashing. The same name always
// produces the same ID, so re-ingesting a source becomes an upsert. The hex
// form satisfies the document ID character rules by construction.
func DocumentIDFromName(name string) string {
	h, _ := blake2b.New(16, nil) // 16 bytes = 128 bits
	h.Write([]byte(name))
	return hex.EncodeToString(h.Sum(nil))
}
