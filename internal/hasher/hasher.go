// Package hasher derives short keys from long URLs.
package hasher

import (
	"hash/fnv"

	"github.com/itchyny/base58-go"
)

// Generate produces a short key from the long URL.
// The key is the 64-bit FNV-1a sum of the URL bytes encoded with
// the Bitcoin base58 alphabet (0OIl+/ are not used), so the same
// URL always yields the same key, across restarts and platforms.
// Any string is accepted as opaque text.
func Generate(longURL string) string {
	h := fnv.New64a()
	// hash.Hash never returns an error on Write.
	_, _ = h.Write([]byte(longURL))
	return string(base58.BitcoinEncoding.EncodeUint64(h.Sum64()))
}
