// Package docid generates document identifiers: 12 random bytes, hex
// encoded. Treated as opaque everywhere; collision probability is
// negligible at this size.
package docid

import (
	"crypto/rand"
	"encoding/hex"
)

func New() string {
	var b [12]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand never fails on supported platforms
		panic("docid: " + err.Error())
	}
	return hex.EncodeToString(b[:])
}
