package object

import (
	"crypto/sha1"
	"encoding/hex"
)

// HashSize is the length of a hex-encoded object id.
const HashSize = 40

// HashObject computes the SHA-1 of the envelope "type\0content". The result
// is the object id under which Store persists the same envelope.
func HashObject(objType ObjectType, data []byte) Hash {
	h := sha1.New()
	h.Write([]byte(objType))
	h.Write([]byte{0})
	h.Write(data)
	return Hash(hex.EncodeToString(h.Sum(nil)))
}

// IsHash reports whether s is a well-formed object id: exactly 40 lowercase
// hexadecimal characters.
func IsHash(s string) bool {
	if len(s) != HashSize {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
