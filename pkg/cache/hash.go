package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
)

// hashKey returns "kind:" followed by the SHA-256 of the JSON encoding of
// parts. Struct fields encode in declaration order, so equal options give
// equal keys.
func hashKey(kind string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return kind + ":" + hex.EncodeToString(sum[:])
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashParts hashes several named inputs as one. Every name and body is
// length-prefixed, so no two different lists of parts share a hash, even
// when their concatenations are equal.
func HashParts(parts ...Part) string {
	h := sha256.New()
	var n [8]byte
	write := func(b []byte) {
		binary.BigEndian.PutUint64(n[:], uint64(len(b)))
		h.Write(n[:])
		h.Write(b)
	}
	for _, p := range parts {
		write([]byte(p.Name))
		write(p.Data)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Part is one named input of [HashParts].
type Part struct {
	Name string
	Data []byte
}
