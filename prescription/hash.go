package prescription

import (
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"
)

// Canonicalize serializes the attributes using the JSON canonicalization scheme (RFC 8785),
// so equal values always produce identical bytes regardless of key order
func Canonicalize(attrs Attributes) ([]byte, error) {
	data, err := json.Marshal(attrs)
	if err != nil {
		return nil, fmt.Errorf("unable to marshal attributes: %w", err)
	}
	canonical, err := jcs.Transform(data)
	if err != nil {
		return nil, fmt.Errorf("unable to canonicalize attributes: %w", err)
	}
	return canonical, nil
}

// Digest returns the lowercase hex encoded SHA-512 digest of the data
func Digest(data []byte) string {
	sum := sha512.Sum512(data)
	return hex.EncodeToString(sum[:])
}

// RevisionHash fingerprints a submission payload. The submitting user is excluded
// so the same content produces the same hash regardless of who sends it.
func RevisionHash(attrs Attributes) (string, error) {
	canonical, err := Canonicalize(attrs.Omit(FieldCreatedUserId))
	if err != nil {
		return "", err
	}
	return Digest(canonical), nil
}
