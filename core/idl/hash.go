package idl

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/zeebo/blake3"
)

// jsonMarshal is a variable to allow testing of marshal errors.
var jsonMarshal = json.Marshal

// HashBytes computes the SHA-256 hash of bytes and returns it as a hex string.
func HashBytes(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// HashProgram computes the SHA-256 hash of a program's canonical JSON form.
// Map keys serialize in sorted order, so structurally equal programs hash
// equally regardless of how their maps were built.
func HashProgram(p *ProgramType) (string, error) {
	data, err := jsonMarshal(p)
	if err != nil {
		return "", err
	}
	return HashBytes(data), nil
}

// Fingerprint computes the BLAKE3 fingerprint of raw source lines, joined
// with newlines. The resolver uses it to decide whether two include
// references that claim one program name carry identical content.
func Fingerprint(lines []string) string {
	h := blake3.Sum256([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(h[:])
}
