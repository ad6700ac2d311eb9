package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// ephemeralKeys are dropped at any depth before hashing
var ephemeralKeys = map[string]struct{}{ //nolint:gochecknoglobals
	"created_at":   {},
	"updated_at":   {},
	"generated_at": {},
	"run_id":       {},
	"timestamp":    {},
	"hash":         {},
}

// SHA256Hex returns the hex sha256 of data
func SHA256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// SHA256String returns the hex sha256 of s
func SHA256String(s string) string {
	return SHA256Hex([]byte(s))
}

// Prefixed adds the "sha256:" scheme to a hex digest unless already present
func Prefixed(hexDigest string) string {
	if hexDigest == "" || strings.HasPrefix(hexDigest, "sha256:") {
		return hexDigest
	}
	return "sha256:" + hexDigest
}

// CanonicalJSON strips ephemeral fields from a JSON document and re-encodes it
// with sorted keys and no insignificant whitespace.
func CanonicalJSON(raw []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, &Error{Message: "failed to decode document for hashing", Cause: err}
	}

	return encodeCanonical(stripEphemeral(value))
}

// CanonicalValue canonicalizes an in-memory value by round-tripping it through JSON
func CanonicalValue(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, &Error{Message: "failed to encode value for hashing", Cause: err}
	}
	return CanonicalJSON(raw)
}

// ResumeHash is the content hash of a master resume document
func ResumeHash(raw []byte) (string, error) {
	canonical, err := CanonicalJSON(raw)
	if err != nil {
		return "", err
	}
	return SHA256Hex(canonical), nil
}

func stripEphemeral(value any) any {
	switch v := value.(type) {
	case map[string]any:
		cleaned := make(map[string]any, len(v))
		for key, inner := range v {
			if _, skip := ephemeralKeys[key]; skip {
				continue
			}
			cleaned[key] = stripEphemeral(inner)
		}
		return cleaned
	case []any:
		out := make([]any, len(v))
		for i, inner := range v {
			out[i] = stripEphemeral(inner)
		}
		return out
	default:
		return v
	}
}

// encodeCanonical relies on encoding/json sorting map keys
func encodeCanonical(value any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return nil, fmt.Errorf("failed to encode canonical JSON: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
