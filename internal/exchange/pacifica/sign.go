package pacifica

import (
	"bytes"
	"crypto/ed25519"
	"fmt"
	"sort"

	json "github.com/goccy/go-json"
	"github.com/mr-tron/base58"
)

// prepareMessage builds the canonical signable message: the payload is merged
// under a "data" key into the header, every object's keys are sorted ascending
// (recursing through nested objects and arrays, leaving array order and scalar
// values untouched), and the result is serialized compact with no whitespace.
// The venue verifies signatures against these exact bytes, so the output must
// be byte-identical for logically identical input regardless of key order.
func prepareMessage(header, payload map[string]any) ([]byte, error) {
	merged := make(map[string]any, len(header)+1)
	for k, v := range header {
		merged[k] = v
	}
	merged["data"] = payload

	var buf bytes.Buffer
	if err := writeCanonical(&buf, merged); err != nil {
		return nil, fmt.Errorf("canonicalize message: %w", err)
	}
	return buf.Bytes(), nil
}

func writeCanonical(buf *bytes.Buffer, v any) error {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeScalar(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeCanonical(buf, t[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case []any:
		buf.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	default:
		return writeScalar(buf, v)
	}
}

// writeScalar encodes a single JSON value without HTML escaping; the signature
// covers the raw string bytes, not the escaped transport form.
func writeScalar(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encode terminates every value with a newline the canonical form must not carry.
	buf.Truncate(buf.Len() - 1)
	return nil
}

// parseAgentKey decodes a base58 agent signing key. Both the 64-byte
// Solana-style secret key (seed plus public half) and the bare 32-byte seed
// are accepted; anything else is rejected so a malformed key can never
// silently produce an invalid signature.
func parseAgentKey(encoded string) (ed25519.PrivateKey, error) {
	raw, err := base58.Decode(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode agent key: %w", err)
	}
	switch len(raw) {
	case ed25519.PrivateKeySize:
		key := ed25519.PrivateKey(raw)
		derived := ed25519.NewKeyFromSeed(raw[:ed25519.SeedSize])
		if !bytes.Equal(derived, key) {
			return nil, fmt.Errorf("agent key public half does not match its seed")
		}
		return key, nil
	case ed25519.SeedSize:
		return ed25519.NewKeyFromSeed(raw), nil
	default:
		return nil, fmt.Errorf("agent key must decode to %d or %d bytes, got %d",
			ed25519.SeedSize, ed25519.PrivateKeySize, len(raw))
	}
}

// signMessage produces a detached ed25519 signature over the canonical
// message and returns the raw signature bytes base58-encoded.
func signMessage(message []byte, key ed25519.PrivateKey) string {
	return base58.Encode(ed25519.Sign(key, message))
}
