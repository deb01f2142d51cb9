package genai

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
)

// CanonicalJSON serializes v with recursively sorted object keys so that
// logically identical inputs always produce identical bytes. Round-tripping
// through generic maps does the sorting: encoding/json emits map keys in
// sorted order at every nesting level. Array order is preserved.
func CanonicalJSON(v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal input: %w", err)
	}

	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("normalize input: %w", err)
	}

	canonical, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("canonicalize input: %w", err)
	}
	return canonical, nil
}

// ContentKey computes the content-addressed cache key for the semantically
// relevant subset of a request: SHA-256 over its canonical JSON form.
func ContentKey(v interface{}) (string, error) {
	canonical, err := CanonicalJSON(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return fmt.Sprintf("%x", sum), nil
}
