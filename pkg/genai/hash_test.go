package genai

import (
	"testing"
)

func TestContentKeyIsOrderIndependent(t *testing.T) {
	a := map[string]interface{}{
		"title": "iPhone 12",
		"price": 450,
		"specs": map[string]interface{}{
			"storage": "128GB",
			"color":   "black",
		},
	}
	b := map[string]interface{}{
		"specs": map[string]interface{}{
			"color":   "black",
			"storage": "128GB",
		},
		"price": 450,
		"title": "iPhone 12",
	}

	keyA, err := ContentKey(a)
	if err != nil {
		t.Fatalf("ContentKey(a) error: %v", err)
	}
	keyB, err := ContentKey(b)
	if err != nil {
		t.Fatalf("ContentKey(b) error: %v", err)
	}

	if keyA != keyB {
		t.Errorf("keys differ for logically identical input: %s vs %s", keyA, keyB)
	}
}

func TestContentKeyDistinguishesValues(t *testing.T) {
	keyA, _ := ContentKey(map[string]interface{}{"price": 100})
	keyB, _ := ContentKey(map[string]interface{}{"price": 101})

	if keyA == keyB {
		t.Error("different inputs must not collide on the same key")
	}
}

func TestContentKeyPreservesArrayOrder(t *testing.T) {
	keyA, _ := ContentKey([]interface{}{"a", "b"})
	keyB, _ := ContentKey([]interface{}{"b", "a"})

	if keyA == keyB {
		t.Error("array order is semantically relevant and must change the key")
	}
}

func TestCanonicalJSONSortsKeys(t *testing.T) {
	out, err := CanonicalJSON(map[string]interface{}{"b": 1, "a": 2})
	if err != nil {
		t.Fatalf("CanonicalJSON error: %v", err)
	}
	if string(out) != `{"a":2,"b":1}` {
		t.Errorf("got %s, want keys sorted", out)
	}
}
