package keygen

import (
	"strings"
	"testing"
)

// TestGenerateWithoutParams verifies the plain "{namespace}:{identifier}" form.
//
// TestGenerateWithoutParams 验证普通的 "{namespace}:{identifier}" 形式。
func TestGenerateWithoutParams(t *testing.T) {
	got := Generate("session", "user-42", nil)
	if got != "session:user-42" {
		t.Errorf("Expected 'session:user-42', got '%s'", got)
	}

	got = Generate("session", "user-42", map[string]any{})
	if got != "session:user-42" {
		t.Errorf("Expected 'session:user-42' for empty params, got '%s'", got)
	}
}

// TestGenerateOrderIndependence verifies that differently ordered parameter
// maps produce identical keys.
//
// TestGenerateOrderIndependence 验证不同顺序的参数映射产生相同的键。
func TestGenerateOrderIndependence(t *testing.T) {
	a := map[string]any{"a": 1, "b": 2, "c": "x"}
	b := map[string]any{"c": "x", "b": 2, "a": 1}

	keyA := Generate("results", "test-1", a)
	keyB := Generate("results", "test-1", b)
	if keyA != keyB {
		t.Errorf("Expected identical keys, got '%s' and '%s'", keyA, keyB)
	}
	if !strings.HasPrefix(keyA, "results:test-1:") {
		t.Errorf("Expected key with hash suffix, got '%s'", keyA)
	}
}

// TestGenerateIsPure verifies that repeated calls yield the same key.
//
// TestGenerateIsPure 验证重复调用产生相同的键。
func TestGenerateIsPure(t *testing.T) {
	params := map[string]any{"url": "https://example.com", "depth": 3}
	first := Generate("perf", "scan", params)
	for i := 0; i < 10; i++ {
		if got := Generate("perf", "scan", params); got != first {
			t.Fatalf("Key changed between calls: '%s' vs '%s'", first, got)
		}
	}
}

// TestGenerateDistinguishesParams verifies that different parameter sets
// produce different keys.
//
// TestGenerateDistinguishesParams 验证不同的参数集产生不同的键。
func TestGenerateDistinguishesParams(t *testing.T) {
	keyA := Generate("api", "resp", map[string]any{"page": 1})
	keyB := Generate("api", "resp", map[string]any{"page": 2})
	if keyA == keyB {
		t.Errorf("Expected distinct keys for distinct params, both were '%s'", keyA)
	}
}

// TestHashStringEmpty verifies the defined value for the empty input.
//
// TestHashStringEmpty 验证空输入的定义值。
func TestHashStringEmpty(t *testing.T) {
	if got := HashString(""); got != "0" {
		t.Errorf("Expected '0' for empty input, got '%s'", got)
	}
}

// TestHashStringDeterministic verifies hash stability for fixed inputs.
//
// TestHashStringDeterministic 验证固定输入的哈希稳定性。
func TestHashStringDeterministic(t *testing.T) {
	cases := []string{"a", "abc", "page=1&size=20", "命名空间"}
	for _, s := range cases {
		first := HashString(s)
		if second := HashString(s); second != first {
			t.Errorf("Hash of '%s' unstable: '%s' vs '%s'", s, first, second)
		}
		if first == "" {
			t.Errorf("Hash of '%s' is empty", s)
		}
	}
}
