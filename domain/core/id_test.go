package core

import (
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

func TestParseTargetID(t *testing.T) {
	tests := []struct {
		input    string
		expected TargetID
		hasError bool
	}{
		{"OBJ_pobre_a_rico", TargetID("OBJ_pobre_a_rico"), false},
		{"  OBJ_bajaron ", TargetID("OBJ_bajaron"), false},
		{"", "", true},
		{"   ", "", true},
	}

	for _, tt := range tests {
		result, err := ParseTargetID(tt.input)
		if tt.hasError {
			if err == nil {
				t.Errorf("ParseTargetID(%q) expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTargetID(%q) unexpected error: %v", tt.input, err)
		}
		if result != tt.expected {
			t.Errorf("ParseTargetID(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestContentHashSeparatesParts(t *testing.T) {
	if ContentHash("ab", "c") == ContentHash("a", "bc") {
		t.Error("expected different hashes for different part boundaries")
	}
	if ContentHash("x", "y") != ContentHash("x", "y") {
		t.Error("expected stable hash for equal input")
	}
}

func TestVersionHashIgnoresMapOrder(t *testing.T) {
	a := VersionHash(map[string]string{"records": "1", "importance": "2"})
	b := VersionHash(map[string]string{"importance": "2", "records": "1"})
	if a != b {
		t.Errorf("expected equal hashes, got %s and %s", a, b)
	}
}

func TestUnknownTargetIsNotFound(t *testing.T) {
	err := NewUnknownTargetError("OBJ_x")
	if !IsUnknownTarget(err) || !IsNotFoundError(err) {
		t.Errorf("expected unknown target to match both sentinels: %v", err)
	}
}
