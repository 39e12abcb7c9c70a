package util

import "testing"

func TestValidateDocID(t *testing.T) {
	valid := []string{"getting-started", "rules2025", "api_reference", "a"}
	for _, id := range valid {
		if err := ValidateDocID(id); err != nil {
			t.Errorf("ValidateDocID(%q) = %v, want nil", id, err)
		}
	}

	invalid := []string{"", "../etc/passwd", "a b", "a/b", "-leading", "trailing-", "a--b"}
	for _, id := range invalid {
		if err := ValidateDocID(id); err == nil {
			t.Errorf("ValidateDocID(%q) = nil, want error", id)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello", 10); got != "hello" {
		t.Errorf("Truncate short = %q", got)
	}
	if got := Truncate("hello world", 5); got != "hello..." {
		t.Errorf("Truncate long = %q", got)
	}
	// multi-byte safety
	if got := Truncate("héllo wörld", 5); got != "héllo..." {
		t.Errorf("Truncate multibyte = %q", got)
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("Hybrid Search, with-Elastic!")
	want := []string{"hybrid", "search", "with", "elastic"}
	if len(got) != len(want) {
		t.Fatalf("Tokenize = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %q, want %q", i, got[i], want[i])
		}
	}
}
