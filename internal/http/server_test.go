package http

import "testing"

func TestNormalizeAddress(t *testing.T) {
	cases := map[string]string{
		"8080":           ":8080",
		":8080":          ":8080",
		"127.0.0.1:9090": "127.0.0.1:9090",
		" 8080 ":         ":8080",
	}
	for in, want := range cases {
		got, err := normalizeAddress(in)
		if err != nil {
			t.Fatalf("normalizeAddress(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("normalizeAddress(%q): got %q, want %q", in, got, want)
		}
	}

	if _, err := normalizeAddress("  "); err == nil {
		t.Fatal("expected an error for an empty address")
	}
}
