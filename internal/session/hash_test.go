package session

import "testing"

func TestHashToken(t *testing.T) {
	// Known SHA-1 vectors, hex encoded.
	tests := []struct {
		token string
		want  string
	}{
		{token: "", want: "da39a3ee5e6b4b0d3255bfef95601890afd80709"},
		{token: "abc", want: "a9993e364706816aba3e25717850c26c9cd0d89d"},
	}

	for _, tt := range tests {
		if got := HashToken(tt.token); got != tt.want {
			t.Errorf("HashToken(%q) = %q, want %q", tt.token, got, tt.want)
		}
	}
}

func TestHashToken_NeverIdentity(t *testing.T) {
	for _, token := range []string{"", "abc", "da39a3ee5e6b4b0d3255bfef95601890afd80709"} {
		if HashToken(token) == token {
			t.Errorf("HashToken(%q) returned its input", token)
		}
	}
}
