package utils

import "testing"

func TestDetermineLocale(t *testing.T) {
	supported := []string{"ko", "en"}
	cases := []struct {
		name, query, accept, def, want string
	}{
		{"query wins", "en-US", "ko-KR,ko;q=0.9", "ko", "en"},
		{"accept language order", "", "ko-KR,ko;q=0.9,en;q=0.8", "ko", "ko"},
		{"higher q preferred", "", "ko;q=0.5,en;q=0.9", "ko", "en"},
		{"unsupported falls back", "", "fr-FR,es;q=0.9", "ko", "ko"},
		{"garbage query ignored", "!!", "", "en", "en"},
		{"default not supported", "", "", "fr", "ko"},
	}
	for _, c := range cases {
		if got := DetermineLocale(c.query, c.accept, supported, c.def); got != c.want {
			t.Fatalf("%s: DetermineLocale(%q,%q) = %q, want %q", c.name, c.query, c.accept, got, c.want)
		}
	}
}
