package util

import "testing"

func TestNormalizeResourceKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{name: "plain", key: "recurso", want: "recurso"},
		{name: "surrounding whitespace trimmed", key: "  mapa de europa ", want: "mapa%20de%20europa"},
		{name: "slashes escaped", key: "games/geo/europe", want: "games%2Fgeo%2Feurope"},
		{name: "empty", key: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeResourceKey(tt.key); got != tt.want {
				t.Errorf("NormalizeResourceKey(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}
