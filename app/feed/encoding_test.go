package feed

import (
	"strings"
	"testing"

	"golang.org/x/text/encoding/charmap"
)

// mangle simulates the upstream bug: UTF-8 bytes decoded once through
// Windows-1252.
func mangle(text string) string {
	var b strings.Builder
	for _, raw := range []byte(text) {
		b.WriteRune(charmap.Windows1252.DecodeByte(raw))
	}
	return b.String()
}

func TestRepairEncoding(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "mangled russian word",
			input: mangle("привет"),
			want:  "привет",
		},
		{
			name:  "mangled russian phrase",
			input: mangle("Город ожил утром"),
			want:  "Город ожил утром",
		},
		{
			name:  "mangled mixed text",
			input: mangle("Биржи торгуют Apple"),
			want:  "Биржи торгуют Apple",
		},
		{
			name:  "clean russian untouched",
			input: "Обычный заголовок новости",
			want:  "Обычный заголовок новости",
		},
		{
			name:  "clean english untouched",
			input: "Plain English headline",
			want:  "Plain English headline",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "legitimate spanish untouched",
			input: "Año nuevo en España",
			want:  "Año nuevo en España",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RepairEncoding(tt.input); got != tt.want {
				t.Errorf("RepairEncoding(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLooksMojibake(t *testing.T) {
	if looksMojibake("нормальный русский текст") {
		t.Error("clean Cyrillic flagged as mojibake")
	}
	if looksMojibake("plain ascii text") {
		t.Error("plain ASCII flagged as mojibake")
	}
	if !looksMojibake(mangle("привет мир")) {
		t.Error("mangled Cyrillic not flagged as mojibake")
	}
}
