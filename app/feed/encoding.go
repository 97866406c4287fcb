package feed

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Mojibake repair. Feeds occasionally serve UTF-8 bytes that were decoded
// once through Latin-1/Windows-1252 somewhere upstream, turning Cyrillic
// text into runs like "Ð¿Ñ€Ð¸Ð²ÐµÑ‚". The repair re-encodes the text back
// to single bytes and re-decodes as UTF-8, keeping the result only when it
// demonstrably helps.

// highByteRatio above which a string with mojibake signature runes is
// considered a repair candidate.
const mojibakeHighByteRatio = 0.3

// cp1252Bytes maps runes back to the Windows-1252 byte they decoded from.
// Covers both Latin-1 (runes < 0x100) and the 0x80-0x9F punctuation block
// that Windows-1252 maps to curly quotes, daggers and similar.
var cp1252Bytes = func() map[rune]byte {
	m := make(map[rune]byte, 256)
	for i := 0; i < 256; i++ {
		r := charmap.Windows1252.DecodeByte(byte(i))
		if r == utf8.RuneError {
			// Undefined in Windows-1252; the byte is unrecoverable.
			continue
		}
		m[r] = byte(i)
	}
	return m
}()

// RepairEncoding attempts a best-effort mojibake repair and returns the
// repaired text, or the input unchanged when no repair applies. Pure
// function; safe to call on already-correct text.
func RepairEncoding(text string) string {
	if text == "" || !looksMojibake(text) {
		return text
	}

	raw := make([]byte, 0, len(text))
	for _, r := range text {
		b, ok := cp1252Bytes[r]
		if !ok {
			if r < 0x100 {
				b = byte(r)
			} else {
				// Rune has no single-byte origin, repair would be lossy.
				return text
			}
		}
		raw = append(raw, b)
	}

	if !utf8.Valid(raw) {
		return text
	}
	repaired := string(raw)

	// Keep the repaired version only if it gains Cyrillic characters or
	// sheds replacement characters, otherwise trust the original.
	if cyrillicCount(repaired) > cyrillicCount(text) {
		return repaired
	}
	if strings.Count(text, string(utf8.RuneError)) > strings.Count(repaired, string(utf8.RuneError)) {
		return repaired
	}
	return text
}

// looksMojibake reports whether text shows the signature of UTF-8 bytes
// mis-decoded as a single-byte charset: marker runes "Ð"/"Ñ" (the lead
// bytes of Cyrillic UTF-8 sequences) plus a high share of high-byte runes
// with almost no genuine Cyrillic.
func looksMojibake(text string) bool {
	if !strings.ContainsRune(text, 'Ð') && !strings.ContainsRune(text, 'Ñ') {
		return false
	}

	total := 0
	high := 0
	for _, r := range text {
		total++
		if r >= 0x80 && r <= 0x2122 && !unicode.Is(unicode.Cyrillic, r) {
			high++
		}
	}
	if total == 0 {
		return false
	}
	return float64(high)/float64(total) > mojibakeHighByteRatio && cyrillicCount(text) < total/10
}

func cyrillicCount(text string) int {
	n := 0
	for _, r := range text {
		if r >= 0x0400 && r <= 0x04FF {
			n++
		}
	}
	return n
}
