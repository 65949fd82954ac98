// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package service

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxSlugLen = 60

var foldSpecial = strings.NewReplacer(
	"ß", "ss",
	"æ", "ae",
	"ø", "o",
	"œ", "oe",
	"&", " and ",
	"'", "",
	"’", "",
)

// slugify converts a service title into a URL-safe slug.
// Example: "Carols by Candlelight – St Mary’s" → "carols-by-candlelight-st-marys"
func slugify(name string) string {
	s := foldSpecial.Replace(strings.ToLower(name))

	// Decompose and drop combining marks: "é" → "e".
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}

	var b strings.Builder
	lastWasDash := true
	for _, r := range s {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			lastWasDash = false
		} else if !lastWasDash {
			b.WriteRune('-')
			lastWasDash = true
		}
	}

	slug := strings.Trim(b.String(), "-")
	if len(slug) > maxSlugLen {
		slug = strings.TrimRight(slug[:maxSlugLen], "-")
	}
	if slug == "" {
		return "service"
	}
	return slug
}
