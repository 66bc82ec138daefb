package utils

import (
	"strings"

	"golang.org/x/net/html"
)

// StripHTML wandelt eine Canvas HTML-Beschreibung in reinen Text um.
// "&nbsp;" wird zu Leerzeichen, Markup entfernt, Ränder getrimmt.
func StripHTML(markup string) string {
	if markup == "" {
		return ""
	}

	markup = strings.ReplaceAll(markup, "&nbsp;", " ")

	var text strings.Builder
	tokenizer := html.NewTokenizer(strings.NewReader(markup))
	skip := 0

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			// io.EOF oder kaputtes Markup: was bisher gelesen wurde, zählt
			return normalizeSpaces(text.String())
		case html.StartTagToken:
			if isRawTextTag(tokenizer) {
				skip++
			}
		case html.EndTagToken:
			if isRawTextTag(tokenizer) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				text.Write(tokenizer.Text())
			}
		}
	}
}

func isRawTextTag(tokenizer *html.Tokenizer) bool {
	name, _ := tokenizer.TagName()
	switch string(name) {
	case "script", "style":
		return true
	}
	return false
}

func normalizeSpaces(text string) string {
	return strings.TrimSpace(strings.ReplaceAll(text, "\u00a0", " "))
}
