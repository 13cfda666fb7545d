// Package formatters holds the prompt builders for each résumé section the
// AI service can rewrite. Each formatter returns only the keys it owns.
package formatters

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Chatter sends one prompt to the AI service and decodes the JSON object in
// its answer into out.
type Chatter interface {
	ChatJSON(ctx context.Context, input string, out interface{}) error
}

func mustMarshal(v interface{}) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func languageRule(language string) string {
	if language == "" {
		return ""
	}
	return fmt.Sprintf("LANGUAGE: write every string value in %s.\n\n", language)
}

func prompt(title string, payload map[string]interface{}, instructions string) string {
	userCtx := map[string]interface{}{"payload": payload, "instructions": instructions}
	return title + ":\n" + mustMarshal(userCtx)
}

// clip shortens s to at most max bytes without cutting a word or a
// multi-byte character.
func clip(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	end := max
	for end > 0 && !utf8.RuneStart(s[end]) {
		end--
	}
	cut := s[:end]
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,;:")
}
