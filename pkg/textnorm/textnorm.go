// Package textnorm prepares raw text for synthesis.
package textnorm

import (
	"fmt"
	"strings"
	"unicode"

	"voxa/pkg/model"
)

// Options selects which normalization steps run. The zero value only trims.
type Options struct {
	Lowercase          bool
	StripPunctuation   bool
	CollapseWhitespace bool
}

// ErrEmptyText rejects input with no speakable content.
var ErrEmptyText = fmt.Errorf("text is empty")

// Normalize trims the text and applies the selected steps in a fixed order:
// lowercase, strip punctuation, collapse whitespace. Whitespace-only input
// is rejected. Metadata records the original and final lengths plus the
// steps that ran.
func Normalize(text string, opts Options) (model.TextData, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return model.TextData{}, ErrEmptyText
	}

	out := trimmed
	applied := []string{"trim"}

	if opts.Lowercase {
		out = strings.ToLower(out)
		applied = append(applied, "lowercase")
	}
	if opts.StripPunctuation {
		out = stripPunctuation(out)
		applied = append(applied, "strip_punctuation")
	}
	if opts.CollapseWhitespace {
		out = strings.Join(strings.Fields(out), " ")
		applied = append(applied, "collapse_whitespace")
	}

	if strings.TrimSpace(out) == "" {
		return model.TextData{}, ErrEmptyText
	}

	return model.TextData{
		Text:       out,
		Confidence: 1.0,
		Metadata: map[string]any{
			"original_length": len(text),
			"final_length":    len(out),
			"applied":         applied,
		},
	}, nil
}

// stripPunctuation drops punctuation and symbols, keeping letters, digits
// and whitespace. Apostrophes stay so contractions survive.
func stripPunctuation(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\'' || unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
