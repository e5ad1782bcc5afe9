package parser

import (
	"io"
	"strings"
)

// TextParser handles plain text and markdown files. Markdown is
// passed through untouched; the analysis model reads it as-is.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(string(data), "\r\n", "\n"), nil
}
