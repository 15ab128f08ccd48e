package response

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// jsonTokenType identifies the kind of JSON token for syntax coloring.
type jsonTokenType int

const (
	jsonTokenKey jsonTokenType = iota
	jsonTokenString
	jsonTokenNumber
	jsonTokenBool
	jsonTokenNull
	jsonTokenPunct
	jsonTokenWhitespace
)

// jsonToken holds a single lexed JSON token.
type jsonToken struct {
	typ   jsonTokenType
	value string
}

// tokenColorName maps token types to Fyne theme color names.
var tokenColorName = map[jsonTokenType]fyne.ThemeColorName{
	jsonTokenKey:        theme.ColorNamePrimary,
	jsonTokenString:     theme.ColorNameSuccess,
	jsonTokenNumber:     theme.ColorNameWarning,
	jsonTokenBool:       theme.ColorNameError,
	jsonTokenNull:       theme.ColorNameDisabled,
	jsonTokenPunct:      theme.ColorNameForeground,
	jsonTokenWhitespace: theme.ColorNameForeground,
}

// maxHighlightBytes is the largest body that gets colored. Bigger bodies are
// shown as a single plain segment.
const maxHighlightBytes = 256 << 10

// highlightJSON converts a pretty-printed JSON string into colored RichText
// segments. Adjacent tokens of the same color share one segment.
func highlightJSON(input string) []widget.RichTextSegment {
	if input == "" {
		return nil
	}
	if len(input) > maxHighlightBytes {
		return []widget.RichTextSegment{plainSegment(input)}
	}

	tokens := tokenizeJSON(input)
	segments := make([]widget.RichTextSegment, 0, len(tokens))

	var last *widget.TextSegment
	for _, tok := range tokens {
		colorName := tokenColorName[tok.typ]
		if last != nil && last.Style.ColorName == colorName {
			last.Text += tok.value
			continue
		}
		last = &widget.TextSegment{
			Style: codeStyle(colorName),
			Text:  tok.value,
		}
		segments = append(segments, last)
	}

	return segments
}

// plainSegment renders text in the monospace body style without coloring.
func plainSegment(text string) *widget.TextSegment {
	return &widget.TextSegment{Style: codeStyle(theme.ColorNameForeground), Text: text}
}

func codeStyle(colorName fyne.ThemeColorName) widget.RichTextStyle {
	return widget.RichTextStyle{
		ColorName: colorName,
		Inline:    true,
		SizeName:  theme.SizeNameText,
		TextStyle: fyne.TextStyle{Monospace: true},
	}
}

// tokenizeJSON breaks a JSON string into typed tokens. Input that is not
// valid JSON still tokenizes; unknown bytes become punctuation.
func tokenizeJSON(input string) []jsonToken {
	sc := jsonScanner{src: input}
	tokens := make([]jsonToken, 0, 128)
	for sc.pos < len(sc.src) {
		tokens = append(tokens, sc.next())
	}
	return tokens
}

type jsonScanner struct {
	src string
	pos int
}

func (s *jsonScanner) next() jsonToken {
	start := s.pos
	ch := s.src[s.pos]
	switch {
	case ch == '"':
		s.skipString()
		typ := jsonTokenString
		if s.colonFollows() {
			typ = jsonTokenKey
		}
		return jsonToken{typ: typ, value: s.src[start:s.pos]}
	case ch == '-' || isDigit(ch):
		s.pos++
		s.skipWhile(isNumberByte)
		return jsonToken{typ: jsonTokenNumber, value: s.src[start:s.pos]}
	case isSpace(ch):
		s.skipWhile(isSpace)
		return jsonToken{typ: jsonTokenWhitespace, value: s.src[start:s.pos]}
	}
	for _, lit := range literals {
		if strings.HasPrefix(s.src[s.pos:], lit.value) {
			s.pos += len(lit.value)
			return lit
		}
	}
	s.pos++
	return jsonToken{typ: jsonTokenPunct, value: s.src[start:s.pos]}
}

var literals = []jsonToken{
	{typ: jsonTokenBool, value: "true"},
	{typ: jsonTokenBool, value: "false"},
	{typ: jsonTokenNull, value: "null"},
}

// skipString moves past a quoted string. An unterminated string runs to
// the end of input.
func (s *jsonScanner) skipString() {
	s.pos++
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case '\\':
			s.pos += 2
		case '"':
			s.pos++
			return
		default:
			s.pos++
		}
	}
	s.pos = len(s.src)
}

// colonFollows reports whether the next non-space byte is a colon.
func (s *jsonScanner) colonFollows() bool {
	rest := strings.TrimLeft(s.src[s.pos:], " \t\r\n")
	return strings.HasPrefix(rest, ":")
}

func (s *jsonScanner) skipWhile(ok func(byte) bool) {
	for s.pos < len(s.src) && ok(s.src[s.pos]) {
		s.pos++
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isNumberByte(c byte) bool {
	return isDigit(c) || c == '.' || c == 'e' || c == 'E' || c == '+' || c == '-'
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }
