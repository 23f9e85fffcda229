package explain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/oukeidos/wordlens/internal/apperrors"
)

var errNoJSONBlock = errors.New("no JSON object found in model output")

// ExtractJSON returns the first balanced {...} block in text that parses as
// JSON. Braces inside JSON strings are ignored, and braces in prose that do
// not open an object (not followed by a key or '}') are skipped. An object
// that never closes ends the search.
func ExtractJSON(text string) (string, error) {
	for i := 0; i < len(text); i++ {
		if text[i] != '{' || !opensObject(text[i+1:]) {
			continue
		}
		end, ok := closingBrace(text, i)
		if !ok {
			break
		}
		if block := text[i : end+1]; json.Valid([]byte(block)) {
			return block, nil
		}
	}
	return "", errNoJSONBlock
}

func opensObject(rest string) bool {
	rest = strings.TrimLeft(rest, " \t\r\n")
	return rest != "" && (rest[0] == '"' || rest[0] == '}')
}

// closingBrace returns the index of the brace closing the one at start.
func closingBrace(text string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// decode extracts and unmarshals the JSON block of text into v. Any failure is
// a parse error so callers can fall back to another provider.
func decode(text string, v any) error {
	block, err := ExtractJSON(text)
	if err != nil {
		return apperrors.New(apperrors.KindParse, "Explanation response contained no JSON object.", err)
	}
	if err := json.Unmarshal([]byte(block), v); err != nil {
		return apperrors.New(apperrors.KindParse, "Explanation response contained malformed JSON.", fmt.Errorf("decode explanation: %w", err))
	}
	return nil
}
