package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// AnswerSet holds the accepted answers of a question in normalized form.
// Order carries no meaning; NewAnswerSet keeps it sorted for stable storage.
type AnswerSet []string

// NormalizeAnswer trims surrounding whitespace and case-folds.
func NormalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NewAnswerSet normalizes and deduplicates raw answers, dropping blanks.
func NewAnswerSet(raw ...string) AnswerSet {
	seen := make(map[string]struct{}, len(raw))
	set := make(AnswerSet, 0, len(raw))
	for _, r := range raw {
		n := NormalizeAnswer(r)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		set = append(set, n)
	}
	sort.Strings(set)
	return set
}

// Matches reports whether text equals any accepted answer after normalization.
func (a AnswerSet) Matches(text string) bool {
	given := NormalizeAnswer(text)
	for _, accepted := range a {
		if NormalizeAnswer(accepted) == given {
			return true
		}
	}
	return false
}

// Encode renders the set for storage as a JSON array.
func (a AnswerSet) Encode() (string, error) {
	if a == nil {
		a = AnswerSet{}
	}
	data, err := json.Marshal([]string(a))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ParseAnswerSet decodes a stored answer set. JSON arrays are the current format;
// legacy rows hold set literals such as {'Rolls Royce'} and are tokenized, never evaluated.
func ParseAnswerSet(stored string) (AnswerSet, error) {
	raw := strings.TrimSpace(stored)
	if strings.HasPrefix(raw, "[") {
		var values []string
		if err := json.Unmarshal([]byte(raw), &values); err != nil {
			return nil, fmt.Errorf("decode answers: %w", err)
		}
		return NewAnswerSet(values...), nil
	}
	values, err := parseSetLiteral(raw)
	if err != nil {
		return nil, err
	}
	return NewAnswerSet(values...), nil
}

func parseSetLiteral(raw string) ([]string, error) {
	if raw == "set()" {
		return nil, nil
	}
	if !strings.HasPrefix(raw, "{") || !strings.HasSuffix(raw, "}") {
		return nil, fmt.Errorf("decode answers: unsupported format %q", raw)
	}
	body := raw[1 : len(raw)-1]

	var (
		values  []string
		current strings.Builder
		quote   rune
		escaped bool
	)
	for _, r := range body {
		switch {
		case quote != 0 && escaped:
			current.WriteRune(r)
			escaped = false
		case quote != 0 && r == '\\':
			escaped = true
		case quote != 0 && r == quote:
			values = append(values, current.String())
			current.Reset()
			quote = 0
		case quote != 0:
			current.WriteRune(r)
		case r == '\'' || r == '"':
			quote = r
		case r == ',' || r == ' ' || r == '\t':
		default:
			return nil, fmt.Errorf("decode answers: unexpected %q in %q", r, raw)
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("decode answers: unterminated string in %q", raw)
	}
	return values, nil
}
