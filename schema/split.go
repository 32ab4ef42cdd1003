package schema

import "strings"

// Split breaks a definition body into trimmed clause texts. Commas nested in
// brackets, parentheses or quotes do not split. An empty body fails with
// ErrEmptyDefinition; an empty clause before, between or after commas fails
// with ErrMalformedList.
func Split(body string) ([]string, error) {
	if strings.TrimSpace(body) == "" {
		return nil, clauseErr("", ErrEmptyDefinition, "")
	}
	var (
		clauses []string
		depth   int
		quote   rune
		start   int
	)
	emit := func(end int) error {
		clause := strings.TrimSpace(body[start:end])
		if clause == "" {
			return clauseErr("", ErrMalformedList, "empty clause at position %d", len(clauses)+1)
		}
		clauses = append(clauses, clause)
		return nil
	}
	for i, r := range body {
		if quote != 0 {
			if r == quote {
				quote = 0
			}
			continue
		}
		switch r {
		case '"', '\'', '`':
			quote = r
		case '[', '(':
			depth++
		case ']', ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth != 0 {
				continue
			}
			if err := emit(i); err != nil {
				return nil, err
			}
			start = i + 1
		}
	}
	if err := emit(len(body)); err != nil {
		return nil, err
	}
	return clauses, nil
}
