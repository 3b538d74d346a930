package query

import (
	"regexp"
	"strconv"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)

// render writes the schema-position tokens of a catalog entry into its
// template. Placeholders not listed by the entry are left for parameter
// binding.
func render(kind Kind, identity Identity) string {
	e := catalog[kind]
	if len(e.schema) == 0 {
		return e.template
	}

	values := make(map[string]string, len(e.schema))
	for _, token := range e.schema {
		values[token.placeholder] = literal(token.form, identity.value(token.placeholder))
	}

	return placeholderPattern.ReplaceAllStringFunc(e.template, func(match string) string {
		if value, ok := values[match[1:]]; ok {
			return value
		}
		return match
	})
}

func literal(form tokenForm, value any) string {
	switch form {
	case formIdentifier:
		return QuoteIdentifier(toString(value))
	case formString:
		return QuoteString(toString(value))
	case formInteger:
		if n, ok := value.(int); ok {
			return strconv.Itoa(n)
		}
		return "0"
	}
	return ""
}

func toString(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return ""
}

// QuoteIdentifier wraps a label, index or property name in backticks,
// doubling any backtick inside it.
func QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// QuoteString renders a Cypher string literal in single quotes.
func QuoteString(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + replacer.Replace(value) + "'"
}
