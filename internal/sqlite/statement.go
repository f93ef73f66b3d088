package sqlite

import (
	"strconv"
	"strings"
)

// renderStatement substitutes bound arguments into query for logging. Question
// marks inside quoted segments are left alone.
func renderStatement(query string, args []any) string {
	if len(args) == 0 {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 16*len(args))
	var quoteChar rune
	next := 0
	for _, r := range query {
		switch {
		case quoteChar != 0:
			if r == quoteChar {
				quoteChar = 0
			}
		case r == '\'' || r == '"':
			quoteChar = r
		case r == '?' && next < len(args):
			b.WriteString(literal(args[next]))
			next++
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// literal renders one driver argument as it would appear in SQL text.
func literal(arg any) string {
	switch v := arg.(type) {
	case nil:
		return "null"
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return quote(v)
	case []byte:
		return quote(string(v))
	}
	return Serialize(arg, "TEXT")
}

// returnsRows reports whether query yields a result set.
func returnsRows(query string) bool {
	q := strings.ToUpper(strings.TrimSpace(stripComments(query)))
	for _, prefix := range []string{"SELECT", "WITH", "PRAGMA", "VALUES", "EXPLAIN"} {
		if strings.HasPrefix(q, prefix) {
			return true
		}
	}
	return strings.Contains(q, " RETURNING ")
}

func stripComments(query string) string {
	q := strings.TrimSpace(query)
	for strings.HasPrefix(q, "--") {
		i := strings.IndexByte(q, '\n')
		if i < 0 {
			return ""
		}
		q = strings.TrimSpace(q[i+1:])
	}
	return q
}
