package dbx

import (
	"strconv"
	"strings"
)

// RewritePlaceholders converts '?' placeholders into PostgreSQL ordinal placeholders ($1, $2, ...).
//
// Rules:
//   - '\?' is an escaped literal question mark and is emitted as '?'.
//   - question marks are left untouched inside single-quoted literals (including E'' strings with
//     backslash escapes), double-quoted identifiers, dollar-quoted bodies ($$...$$, $tag$...$tag$),
//     '--' line comments and '/* */' block comments (nested ones included).
//   - existing $n placeholders are copied as they are.
//
// An unterminated literal, identifier or comment extends to the end of the text.
// The function is pure: calling it on the same input always yields the same output.
func RewritePlaceholders(sql string) string {
	if !strings.ContainsRune(sql, '?') {
		return sql
	}

	var builder strings.Builder
	builder.Grow(len(sql) + 8)

	cnt := 1

	for i := 0; i < len(sql); {
		c := sql[i]
		end := i + 1

		switch {
		case c == '-' && strings.HasPrefix(sql[i:], "--"):
			end = skipLineComment(sql, i)
		case c == '/' && strings.HasPrefix(sql[i:], "/*"):
			end = skipBlockComment(sql, i)
		case c == '\'':
			end = skipQuoted(sql, i, '\'', isEscapeString(sql, i))
		case c == '"':
			end = skipQuoted(sql, i, '"', false)
		case c == '$':
			if e, ok := skipDollarQuoted(sql, i); ok {
				end = e
			}
		case c == '\\' && i+1 < len(sql) && sql[i+1] == '?':
			builder.WriteByte('?')
			i += 2
			continue
		case c == '?':
			builder.WriteByte('$')
			builder.WriteString(strconv.Itoa(cnt))
			cnt++
			i++
			continue
		}

		builder.WriteString(sql[i:end])
		i = end
	}

	return builder.String()
}

func skipLineComment(sql string, start int) int {
	idx := strings.IndexByte(sql[start:], '\n')
	if idx < 0 {
		return len(sql)
	}

	return start + idx + 1
}

func skipBlockComment(sql string, start int) int {
	depth := 0

	for j := start; j < len(sql); {
		switch {
		case strings.HasPrefix(sql[j:], "/*"):
			depth++
			j += 2
		case strings.HasPrefix(sql[j:], "*/"):
			depth--
			j += 2
			if depth == 0 {
				return j
			}
		default:
			j++
		}
	}

	return len(sql)
}

// skipQuoted returns the index right after the closing quote. A doubled quote is part of the text.
func skipQuoted(sql string, start int, quote byte, backslashEscapes bool) int {
	for j := start + 1; j < len(sql); j++ {
		c := sql[j]

		if backslashEscapes && c == '\\' {
			j++
			continue
		}

		if c == quote {
			if j+1 < len(sql) && sql[j+1] == quote {
				j++
				continue
			}

			return j + 1
		}
	}

	return len(sql)
}

func isEscapeString(sql string, quoteAt int) bool {
	if quoteAt == 0 || (sql[quoteAt-1] != 'E' && sql[quoteAt-1] != 'e') {
		return false
	}

	return quoteAt < 2 || !isIdentChar(sql[quoteAt-2])
}

// skipDollarQuoted reports whether a dollar-quoted body opens at start and returns the index
// right after its closing delimiter.
func skipDollarQuoted(sql string, start int) (int, bool) {
	if start > 0 && isIdentChar(sql[start-1]) {
		return 0, false
	}

	j := start + 1
	if j < len(sql) && sql[j] >= '0' && sql[j] <= '9' {
		return 0, false
	}

	for j < len(sql) && isIdentChar(sql[j]) {
		j++
	}

	if j >= len(sql) || sql[j] != '$' {
		return 0, false
	}

	tag := sql[start : j+1]

	idx := strings.Index(sql[j+1:], tag)
	if idx < 0 {
		return len(sql), true
	}

	return j + 1 + idx + len(tag), true
}

func isIdentChar(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c >= 0x80
}
