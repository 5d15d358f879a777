// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package bigdb

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Literal renders v as a predicate literal
//
// Strings are double-quoted with quotes and backslashes escaped, so a
// substituted value can never close the predicate or start a new one.
// Integers, finite floats and json.Number render as bare numbers, booleans
// as true/false and nil as null. NaN and infinities are quoted. Any other
// value is formatted with fmt and quoted.
//
// Example:
//
//	bigdb.Literal("leaf1") // `"leaf1"`
//	bigdb.Literal(42)      // `42`
func Literal(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(val)
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.FormatInt(int64(val), 10)
	case int8:
		return strconv.FormatInt(int64(val), 10)
	case int16:
		return strconv.FormatInt(int64(val), 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint8:
		return strconv.FormatUint(uint64(val), 10)
	case uint16:
		return strconv.FormatUint(uint64(val), 10)
	case uint32:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float32:
		return formatFloat(float64(val), 32)
	case float64:
		return formatFloat(val, 64)
	case json.Number:
		return val.String()
	case fmt.Stringer:
		return strconv.Quote(val.String())
	default:
		return strconv.Quote(fmt.Sprint(val))
	}
}

// formatFloat renders finite floats as bare numbers and quotes NaN and
// infinities, which have no numeric literal form
func formatFloat(f float64, bitSize int) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.Quote(strconv.FormatFloat(f, 'g', -1, bitSize))
	}
	return strconv.FormatFloat(f, 'g', -1, bitSize)
}

// expandTemplate substitutes $name and ${name} references in template with
// the Literal form of values. "$$" yields a literal "$". Names match
// [A-Za-z_][A-Za-z0-9_]*; any other use of "$" is an invalid placeholder.
func expandTemplate(template string, values map[string]any) (string, error) {
	var b strings.Builder
	b.Grow(len(template))

	for i := 0; i < len(template); i++ {
		if template[i] != '$' {
			b.WriteByte(template[i])
			continue
		}

		name, next, ok := placeholderName(template, i+1)
		if !ok {
			return "", &TemplateError{Template: template, Reason: "invalid placeholder"}
		}
		if name == "$" {
			b.WriteByte('$')
		} else {
			v, found := values[name]
			if !found {
				return "", &TemplateError{Template: template, Name: name, Reason: "undefined substitution"}
			}
			b.WriteString(Literal(v))
		}
		i = next - 1
	}
	return b.String(), nil
}

// placeholderName parses the placeholder following a "$" at template[start-1]
// and returns its name and the index just past it
func placeholderName(template string, start int) (string, int, bool) {
	if start >= len(template) {
		return "", start, false
	}
	switch template[start] {
	case '$':
		return "$", start + 1, true
	case '{':
		end := strings.IndexByte(template[start+1:], '}')
		if end < 0 {
			return "", start, false
		}
		name := template[start+1 : start+1+end]
		if !isIdentifier(name) {
			return "", start, false
		}
		return name, start + end + 2, true
	}
	end := start
	for end < len(template) && isIdentByte(template[end], end == start) {
		end++
	}
	if end == start {
		return "", start, false
	}
	return template[start:end], end, true
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isIdentByte(s[i], i == 0) {
			return false
		}
	}
	return true
}

func isIdentByte(c byte, first bool) bool {
	switch {
	case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		return true
	case '0' <= c && c <= '9':
		return !first
	}
	return false
}
