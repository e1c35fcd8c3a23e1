/*
 * Copyright 2024 SmartMind, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package thanosql

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// ValuesPlaceholder is the reserved token marking where rendered value
// rows are substituted into a statement.
const ValuesPlaceholder = "{{ val }}"

// statementSeparator delimits independent statements within one script.
const statementSeparator = ";"

const (
	// DefaultPageSize is the number of rows rendered per statement when
	// ValuesQuery.PageSize is left zero.
	DefaultPageSize = 100
	// MaxPageSize is the largest page size the engine accepts.
	MaxPageSize = 100
)

// Row is one row of values to substitute: either a Tuple or a Fields map.
// The two shapes must not be mixed within a single query.
type Row = any

// Tuple is a positional value row. Each element is serialized in order
// and the row renders as a parenthesized, comma-joined list.
type Tuple []any

// Fields is a named value row. Values are serialized and substituted
// into the row template by field name.
type Fields map[string]any

// fieldPattern matches {{ field }} references in a row template. Field
// names start with a letter or underscore, followed by word characters.
var fieldPattern = regexp.MustCompile(`\{\{\s*([a-zA-Z_]\w*)\s*\}\}`)

// ValuesQuery is a parameterized statement plus the value rows to
// substitute for its ValuesPlaceholder.
type ValuesQuery struct {
	// Statement is the SQL text. It must contain ValuesPlaceholder
	// exactly once and may carry additional `;`-separated statements
	// around the placeholder's own statement.
	Statement string
	// Rows are the value rows, all of the same shape.
	Rows []Row
	// RowTemplate renders a single row by named-field substitution,
	// e.g. "({{ id }}, {{ name }})". Required iff Rows are Fields;
	// must be empty iff Rows are Tuples.
	RowTemplate string
	// PageSize caps the number of rows substituted into one rendered
	// statement. Zero means DefaultPageSize; otherwise it must be
	// within [1, MaxPageSize].
	PageSize int
}

// Render produces the complete, directly-executable script: rows are
// serialized, grouped into pages of at most PageSize, each page rendered
// into a full statement, and all statements joined with the statement
// separator in their original order.
func (q *ValuesQuery) Render() (string, error) {
	if len(q.Rows) == 0 {
		return "", ErrEmptyValues
	}
	pageSize := q.PageSize
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		return "", fmt.Errorf("page size must be within [1, %d], got %d", MaxPageSize, pageSize)
	}

	seg, err := splitStatement(q.Statement)
	if err != nil {
		return "", err
	}

	named := q.RowTemplate != ""

	var parts []string
	if seg.hasBefore {
		parts = append(parts, seg.before)
	}
	index := 0
	for page := range Paginate(slices.Values(q.Rows), pageSize) {
		rendered := make([]string, 0, len(page))
		for _, row := range page {
			var s string
			if named {
				s, err = renderNamedRow(q.RowTemplate, row, index)
			} else {
				s, err = renderTupleRow(row, index)
			}
			if err != nil {
				return "", err
			}
			rendered = append(rendered, s)
			index++
		}
		parts = append(parts, seg.prefix+strings.Join(rendered, ", ")+seg.suffix)
	}
	if seg.hasAfter {
		parts = append(parts, seg.after)
	}
	return strings.Join(parts, statementSeparator), nil
}

// statementSegments is the result of splitting a statement around its
// placeholder. prefix and suffix belong to the placeholder's own
// statement and are always present. before and after hold any
// independent statements around it; absence is tracked separately from
// the empty string so absent groups are omitted from assembly entirely.
type statementSegments struct {
	prefix    string
	suffix    string
	before    string
	after     string
	hasBefore bool
	hasAfter  bool
}

func splitStatement(stmt string) (statementSegments, error) {
	parts := strings.Split(stmt, ValuesPlaceholder)
	if len(parts) != 2 {
		return statementSegments{}, &PlaceholderCountError{Count: len(parts) - 1}
	}

	var seg statementSegments
	left := strings.Split(parts[0], statementSeparator)
	seg.prefix = left[len(left)-1]
	if len(left) > 1 {
		seg.before = strings.Join(left[:len(left)-1], statementSeparator)
		seg.hasBefore = true
	}
	right := strings.Split(parts[1], statementSeparator)
	seg.suffix = right[0]
	if len(right) > 1 {
		seg.after = strings.Join(right[1:], statementSeparator)
		seg.hasAfter = true
	}
	return seg, nil
}

func renderTupleRow(row Row, index int) (string, error) {
	var tuple Tuple
	switch r := row.(type) {
	case Tuple:
		tuple = r
	case []any:
		tuple = r
	default:
		return "", &ShapeMismatchError{Index: index, Named: false, Got: row}
	}

	var b strings.Builder
	b.WriteByte('(')
	for i, v := range tuple {
		if i > 0 {
			b.WriteString(", ")
		}
		toLiteral(v).appendTo(&b)
	}
	b.WriteByte(')')
	return b.String(), nil
}

func renderNamedRow(template string, row Row, index int) (string, error) {
	var fields Fields
	switch r := row.(type) {
	case Fields:
		fields = r
	case map[string]any:
		fields = r
	default:
		return "", &ShapeMismatchError{Index: index, Named: true, Got: row}
	}

	var missing []string
	out := fieldPattern.ReplaceAllStringFunc(template, func(m string) string {
		name := fieldPattern.FindStringSubmatch(m)[1]
		v, ok := fields[name]
		if !ok {
			missing = append(missing, name)
			return m
		}
		return SerializeValue(v)
	})
	if len(missing) > 0 {
		return "", &MissingFieldError{Index: index, Field: missing[0]}
	}
	return out, nil
}
