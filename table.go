package thanosql

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
)

// TableService manages tables in the workspace.
type TableService struct {
	c *Client
}

// BaseColumn describes a column when creating or templating a table.
type BaseColumn struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Default    string `json:"default,omitempty"`
	IsNullable *bool  `json:"is_nullable,omitempty"`
}

// Column describes a column of an existing table.
type Column struct {
	ID         int    `json:"id,omitempty"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Default    string `json:"default,omitempty"`
	IsNullable *bool  `json:"is_nullable,omitempty"`
}

// Unique is a uniqueness constraint over one or more columns.
type Unique struct {
	Name    string   `json:"name,omitempty"`
	Columns []string `json:"columns"`
}

// PrimaryKey is a primary key constraint over one or more columns.
type PrimaryKey struct {
	Name    string   `json:"name,omitempty"`
	Columns []string `json:"columns"`
}

// ForeignKey is a foreign key constraint on a single column.
type ForeignKey struct {
	Name            string `json:"name,omitempty"`
	Column          string `json:"column"`
	ReferenceSchema string `json:"reference_schema,omitempty"`
	ReferenceTable  string `json:"reference_table"`
	ReferenceColumn string `json:"reference_column"`
}

// Constraints groups the constraints of a table.
type Constraints struct {
	Unique      []Unique     `json:"unique,omitempty"`
	PrimaryKey  []PrimaryKey `json:"primary_key,omitempty"`
	ForeignKeys []ForeignKey `json:"foreign_keys,omitempty"`
}

// TableObject is the column/constraint description used to create a
// table or a table template.
type TableObject struct {
	Columns     []BaseColumn `json:"columns,omitempty"`
	Constraints *Constraints `json:"constraints,omitempty"`
}

// Table is a table in the workspace. Tables returned by TableService
// are bound to the client and can fetch and insert records directly.
type Table struct {
	c *Client

	Name        string       `json:"name"`
	Schema      string       `json:"schema,omitempty"`
	Columns     []Column     `json:"columns,omitempty"`
	Constraints *Constraints `json:"constraints,omitempty"`
}

// TableListOptions narrows a table listing.
type TableListOptions struct {
	Schema  string
	Verbose bool
	Offset  int
	Limit   int
}

// List lists tables in the workspace.
func (s *TableService) List(ctx context.Context, opts *TableListOptions) ([]*Table, error) {
	q := url.Values{}
	if opts != nil {
		if opts.Schema != "" {
			q.Set("schema", opts.Schema)
		}
		if opts.Verbose {
			q.Set("verbose", "true")
		}
		if opts.Offset > 0 {
			q.Set("offset", strconv.Itoa(opts.Offset))
		}
		if opts.Limit > 0 {
			q.Set("limit", strconv.Itoa(opts.Limit))
		}
	}

	var out struct {
		Tables []*Table `json:"tables"`
	}
	if err := s.c.get(ctx, "/table/", q, &out); err != nil {
		return nil, err
	}
	for _, t := range out.Tables {
		t.c = s.c
	}
	return out.Tables, nil
}

// Get retrieves a table by name. The returned Table is bound to the
// client.
func (s *TableService) Get(ctx context.Context, name, schema string) (*Table, error) {
	q := url.Values{}
	if schema != "" {
		q.Set("schema", schema)
	}

	var out struct {
		Table *Table `json:"table"`
	}
	if err := s.c.get(ctx, "/table/"+url.PathEscape(name), q, &out); err != nil {
		return nil, err
	}
	if out.Table != nil {
		out.Table.c = s.c
	}
	return out.Table, nil
}

// Create creates a new table with the given columns and constraints.
func (s *TableService) Create(ctx context.Context, name, schema string, table *TableObject) error {
	q := url.Values{}
	if schema != "" {
		q.Set("schema", schema)
	}
	payload := map[string]any{}
	if table != nil {
		payload["table"] = table
	}
	return s.c.post(ctx, "/table/"+url.PathEscape(name), q, payload, nil)
}

// Update replaces the name, columns or constraints of a table.
func (s *TableService) Update(ctx context.Context, name, schema string, table *Table) error {
	q := url.Values{}
	if schema != "" {
		q.Set("schema", schema)
	}
	payload := map[string]any{}
	if table != nil {
		payload["table"] = table
	}
	return s.c.put(ctx, "/table/"+url.PathEscape(name), q, payload, nil)
}

// Delete drops a table by name.
func (s *TableService) Delete(ctx context.Context, name, schema string) error {
	q := url.Values{}
	if schema != "" {
		q.Set("schema", schema)
	}
	return s.c.delete(ctx, "/table/"+url.PathEscape(name), q, nil)
}

// UploadOptions configures a table upload.
type UploadOptions struct {
	// Schema is the schema of the destination table.
	Schema string
	// IfExists selects the behavior when the table already exists,
	// e.g. "append" or "replace".
	IfExists string
	// Table describes the destination table when it has to be created.
	Table *TableObject
}

// excelExtensions are the spreadsheet formats the engine accepts on the
// excel upload path.
var excelExtensions = map[string]bool{
	".xls": true, ".xlsx": true, ".xlsm": true, ".xlsb": true,
	".odf": true, ".ods": true, ".odt": true,
}

// Upload creates or extends a table from a local CSV or spreadsheet
// file. The upload path is picked from the file extension.
func (s *TableService) Upload(ctx context.Context, name, file string, opts *UploadOptions) error {
	path := "/table/" + url.PathEscape(name) + "/upload/"
	switch ext := strings.ToLower(filepath.Ext(file)); {
	case ext == ".csv":
		path += "csv"
	case excelExtensions[ext]:
		path += "excel"
	default:
		return &Error{Message: "unsupported file extension: " + filepath.Ext(file)}
	}

	q := url.Values{}
	fields := map[string]string{}
	if opts != nil {
		if opts.Schema != "" {
			q.Set("schema", opts.Schema)
		}
		if opts.IfExists != "" {
			q.Set("if_exists", opts.IfExists)
		}
		if opts.Table != nil {
			body, err := marshalPayload(opts.Table)
			if err != nil {
				return err
			}
			fields["table"] = string(body)
		}
	}
	return s.c.upload(ctx, path, q, file, fields, nil)
}

// Identifier returns the quoted, schema-qualified identifier of the
// table for use in statements.
func (t *Table) Identifier() string {
	var b bytes.Buffer
	if t.Schema != "" {
		b.WriteString(quoteIdent(t.Schema))
		b.WriteByte('.')
	}
	b.WriteString(quoteIdent(t.Name))
	return b.String()
}

// RecordsOptions narrows a records fetch.
type RecordsOptions struct {
	Offset int
	Limit  int
	// TimezoneOffset shifts timestamp columns by the given number of
	// hours before they are rendered.
	TimezoneOffset *int
}

func (t *Table) recordsQuery(opts *RecordsOptions) url.Values {
	q := url.Values{}
	if t.Schema != "" {
		q.Set("schema", t.Schema)
	}
	if opts != nil {
		if opts.Offset > 0 {
			q.Set("offset", strconv.Itoa(opts.Offset))
		}
		if opts.Limit > 0 {
			q.Set("limit", strconv.Itoa(opts.Limit))
		}
		if opts.TimezoneOffset != nil {
			q.Set("timezone_offset", strconv.Itoa(*opts.TimezoneOffset))
		}
	}
	return q
}

// GetRecords fetches records of the table.
func (t *Table) GetRecords(ctx context.Context, opts *RecordsOptions) (*Records, error) {
	var records Records
	path := "/table/" + url.PathEscape(t.Name) + "/records"
	if err := t.c.get(ctx, path, t.recordsQuery(opts), &records); err != nil {
		return nil, err
	}
	return &records, nil
}

// GetRecordsCSV fetches records of the table rendered as CSV.
func (t *Table) GetRecordsCSV(ctx context.Context, opts *RecordsOptions) ([]byte, error) {
	path := "/table/" + url.PathEscape(t.Name) + "/records/csv"
	u, err := t.c.endpoint(path, t.recordsQuery(opts))
	if err != nil {
		return nil, err
	}
	resp, err := t.c.http.Get(ctx, u)
	if err != nil {
		return nil, err
	}
	defer sneakyBodyClose(resp.Body)
	if err := checkStatusCodeOK(resp); err != nil {
		return nil, err
	}
	return io.ReadAll(resp.Body)
}

// Insert posts records into the table through the records endpoint.
func (t *Table) Insert(ctx context.Context, records []map[string]any) error {
	q := url.Values{}
	if t.Schema != "" {
		q.Set("schema", t.Schema)
	}
	path := "/table/" + url.PathEscape(t.Name) + "/records"
	return t.c.post(ctx, path, q, records, nil)
}

// InsertOptions configures InsertRows.
type InsertOptions struct {
	// Columns names the target columns of the insert statement.
	Columns []string
	// RowTemplate renders one row by named-field substitution; required
	// iff rows are Fields maps.
	RowTemplate string
	// PageSize caps rows per rendered statement, within [1, MaxPageSize].
	// Zero means DefaultPageSize.
	PageSize int
}

// InsertRows inserts value rows through the value-substitution engine:
// it builds an INSERT statement carrying the values placeholder,
// renders the rows into it in pages, and executes the resulting script.
func (t *Table) InsertRows(ctx context.Context, rows []Row, opts *InsertOptions) (*QueryLog, error) {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(t.Identifier())
	q := ValuesQuery{Rows: rows}
	if opts != nil {
		if len(opts.Columns) > 0 {
			b.WriteString(" (")
			for i, col := range opts.Columns {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(quoteIdent(col))
			}
			b.WriteByte(')')
		}
		q.RowTemplate = opts.RowTemplate
		q.PageSize = opts.PageSize
	}
	b.WriteString(" VALUES ")
	b.WriteString(ValuesPlaceholder)
	q.Statement = b.String()
	return t.c.Query.ExecuteValues(ctx, &q)
}

// quoteIdent quotes an identifier, doubling any embedded quote.
func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
