package thanosql

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTableIdentifier(t *testing.T) {
	tbl := &Table{Name: "sales"}
	require.Equal(t, `"sales"`, tbl.Identifier())

	tbl = &Table{Name: "sales", Schema: "public"}
	require.Equal(t, `"public"."sales"`, tbl.Identifier())

	tbl = &Table{Name: `odd"name`}
	require.Equal(t, `"odd""name"`, tbl.Identifier())
}

func TestTableGet(t *testing.T) {
	ctx := context.Background()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/table/sales", r.URL.Path)
		require.Equal(t, "public", r.URL.Query().Get("schema"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"table": map[string]any{
				"name":   "sales",
				"schema": "public",
				"columns": []map[string]any{
					{"id": 1, "name": "id", "type": "integer"},
					{"id": 2, "name": "region", "type": "text"},
				},
			},
		})
	}))

	tbl, err := c.Table.Get(ctx, "sales", "public")
	require.NoError(t, err)
	require.Equal(t, "sales", tbl.Name)
	require.Len(t, tbl.Columns, 2)
	require.NotNil(t, tbl.c)
}

func TestTableInsertRows(t *testing.T) {
	ctx := context.Background()

	var gotStatement string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/query/", r.URL.Path)
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		gotStatement, _ = payload["query_string"].(string)
		_ = json.NewEncoder(w).Encode(map[string]any{"query_id": "q-1", "query": gotStatement, "referer": "sdk"})
	}))

	tbl := &Table{c: c, Name: "points", Schema: "public"}
	_, err := tbl.InsertRows(ctx, []Row{
		Tuple{1, "gangnam"},
		Tuple{2, "haeundae"},
	}, &InsertOptions{Columns: []string{"id", "name"}})
	require.NoError(t, err)
	require.Equal(t,
		`INSERT INTO "public"."points" ("id", "name") VALUES (1, 'gangnam'), (2, 'haeundae')`, gotStatement)
}

func TestTableInsertRowsPaged(t *testing.T) {
	ctx := context.Background()

	var gotStatement string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		gotStatement, _ = payload["query_string"].(string)
		_ = json.NewEncoder(w).Encode(map[string]any{"query_id": "q-1", "query": gotStatement, "referer": "sdk"})
	}))

	tbl := &Table{c: c, Name: "t"}
	_, err := tbl.InsertRows(ctx, []Row{Tuple{1}, Tuple{2}, Tuple{3}}, &InsertOptions{PageSize: 2})
	require.NoError(t, err)
	require.Equal(t, `INSERT INTO "t" VALUES (1), (2);INSERT INTO "t" VALUES (3)`, gotStatement)
}

func TestTableGetRecords(t *testing.T) {
	ctx := context.Background()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/table/sales/records", r.URL.Path)
		require.Equal(t, "20", r.URL.Query().Get("limit"))
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"id": 1, "region": "seoul"},
			{"id": 2, "region": "busan"},
		})
	}))

	tbl := &Table{c: c, Name: "sales"}
	records, err := tbl.GetRecords(ctx, &RecordsOptions{Limit: 20})
	require.NoError(t, err)
	require.Equal(t, 2, records.Total)
	require.Equal(t, "seoul", records.Records[0]["region"])
}

func TestTableUploadPath(t *testing.T) {
	ctx := context.Background()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("unsupported extensions must not reach the server")
	}))

	err := c.Table.Upload(ctx, "sales", "data.parquet", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported file extension")
}

func TestTableListBindsClient(t *testing.T) {
	ctx := context.Background()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/table/", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"tables": []map[string]any{
				{"name": "a"},
				{"name": "b", "schema": "analytics"},
			},
		})
	}))

	tables, err := c.Table.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, tables, 2)
	for _, tbl := range tables {
		require.NotNil(t, tbl.c)
	}
	require.Equal(t, `"analytics"."b"`, tables[1].Identifier())
}
