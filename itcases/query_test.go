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

package itcases

import (
	"context"
	"fmt"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	thanosql "github.com/smartmind-team/thanosql-go"
	"github.com/stretchr/testify/require"
)

func TestExecuteValuesReadBack(t *testing.T) {
	c := NewClient(t)
	defer c.Close()

	ctx := context.Background()
	name := RandomName(t)

	_, err := c.Query.Execute(ctx, &thanosql.QueryRequest{
		Query: fmt.Sprintf("CREATE TABLE %s (id integer, name text, city text)", name),
	})
	require.NoError(t, err)
	defer func() {
		require.NoError(t, c.Table.Delete(ctx, name, ""))
	}()

	_, err = c.Query.ExecuteValues(ctx, &thanosql.ValuesQuery{
		Statement: fmt.Sprintf("INSERT INTO %s VALUES {{ val }}", name),
		Rows: []thanosql.Row{
			thanosql.Tuple{1, "gangnam", "seoul"},
			thanosql.Tuple{2, "haeundae", "busan"},
		},
	})
	require.NoError(t, err)

	tbl, err := c.Table.Get(ctx, name, "")
	require.NoError(t, err)

	records, err := tbl.GetRecords(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, 2, records.Total)
}

func TestExecuteFail(t *testing.T) {
	c := NewClient(t)
	defer c.Close()

	ctx := context.Background()

	_, err := c.Query.Execute(ctx, &thanosql.QueryRequest{
		Query: "SELECT UNKNOWN_FUNCTION()",
	})
	require.Error(t, err)
	snaps.MatchSnapshot(t, err.Error())
}

func TestQueryTemplateLifecycle(t *testing.T) {
	c := NewClient(t)
	defer c.Close()

	ctx := context.Background()
	name := RandomName(t)

	tmpl, err := c.Query.Template.Create(ctx, name, "SELECT * FROM {{ table_name }}", false)
	require.NoError(t, err)
	require.Equal(t, name, tmpl.Name)
	defer func() {
		require.NoError(t, c.Query.Template.Delete(ctx, name))
	}()

	got, err := c.Query.Template.Get(ctx, name)
	require.NoError(t, err)
	require.Equal(t, tmpl.Query, got.Query)
}
