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
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	thanosql "github.com/smartmind-team/thanosql-go"
	"github.com/stretchr/testify/require"
)

func TestTableLifecycle(t *testing.T) {
	c := NewClient(t)
	defer c.Close()

	ctx := context.Background()
	name := RandomName(t)

	err := c.Table.Create(ctx, name, "", &thanosql.TableObject{
		Columns: []thanosql.BaseColumn{
			{Name: "id", Type: "integer"},
			{Name: "v", Type: "jsonb"},
		},
		Constraints: &thanosql.Constraints{
			PrimaryKey: []thanosql.PrimaryKey{{Columns: []string{"id"}}},
		},
	})
	require.NoError(t, err)
	defer func() {
		require.NoError(t, c.Table.Delete(ctx, name, ""))
	}()

	tbl, err := c.Table.Get(ctx, name, "")
	require.NoError(t, err)
	snaps.MatchSnapshot(t, tbl.Columns)

	_, err = tbl.InsertRows(ctx, []thanosql.Row{
		thanosql.Tuple{1, map[string]any{"k": "v"}},
		thanosql.Tuple{2, nil},
	}, nil)
	require.NoError(t, err)

	records, err := tbl.GetRecords(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, 2, records.Total)

	batch, err := records.ToArrowBatch()
	require.NoError(t, err)
	defer batch.Release()
	require.EqualValues(t, 2, batch.NumRows())
}
