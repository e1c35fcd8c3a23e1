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

/*
Package thanosql provides a lightweight and easy-to-use client for interacting with a ThanoSQL engine.

# Client

Use NewClient to create a client struct. This is the major entrance to construct structs for interacting with the engine:

	client := thanosql.NewClient(&thanosql.Config{
		Endpoint: "https://<engine-host>",
		APIToken: "<token>",
	})

# Run Queries

Use the query service to execute statements and fetch their logs:

	log, err := client.Query.Execute(ctx, &thanosql.QueryRequest{
		Query: "SELECT * FROM sales LIMIT 10",
	})

# Substitute Value Rows

A statement carrying the {{ val }} placeholder is rendered client-side:
rows are serialized into SQL literals, grouped into pages, and the pages
are assembled into one executable script:

	log, err := client.Query.ExecuteValues(ctx, &thanosql.ValuesQuery{
		Statement: "INSERT INTO points VALUES {{ val }}",
		Rows: []thanosql.Row{
			thanosql.Tuple{1, "gangnam", "seoul"},
			thanosql.Tuple{2, "haeundae", "busan"},
		},
	})

Rows may instead be Fields maps rendered through a per-row template:

	log, err := client.Query.ExecuteValues(ctx, &thanosql.ValuesQuery{
		Statement:   "INSERT INTO points VALUES {{ val }}",
		RowTemplate: "({{ id }}, {{ name }})",
		Rows: []thanosql.Row{
			thanosql.Fields{"id": 1, "name": "gangnam"},
		},
	})

# Tables and Records

Tables fetched from the table service are bound to the client and can
read and insert records directly:

	tbl, err := client.Table.Get(ctx, "sales", "")
	records, err := tbl.GetRecords(ctx, nil)
	batch, err := records.ToArrowBatch()
*/
package thanosql
