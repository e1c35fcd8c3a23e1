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

import "encoding/json"

// Records holds result records of a query or a table fetch.
type Records struct {
	Records []map[string]any `json:"records"`
	Total   int              `json:"total"`
}

// UnmarshalJSON accepts either a bare JSON array of records or an
// object carrying the records together with their total count.
func (r *Records) UnmarshalJSON(data []byte) error {
	var list []map[string]any
	if err := json.Unmarshal(data, &list); err == nil {
		r.Records = list
		r.Total = len(list)
		return nil
	}

	type plain Records
	var obj plain
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*r = Records(obj)
	return nil
}
