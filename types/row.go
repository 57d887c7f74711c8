/*
 * Copyright 2025 tomoncle.
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

package types

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"
)

// Row is a result row of a server-side routine or ad hoc query, keyed by
// column name. Values are whatever the driver produced.
type Row map[string]interface{}

// Rows is the result of a pass-through query.
type Rows []Row

// Get returns the value of column with []byte converted to string.
func (r Row) Get(column string) interface{} {
	return normalize(r[column])
}

// String formats column for display; NULL renders as "".
func (r Row) String(column string) string {
	switch v := r.Get(column).(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		if v.Hour() == 0 && v.Minute() == 0 && v.Second() == 0 && v.Nanosecond() == 0 {
			return v.Format("2006-01-02")
		}
		return v.Format("2006-01-02 15:04:05")
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// Int64 reads column as an integer, parsing text values such as numerics.
func (r Row) Int64(column string) (int64, bool) {
	switch v := r.Get(column).(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case float64:
		return int64(v), true
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil
	}
	return 0, false
}

func (r Row) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(r))
	for k := range r {
		out[k] = r.Get(k)
	}
	return json.Marshal(out)
}

// Columns returns the union of column names in sorted order.
func (rs Rows) Columns() []string {
	seen := map[string]struct{}{}
	for _, r := range rs {
		for k := range r {
			seen[k] = struct{}{}
		}
	}
	cols := make([]string, 0, len(seen))
	for k := range seen {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

func normalize(v interface{}) interface{} {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
