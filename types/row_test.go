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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowAccessors(t *testing.T) {
	row := Row{
		"name":    []byte("Treadmill"),
		"count":   int64(4),
		"hours":   "12",
		"bought":  time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		"started": time.Date(2024, 1, 15, 7, 30, 0, 0, time.UTC),
		"ratio":   1.5,
		"missing": nil,
	}

	assert.Equal(t, "Treadmill", row.Get("name"))
	assert.Equal(t, "Treadmill", row.String("name"))
	assert.Equal(t, "2024-01-15", row.String("bought"))
	assert.Equal(t, "2024-01-15 07:30:00", row.String("started"))
	assert.Equal(t, "1.5", row.String("ratio"))
	assert.Equal(t, "", row.String("missing"))

	n, ok := row.Int64("count")
	assert.True(t, ok)
	assert.Equal(t, int64(4), n)
	n, ok = row.Int64("hours")
	assert.True(t, ok)
	assert.Equal(t, int64(12), n)
	_, ok = row.Int64("name")
	assert.False(t, ok)
}

func TestRowMarshalJSON(t *testing.T) {
	data, err := json.Marshal(Row{"name": []byte("Mat"), "qty": 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Mat","qty":3}`, string(data))
}

func TestRowsColumns(t *testing.T) {
	rows := Rows{{"b": 1, "a": 2}, {"c": 3}}
	assert.Equal(t, []string{"a", "b", "c"}, rows.Columns())
}

func TestDate(t *testing.T) {
	d, err := ParseDate("2024-01-15")
	require.NoError(t, err)
	assert.True(t, d.Valid)
	assert.Equal(t, "2024-01-15", d.String())

	var scanned Date
	require.NoError(t, scanned.Scan("2024-01-15 00:00:00+00:00"))
	assert.True(t, d.Time.Equal(scanned.Time))
	require.NoError(t, scanned.Scan(nil))
	assert.False(t, scanned.Valid)
	assert.Error(t, scanned.Scan(42))

	var payload struct {
		On  Date `json:"on"`
		Off Date `json:"off"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"on":"2024-01-15","off":null}`), &payload))
	assert.Equal(t, d, payload.On)
	assert.False(t, payload.Off.Valid)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"on":"2024-01-15","off":null}`, string(out))

	_, err = ParseDate("15/01/2024")
	assert.Error(t, err)
}
