package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, 2024, d.Year())
	assert.Equal(t, time.February, d.Month())
	assert.Equal(t, 29, d.Day())
	assert.Equal(t, "2024-02-29", d.String())

	for _, bad := range []string{"", "2023-02-29", "2024/01/01", "tomorrow"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestDateOf_LocalDay(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	// 20:00 UTC on Dec 31 is already Jan 1 in Tokyo
	instant := time.Date(2023, 12, 31, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, NewDate(2024, 1, 1), DateOf(instant, tokyo))
	assert.Equal(t, NewDate(2023, 12, 31), DateOf(instant, nil))
}

func TestAddMonthsClamped(t *testing.T) {
	jan31 := NewDate(2023, 1, 31)
	assert.Equal(t, NewDate(2023, 2, 28), jan31.AddMonthsClamped(1))
	assert.Equal(t, NewDate(2023, 3, 31), jan31.AddMonthsClamped(2))
	assert.Equal(t, NewDate(2024, 2, 29), jan31.AddMonthsClamped(13))
	assert.Equal(t, NewDate(2022, 11, 30), jan31.AddMonthsClamped(-2))
}

func TestDateArithmetic(t *testing.T) {
	a := NewDate(2024, 1, 30)
	b := NewDate(2024, 3, 2)
	assert.Equal(t, 32, a.DaysUntil(b))
	assert.Equal(t, -32, b.DaysUntil(a))
	assert.Equal(t, 118335, NewDate(1700, 1, 4).DaysUntil(NewDate(2024, 1, 1)))
	assert.Equal(t, -154863, NewDate(2024, 1, 1).DaysUntil(NewDate(1600, 1, 1)))
	assert.Equal(t, 2, a.MonthsUntil(b))
	assert.Equal(t, b, a.AddDays(32))
	assert.Equal(t, 29, DaysIn(2024, time.February))
	assert.Equal(t, 28, DaysIn(2100, time.February))
	assert.True(t, a.Before(b))
	assert.Equal(t, 1, b.Compare(a))
}

func TestDateJSON(t *testing.T) {
	var payload struct {
		Due  Date `json:"due"`
		None Date `json:"none"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"due":"2024-05-01","none":null}`), &payload))
	assert.Equal(t, NewDate(2024, 5, 1), payload.Due)
	assert.True(t, payload.None.IsZero())

	data, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"due":"2024-05-01","none":null}`, string(data))

	assert.Error(t, json.Unmarshal([]byte(`{"due":"05/01/2024"}`), &payload))
}
