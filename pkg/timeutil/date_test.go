package timeutil

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_JSON(t *testing.T) {
	type doc struct {
		Due  Date `json:"due"`
		Paid Date `json:"paid"`
	}

	data, err := json.Marshal(doc{Due: NewDate(2024, time.March, 15)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"due":"2024-03-15","paid":null}`, string(data))

	var got doc
	require.NoError(t, json.Unmarshal([]byte(`{"due":"2024-01-20","paid":"2024-02-01T10:30:00.000Z"}`), &got))
	assert.Equal(t, NewDate(2024, time.January, 20), got.Due)
	assert.Equal(t, NewDate(2024, time.February, 1), got.Paid)

	require.NoError(t, json.Unmarshal([]byte(`{"due":"","paid":null}`), &got))
	assert.True(t, got.Due.IsZero())
	assert.True(t, got.Paid.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`{"due":"15/03/2024"}`), &got))
}

func TestDate_Arithmetic(t *testing.T) {
	d := MustParseDate("2024-01-15")

	assert.Equal(t, "2024-03-15", d.AddMonths(2).String())
	assert.Equal(t, "2024-05-15", d.AddMonths(4).String())
	assert.Equal(t, "2024-01-09", d.AddDays(-6).String())
	assert.True(t, d.Before(d.AddDays(1)))
	assert.False(t, d.After(d))

	// 2024-01-13 is a Saturday, 2024-01-14 a Sunday.
	assert.True(t, MustParseDate("2024-01-13").IsWeekend())
	assert.True(t, MustParseDate("2024-01-14").IsWeekend())
	assert.False(t, d.IsWeekend())
}

func TestMonth_Days(t *testing.T) {
	m, err := ParseMonth("2024-02")
	require.NoError(t, err)

	days := m.Days()
	assert.Len(t, days, 29)
	assert.Equal(t, "2024-02-01", days[0].String())
	assert.Equal(t, "2024-02-29", days[28].String())
	assert.Equal(t, "2024-02", m.String())

	_, err = ParseMonth("2024-13")
	assert.Error(t, err)
}

func TestFixedClock(t *testing.T) {
	at := time.Date(2025, time.September, 3, 23, 30, 0, 0, time.UTC)
	clock := FixedClock(at)
	assert.Equal(t, NewDate(2025, time.September, 3), DateOf(clock()))
}
