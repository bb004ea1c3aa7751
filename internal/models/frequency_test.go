package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFrequency(t *testing.T) {
	for _, f := range Frequencies() {
		parsed, err := ParseFrequency(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, parsed)
	}

	aliases := map[string]Frequency{
		"Monthly":     Monthly,
		"bi-weekly":   Biweekly,
		"fortnightly": Biweekly,
		"yearly":      Annually,
		"once":        OneTime,
		"semimonthly": SemiMonthly,
	}
	for in, want := range aliases {
		got, err := ParseFrequency(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFrequency("hourly")
	assert.Error(t, err)
}

func TestFrequencyLabels(t *testing.T) {
	assert.Equal(t, "Every 2 weeks", Biweekly.Label())
	assert.Equal(t, "Unknown", Frequency(99).Label())
	assert.False(t, OneTime.IsRecurring())
	assert.True(t, Quarterly.IsRecurring())
}

func TestMonthlyEquivalent(t *testing.T) {
	assert.Equal(t, Money(0), OneTime.MonthlyEquivalent(100000))
	assert.Equal(t, Money(43333), Weekly.MonthlyEquivalent(10000))
	assert.Equal(t, Money(20000), SemiMonthly.MonthlyEquivalent(10000))
	assert.Equal(t, Money(10000), Monthly.MonthlyEquivalent(10000))
	assert.Equal(t, Money(1000), Annually.MonthlyEquivalent(12000))
}

func TestFrequencyJSON(t *testing.T) {
	var item RecurringItem
	require.NoError(t, json.Unmarshal([]byte(`{"frequency":"semi-monthly"}`), &item))
	assert.Equal(t, SemiMonthly, item.Frequency)

	require.NoError(t, json.Unmarshal([]byte(`{"frequency":""}`), &item))
	assert.Equal(t, OneTime, item.Frequency)

	assert.Error(t, json.Unmarshal([]byte(`{"frequency":"daily"}`), &item))

	data, err := json.Marshal(Quarterly)
	require.NoError(t, err)
	assert.Equal(t, `"quarterly"`, string(data))
}
