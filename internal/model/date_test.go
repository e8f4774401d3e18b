package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_JSONRoundTrip(t *testing.T) {
	d, err := ParseDate("2026-03-15")
	require.NoError(t, err)

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2026-03-15"`, string(out))

	var back Date
	require.NoError(t, json.Unmarshal(out, &back))
	assert.True(t, d.Equal(back.Time))
}

func TestDate_AcceptsRFC3339(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2026-03-15T18:30:00Z"`), &d))
	assert.Equal(t, "2026-03-15", d.String())
}

func TestDate_RejectsGarbage(t *testing.T) {
	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"next tuesday"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`""`), &d))
}

func TestNewDate_DropsTimeOfDay(t *testing.T) {
	d := NewDate(time.Date(2026, 3, 15, 23, 59, 12, 0, time.UTC))
	assert.Equal(t, "2026-03-15", d.String())
}

func TestOptionalDate_TriState(t *testing.T) {
	type patch struct {
		Deadline OptionalDate `json:"deadline"`
	}

	t.Run("absent", func(t *testing.T) {
		var p patch
		require.NoError(t, json.Unmarshal([]byte(`{}`), &p))
		assert.False(t, p.Deadline.Set)
	})

	t.Run("null clears", func(t *testing.T) {
		var p patch
		require.NoError(t, json.Unmarshal([]byte(`{"deadline":null}`), &p))
		assert.True(t, p.Deadline.Set)
		assert.Nil(t, p.Deadline.Value)
	})

	t.Run("value", func(t *testing.T) {
		var p patch
		require.NoError(t, json.Unmarshal([]byte(`{"deadline":"2026-03-15"}`), &p))
		assert.True(t, p.Deadline.Set)
		require.NotNil(t, p.Deadline.Value)
		assert.Equal(t, "2026-03-15", p.Deadline.Value.String())
	})

	t.Run("bad value", func(t *testing.T) {
		var p patch
		assert.Error(t, json.Unmarshal([]byte(`{"deadline":"soon"}`), &p))
	})
}
