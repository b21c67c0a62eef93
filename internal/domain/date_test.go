package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Parallel()

	d, err := ParseDate("2026-10-19", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Monday, d.Weekday())
	assert.Equal(t, "2026-10-19", d.String())

	_, err = ParseDate("19/10/2026", time.UTC)
	assert.True(t, errors.Is(err, ErrInvalidDate))
}

func TestDate_JSON(t *testing.T) {
	t.Parallel()

	d, err := ParseDate("2026-12-25", time.UTC)
	require.NoError(t, err)

	b, err := json.Marshal(struct {
		Fecha Date `json:"fecha"`
	}{d})
	require.NoError(t, err)
	assert.JSONEq(t, `{"fecha":"2026-12-25"}`, string(b))
}

func TestDate_Scan(t *testing.T) {
	t.Parallel()

	var d Date
	require.NoError(t, d.Scan(time.Date(2026, 3, 4, 17, 30, 0, 0, time.UTC)))
	assert.Equal(t, "2026-03-04", d.String())

	require.NoError(t, d.Scan([]byte("2026-05-06")))
	assert.Equal(t, "2026-05-06", d.String())

	assert.Error(t, d.Scan(42))
}

func TestParseClock(t *testing.T) {
	t.Parallel()

	c, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, Clock(570), c)
	assert.Equal(t, "09:30", c.String())

	c, err = ParseClock("17:05:00")
	require.NoError(t, err)
	assert.Equal(t, "17:05", c.String())

	for _, bad := range []string{"", "9", "24:00", "12:60", "aa:bb", "1:2:3:4"} {
		_, err := ParseClock(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseStatusFilter(t *testing.T) {
	t.Parallel()

	f, err := ParseStatusFilter("")
	require.NoError(t, err)
	s, ok := f.Status()
	assert.True(t, ok)
	assert.Equal(t, StatusActive, s)

	f, err = ParseStatusFilter("b")
	require.NoError(t, err)
	s, ok = f.Status()
	assert.True(t, ok)
	assert.Equal(t, StatusDeleted, s)

	f, err = ParseStatusFilter("todos")
	require.NoError(t, err)
	_, ok = f.Status()
	assert.False(t, ok)

	_, err = ParseStatusFilter("C")
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestPending_Expired(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	p := Pending{ExpiraEn: now}
	assert.True(t, p.Expired(now), "expiry instant counts as expired")

	p.ExpiraEn = now.Add(time.Minute)
	assert.False(t, p.Expired(now))
}
