package csv

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string, dayfirst bool) time.Time {
	t.Helper()
	ms, err := parseDate(s, dayfirst)
	require.NoError(t, err, "date %q", s)
	return time.UnixMilli(ms).UTC()
}

func TestParseDateSlashAndDash(t *testing.T) {
	assert.Equal(t, time.Date(2010, 10, 31, 0, 0, 0, 0, time.UTC), mustDate(t, "31/10/2010", false))
	assert.Equal(t, time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC), mustDate(t, "1/1/1970", false))
	assert.Equal(t, time.Date(1995, 11, 22, 0, 0, 0, 0, time.UTC), mustDate(t, "11/22/1995", false))
	assert.Equal(t, time.Date(2016, 4, 30, 0, 0, 0, 0, time.UTC), mustDate(t, "2016-04-30", false))
}

func TestParseDateSpacesAroundSeparators(t *testing.T) {
	assert.Equal(t, time.Date(1994, 7, 14, 0, 0, 0, 0, time.UTC), mustDate(t, "14 / 07 / 1994", false))
}

func TestParseDateDayFirst(t *testing.T) {
	// ambiguous: both components could be a month
	assert.Equal(t, time.Date(2001, 2, 3, 0, 0, 0, 0, time.UTC), mustDate(t, "03/02/2001", true))
	assert.Equal(t, time.Date(2001, 3, 2, 0, 0, 0, 0, time.UTC), mustDate(t, "03/02/2001", false))
	// unambiguous values override dayfirst
	assert.Equal(t, time.Date(1995, 11, 22, 0, 0, 0, 0, time.UTC), mustDate(t, "22/11/1995", false))
}

func TestParseDateWithTime(t *testing.T) {
	got := mustDate(t, "2016-04-30T01:02:03.400", false)
	assert.Equal(t, time.Date(2016, 4, 30, 1, 2, 3, 400_000_000, time.UTC), got)

	got = mustDate(t, "2016-04-30 01:02:03", false)
	assert.Equal(t, time.Date(2016, 4, 30, 1, 2, 3, 0, time.UTC), got)
}

func TestParseDateTwelveHourClock(t *testing.T) {
	got := mustDate(t, "2007-4-30 1:6:40.000PM", false)
	assert.Equal(t, time.Date(2007, 4, 30, 13, 6, 40, 0, time.UTC), got)

	got = mustDate(t, "2007-4-30 12:10:00AM", false)
	assert.Equal(t, time.Date(2007, 4, 30, 0, 10, 0, 0, time.UTC), got)

	got = mustDate(t, "2007-4-30 12:10:00PM", false)
	assert.Equal(t, time.Date(2007, 4, 30, 12, 10, 0, 0, time.UTC), got)
}

func TestParseDateTwoDigitYear(t *testing.T) {
	assert.Equal(t, 2068, mustDate(t, "1/1/68", false).Year())
	assert.Equal(t, 1969, mustDate(t, "1/1/69", false).Year())
	assert.Equal(t, 1990, mustDate(t, "1/1/90", false).Year())
}

func TestParseDateRejectsNonDates(t *testing.T) {
	for _, s := range []string{"", "1234", "12.5", "a/b/c", "1/2", "1/2/3/4", "13/13/2000"} {
		_, err := parseDate(s, false)
		require.Error(t, err, "input %q", s)
	}
}

func TestParseDateMillisecondPrecision(t *testing.T) {
	ms, err := parseDate("1970-01-01 00:00:01.250", false)
	require.NoError(t, err)
	assert.Equal(t, int64(1250), ms)
}
