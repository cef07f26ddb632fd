package wire

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	expected := time.Date(1994, time.November, 6, 8, 49, 37, 0, time.UTC)

	testcases := []struct {
		desc  string
		input string
	}{
		{desc: "imf-fixdate", input: "Sun, 06 Nov 1994 08:49:37 GMT"},
		{desc: "rfc 850", input: "Sunday, 06-Nov-94 08:49:37 GMT"},
		{desc: "asctime", input: "Sun Nov  6 08:49:37 1994"},
	}

	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			parsed, err := ParseDate(tc.input)
			require.NoError(t, err)
			assert.True(t, parsed.Equal(expected), "got %v", parsed)
		})
	}
}

func TestParseDateInvalid(t *testing.T) {
	_, err := ParseDate("last tuesday")
	assert.Error(t, err)
}

func TestFormatDateRoundTrip(t *testing.T) {
	orig := time.Date(2024, time.March, 1, 12, 30, 0, 0, time.UTC)

	raw := FormatDate(orig)
	assert.Equal(t, "Fri, 01 Mar 2024 12:30:00 GMT", raw)

	parsed, err := ParseDate(raw)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(orig))
}
