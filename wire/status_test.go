package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	testcases := []struct {
		desc     string
		input    string
		expected Version
		wantErr  bool
	}{
		{desc: "http 1.1", input: "HTTP/1.1", expected: Version{1, 1}},
		{desc: "http 1.0", input: "HTTP/1.0", expected: Version{1, 0}},
		{desc: "missing prefix", input: "1.1", wantErr: true},
		{desc: "missing seperator", input: "HTTP/1", wantErr: true},
		{desc: "not convertable to int", input: "HTTP/ayo.2", wantErr: true},
	}

	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			ver, err := ParseVersion([]byte(tc.input))
			if tc.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, ver)
			assert.Equal(t, tc.input, ver.String())
		})
	}
}

func TestParseStatusLine(t *testing.T) {
	testcases := []struct {
		desc     string
		input    string
		expected StatusLine
		wantErr  bool
	}{
		{
			desc:  "ok",
			input: "HTTP/1.1 200 OK",
			expected: StatusLine{
				Version:      Version{1, 1},
				StatusCode:   200,
				ReasonPhrase: "OK",
			},
		},
		{
			desc:  "multi word reason",
			input: "HTTP/1.1 301 Moved Permanently",
			expected: StatusLine{
				Version:      Version{1, 1},
				StatusCode:   301,
				ReasonPhrase: "Moved Permanently",
			},
		},
		{
			desc:  "empty reason",
			input: "HTTP/1.1 200",
			expected: StatusLine{
				Version:    Version{1, 1},
				StatusCode: 200,
			},
		},
		{
			desc:  "upper bound",
			input: "HTTP/1.1 599 Last",
			expected: StatusLine{
				Version:      Version{1, 1},
				StatusCode:   599,
				ReasonPhrase: "Last",
			},
		},
		{desc: "not http", input: "ICY 200 OK", wantErr: true},
		{desc: "two digit status", input: "HTTP/1.1 20 OK", wantErr: true},
		{desc: "four digit status", input: "HTTP/1.1 2000 OK", wantErr: true},
		{desc: "status below 100", input: "HTTP/1.1 099 Huh", wantErr: true},
		{desc: "status above 599", input: "HTTP/1.1 600 Nope", wantErr: true},
		{desc: "status 999", input: "HTTP/1.1 999 Nope", wantErr: true},
		{desc: "non numeric status", input: "HTTP/1.1 abc OK", wantErr: true},
		{desc: "empty line", input: "", wantErr: true},
	}

	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			stat, err := ParseStatusLine([]byte(tc.input))
			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMalformedStatusLine)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, stat)
		})
	}
}
