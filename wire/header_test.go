package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderCaseInsensitiveLookup(t *testing.T) {
	h := NewHeader()
	h.Add("Content-Type", "text/plain")

	v, ok := h.Get("content-type")
	require.True(t, ok)
	assert.Equal(t, "text/plain", v)

	v, ok = h.Get("CONTENT-TYPE")
	require.True(t, ok)
	assert.Equal(t, "text/plain", v)

	_, ok = h.Get("missing")
	assert.False(t, ok)
}

func TestHeaderMultiValue(t *testing.T) {
	h := NewHeader()
	h.Add("Set-Cookie", "a=1")
	h.Add("set-cookie", "b=2")
	h.Add("SET-COOKIE", "c=3")

	values, ok := h.Values("set-cookie")
	require.True(t, ok)
	assert.Equal(t, []string{"a=1", "b=2", "c=3"}, values)

	// Get returns the first value.
	v, ok := h.Get("set-cookie")
	require.True(t, ok)
	assert.Equal(t, "a=1", v)
}

func TestHeaderFieldsOrder(t *testing.T) {
	h := NewHeader()
	h.Add("B", "1")
	h.Add("A", "2")
	h.Add("B", "3")

	expected := []Field{
		{Name: "b", Value: "1"},
		{Name: "b", Value: "3"},
		{Name: "a", Value: "2"},
	}
	assert.Equal(t, expected, h.Fields())
}

func TestHeaderSetReplaces(t *testing.T) {
	h := NewHeader()
	h.Add("X", "1")
	h.Add("X", "2")
	h.Set("x", "3")

	values, ok := h.Values("X")
	require.True(t, ok)
	assert.Equal(t, []string{"3"}, values)
}

func TestHeaderDel(t *testing.T) {
	h := NewHeader()
	h.Add("A", "1")
	h.Add("B", "2")
	h.Del("a")

	assert.False(t, h.Has("A"))
	assert.Equal(t, 1, h.Len())
	assert.Equal(t, []Field{{Name: "b", Value: "2"}}, h.Fields())
}

func TestHeaderMerge(t *testing.T) {
	defaults := NewHeader()
	defaults.Add("User-Agent", "default-agent")
	defaults.Add("X-Keep", "kept")

	overrides := NewHeader()
	overrides.Add("user-agent", "override-agent")
	overrides.Add("X-New", "new")

	h := defaults.Clone()
	h.Merge(overrides)

	v, _ := h.Get("user-agent")
	assert.Equal(t, "override-agent", v)
	v, _ = h.Get("x-keep")
	assert.Equal(t, "kept", v)
	v, _ = h.Get("x-new")
	assert.Equal(t, "new", v)

	// Merge into a clone left the defaults untouched.
	v, _ = defaults.Get("user-agent")
	assert.Equal(t, "default-agent", v)
}

func TestHeaderFrom(t *testing.T) {
	fields := []Field{
		{Name: "a", Value: "1"},
		{Name: "b", Value: "2"},
		{Name: "a", Value: "3"},
	}

	h := HeaderFrom(fields)
	values, ok := h.Values("a")
	require.True(t, ok)
	assert.Equal(t, []string{"1", "3"}, values)
	assert.Equal(t, []Field{
		{Name: "a", Value: "1"},
		{Name: "a", Value: "3"},
		{Name: "b", Value: "2"},
	}, h.Fields())
}
