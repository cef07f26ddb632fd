package httptiny

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMirrorDownloads(t *testing.T) {
	s := newTestServer(t, ""+
		"HTTP/1.1 200 OK\r\n"+
		"Content-Length: 5\r\n"+
		"Last-Modified: Wed, 21 Oct 2015 07:28:00 GMT\r\n"+
		"\r\nhello")
	c := newTestClient(Options{})

	path := filepath.Join(t.TempDir(), "file.txt")
	res, err := c.Mirror(s.url("/file.txt"), path, nil)
	require.NoError(t, err)
	require.True(t, res.Success())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	// The response body went to the file, not into memory.
	assert.Empty(t, res.Content)

	info, err := os.Stat(path)
	require.NoError(t, err)
	want := time.Date(2015, time.October, 21, 7, 28, 0, 0, time.UTC)
	assert.True(t, info.ModTime().Equal(want), "mtime %v", info.ModTime())

	// No request against a fresh path carries a conditional header.
	assert.NotContains(t, s.request(t, 0), "if-modified-since:")
}

func TestMirrorThroughRedirect(t *testing.T) {
	s := newTestServer(t,
		"HTTP/1.1 301 Moved Permanently\r\nLocation: /real\r\nContent-Length: 24\r\n\r\n<html>moved here</html>\n",
		"HTTP/1.1 200 OK\r\nContent-Length: 5\r\n\r\nhello",
	)
	c := newTestClient(Options{})

	path := filepath.Join(t.TempDir(), "file.txt")
	res, err := c.Mirror(s.url("/file.txt"), path, nil)
	require.NoError(t, err)
	require.True(t, res.Success())

	// Only the final hop's payload lands in the file; the redirect
	// page does not.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestMirrorSendsIfModifiedSince(t *testing.T) {
	s := newTestServer(t, "HTTP/1.1 304 Not Modified\r\nContent-Length: 0\r\n\r\n")
	c := newTestClient(Options{})

	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("cached"), 0o644))
	mtime := time.Date(2020, time.March, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(path, mtime, mtime))

	res, err := c.Mirror(s.url("/file.txt"), path, nil)
	require.NoError(t, err)

	assert.Equal(t, 304, res.Status)
	assert.Contains(t, s.request(t, 0), "if-modified-since: Sun, 01 Mar 2020 12:00:00 GMT\r\n")

	// The cached copy is untouched and the temporary file is gone.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "cached", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestMirrorFailureLeavesNoTemp(t *testing.T) {
	s := newTestServer(t, "HTTP/1.1 404 Not Found\r\nContent-Length: 0\r\n\r\n")
	c := newTestClient(Options{})

	dir := t.TempDir()
	res, err := c.Mirror(s.url("/missing"), filepath.Join(dir, "file.txt"), nil)
	require.NoError(t, err)
	assert.Equal(t, 404, res.Status)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMirrorTransportFailure(t *testing.T) {
	c := newTestClient(Options{})

	dir := t.TempDir()
	res, err := c.Mirror("http://127.0.0.1:1/", filepath.Join(dir, "file.txt"), nil)
	require.NoError(t, err)
	assert.Equal(t, StatusInternalException, res.Status)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMirrorBadDirectory(t *testing.T) {
	c := newTestClient(Options{})

	_, err := c.Mirror("http://example.test/", "/nonexistent-dir/file.txt", nil)
	assert.Error(t, err)
}
