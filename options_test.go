package httptiny

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsSetDefault(t *testing.T) {
	var opts Options
	opts.setDefault()

	assert.Equal(t, "httptiny/"+Version, opts.Agent)
	assert.NotNil(t, opts.DefaultHeaders)
	assert.Equal(t, defaultMaxRedirect, opts.MaxRedirect)
	assert.Equal(t, 60*time.Second, opts.Timeout)
	assert.Zero(t, opts.MaxSize)
	assert.False(t, opts.VerifySSL)
}

func TestOptionsSetDefaultKeepsExplicit(t *testing.T) {
	opts := Options{
		Agent:       "me/2.0",
		MaxRedirect: -1,
		Timeout:     time.Second,
	}
	opts.setDefault()

	assert.Equal(t, "me/2.0", opts.Agent)
	assert.Equal(t, -1, opts.MaxRedirect)
	assert.Equal(t, time.Second, opts.Timeout)
}

func TestProxyFromEnv(t *testing.T) {
	t.Setenv("http_proxy", "http://lower.test:8080")
	t.Setenv("HTTP_PROXY", "http://upper.test:8080")
	assert.Equal(t, "http://lower.test:8080", proxyFromEnv())

	t.Setenv("http_proxy", "")
	assert.Equal(t, "http://upper.test:8080", proxyFromEnv())

	t.Setenv("HTTP_PROXY", "")
	assert.Equal(t, "", proxyFromEnv())
}

func TestNewResolvesProxyFromEnv(t *testing.T) {
	t.Setenv("http_proxy", "http://proxy.test:3128")

	c := New(nil, nil, Options{})
	require.NotNil(t, c.proxy)
	assert.Equal(t, "proxy.test:3128", c.proxy.HostPort())
}

func TestNewDisableProxyIgnoresEnv(t *testing.T) {
	t.Setenv("http_proxy", "http://proxy.test:3128")

	c := New(nil, nil, Options{DisableProxy: true})
	assert.Nil(t, c.proxy)
}

func TestNewExplicitProxyWins(t *testing.T) {
	t.Setenv("http_proxy", "http://env.test:3128")

	c := New(nil, nil, Options{Proxy: "http://explicit.test:8080"})
	require.NotNil(t, c.proxy)
	assert.Equal(t, "explicit.test:8080", c.proxy.HostPort())
}

func TestInvalidProxySurfacesPerRequest(t *testing.T) {
	c := New(nil, nil, Options{Proxy: "not a proxy url"})

	res := c.Get("http://example.test/", nil)
	assert.Equal(t, StatusInternalException, res.Status)
	assert.Contains(t, string(res.Content), "invalid proxy url")
}

func TestInvalidCAFileSurfacesPerRequest(t *testing.T) {
	c := New(nil, nil, Options{
		DisableProxy: true,
		VerifySSL:    true,
		CAFile:       "/nonexistent/bundle.pem",
	})

	res := c.Get("https://example.test/", nil)
	assert.Equal(t, StatusInternalException, res.Status)
	assert.Contains(t, string(res.Content), "CA bundle")
}
