package proxy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewProxySupplierEmpty(t *testing.T) {
	supplier := NewProxySupplier(context.Background(), nil, "https://www.bigbasket.com/", nil)
	require.Equal(t, 0, supplier.Len())
	require.Equal(t, "", supplier.Get())
}

func TestNewProxySupplierKeepsWorkingProxies(t *testing.T) {
	check := func(ctx context.Context, proxyURL, testURL string) bool {
		return !strings.Contains(proxyURL, "dead")
	}

	supplier := NewProxySupplier(context.Background(), []string{
		"10.0.0.1:3128",
		"http://dead.example:3128",
		"socks5://10.0.0.2:1080",
	}, "https://www.bigbasket.com/", check)

	require.Equal(t, 2, supplier.Len())
	require.Equal(t, "http://10.0.0.1:3128", supplier.Get())
	require.Equal(t, "socks5://10.0.0.2:1080", supplier.Get())
	require.Equal(t, "http://10.0.0.1:3128", supplier.Get())
}

func TestIsProxyValid(t *testing.T) {
	// A plain HTTP server accepts absolute-form requests, so it works as a forward proxy for http URLs
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Host == "blocked.test" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer proxy.Close()

	require.True(t, isProxyValid(context.Background(), proxy.URL, "http://target.test/"))
	require.False(t, isProxyValid(context.Background(), proxy.URL, "http://blocked.test/"))
	require.False(t, isProxyValid(context.Background(), "http://127.0.0.1:1", "http://target.test/"))
}
