package fetch

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func proxyFor(t *testing.T, fn func(*http.Request) (*url.URL, error), target string) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	u, err := fn(req)
	if err != nil {
		t.Fatalf("proxy func: %v", err)
	}
	if u == nil {
		return ""
	}
	return u.String()
}

func TestNewProxyFunc_SchemeSelection(t *testing.T) {
	fn := newProxyFunc("http://proxy.test:3128", "http://sproxy.test:3128", "")

	if got := proxyFor(t, fn, "http://a.test/doc"); got != "http://proxy.test:3128" {
		t.Errorf("http proxy = %q", got)
	}
	if got := proxyFor(t, fn, "https://a.test/doc"); got != "http://sproxy.test:3128" {
		t.Errorf("https proxy = %q", got)
	}
}

func TestNewProxyFunc_NoProxyBypass(t *testing.T) {
	fn := newProxyFunc("http://proxy.test:3128", "", "internal.test, .corp.test")

	cases := []struct {
		target string
		bypass bool
	}{
		{"http://internal.test/doc", true},
		{"http://internal.test:8080/doc", true},
		{"http://api.corp.test/doc", true},
		{"http://external.test/doc", false},
		{"http://notinternal.test/doc", false},
	}
	for _, tc := range cases {
		got := proxyFor(t, fn, tc.target)
		if tc.bypass && got != "" {
			t.Errorf("%s: expected bypass, got proxy %q", tc.target, got)
		}
		if !tc.bypass && got == "" {
			t.Errorf("%s: expected proxy, got bypass", tc.target)
		}
	}
}

func TestNewProxyFunc_WildcardBypassesAll(t *testing.T) {
	fn := newProxyFunc("http://proxy.test:3128", "", "*")
	if got := proxyFor(t, fn, "http://anything.test/doc"); got != "" {
		t.Errorf("wildcard: expected bypass, got %q", got)
	}
}
