package fetch

import (
	"net"
	"net/http"
	"net/url"
	"strings"
)

// newProxyFunc builds a proxy selector from explicit configuration, falling
// back to the standard environment variables when none is given. Hosts
// matching noProxy (comma-separated names or suffixes, "*" for all) bypass
// the configured proxies.
func newProxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	skips := parseNoProxy(noProxy)

	return func(req *http.Request) (*url.URL, error) {
		if bypassProxy(req.URL.Host, skips) {
			return nil, nil
		}
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}

func parseNoProxy(noProxy string) []string {
	var skips []string
	for _, entry := range strings.Split(noProxy, ",") {
		entry = strings.ToLower(strings.TrimSpace(entry))
		if entry != "" {
			skips = append(skips, entry)
		}
	}
	return skips
}

func bypassProxy(host string, skips []string) bool {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.ToLower(host)

	for _, skip := range skips {
		if skip == "*" || host == skip {
			return true
		}
		if strings.HasSuffix(host, "."+strings.TrimPrefix(skip, ".")) {
			return true
		}
	}
	return false
}
