package ratelimit

import (
	"strings"
)

// MatchEndpoint matches a request path and method to an endpoint configuration.
// Exact paths win over prefixes; a config path ending in "/" matches every
// path below it. An empty Method matches any method. Returns nil when nothing
// matches.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	for i := range configs {
		config := &configs[i]
		if config.Path == path && config.matchesMethod(method) {
			return config
		}
	}

	for i := range configs {
		config := &configs[i]
		if config.isPrefix() && strings.HasPrefix(path, config.Path) && config.matchesMethod(method) {
			return config
		}
	}

	return nil
}

func (c *EndpointConfig) matchesMethod(method string) bool {
	return c.Method == "" || c.Method == method
}

func (c *EndpointConfig) isPrefix() bool {
	return strings.HasSuffix(c.Path, "/")
}

// key identifies the bucket a request path falls in.
func (c *EndpointConfig) key(path string) string {
	if c.Path == "" {
		return path
	}
	return c.Path
}
