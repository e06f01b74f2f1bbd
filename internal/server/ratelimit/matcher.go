package ratelimit

import (
	"strings"
)

// MatchEndpoint resolves the rate rule for a request. Health probes are
// never limited. Config paths are compared segment by segment and may name
// wildcard segments in braces (e.g. "/runs/{id}"), matching the mux
// patterns the server registers. Returns nil when no rule applies, which
// sends the request to the default bucket.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" && method == "GET" {
		return &EndpointConfig{} // zero limit means unlimited
	}

	segments := splitPath(path)
	for i := range configs {
		config := &configs[i]
		if config.Method != method {
			continue
		}
		if pathMatches(splitPath(config.Path), segments) {
			return config
		}
	}

	return nil
}

func splitPath(p string) []string {
	return strings.Split(strings.Trim(p, "/"), "/")
}

// pathMatches reports whether a request path fits a config pattern. A
// "{...}" pattern segment matches any single non-empty segment.
func pathMatches(pattern, segments []string) bool {
	if len(pattern) != len(segments) {
		return false
	}
	for i, part := range pattern {
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			if segments[i] == "" {
				return false
			}
			continue
		}
		if part != segments[i] {
			return false
		}
	}
	return true
}
