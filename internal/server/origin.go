// Package server enforces the origin allow-list for signaling handshakes.
package server

import (
	"log"
	"net/http"
	"net/url"
	"strings"
)

// originPolicy is the normalized allow-list the upgrader checks signaling
// handshakes against. It is rebuilt whenever the configuration changes and
// also feeds the CORS options for the plain HTTP surface, so both checks
// always agree on who may talk to the relay.
type originPolicy struct {
	allowAll bool
	allowed  map[string]struct{}
	ordered  []string
}

func newOriginPolicy(origins []string) originPolicy {
	policy := originPolicy{allowed: make(map[string]struct{}, len(origins))}

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		if trimmed == "*" {
			policy.allowAll = true
			continue
		}

		normalized, ok := normalizeOrigin(trimmed)
		if !ok {
			log.Printf("Ignoring invalid origin in configuration: %q", origin)
			continue
		}
		if _, dup := policy.allowed[normalized]; dup {
			continue
		}

		policy.allowed[normalized] = struct{}{}
		policy.ordered = append(policy.ordered, normalized)
	}

	return policy
}

// permits reports whether a handshake carrying originHeader may join a room.
// A missing or unparseable header is always refused.
func (p originPolicy) permits(originHeader string) bool {
	if originHeader == "" {
		return false
	}

	normalized, ok := normalizeOrigin(originHeader)
	if !ok {
		return false
	}

	if p.allowAll {
		return true
	}
	_, ok = p.allowed[normalized]
	return ok
}

// corsOrigins translates the policy into the origin list handed to rs/cors,
// which treats "*" as allow-all the same way the upgrader does.
func (p originPolicy) corsOrigins() []string {
	if p.allowAll {
		return []string{"*"}
	}
	return append([]string(nil), p.ordered...)
}

func normalizeOrigin(origin string) (string, bool) {
	parsed, err := url.Parse(origin)
	if err != nil {
		return "", false
	}

	if parsed.Scheme == "" || parsed.Host == "" {
		return "", false
	}

	return strings.ToLower(parsed.Scheme) + "://" + strings.ToLower(parsed.Host), true
}

func checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if currentOriginPolicy().permits(origin) {
		return true
	}

	log.Printf("Blocked signaling handshake from disallowed origin: %q", origin)
	return false
}
