package server

import "testing"

// TestOriginPolicyNormalizesAllowList verifies that configured origins are
// normalized, deduplicated, and that invalid entries are dropped.
func TestOriginPolicyNormalizesAllowList(t *testing.T) {
	policy := newOriginPolicy([]string{
		"HTTP://Example.COM:8080",
		"http://example.com:8080",
		"   ",
		"not a url",
		"https://relay.example.net",
	})

	if !policy.permits("http://example.com:8080") {
		t.Error("Expected normalized origin to be permitted")
	}
	if !policy.permits("HTTPS://RELAY.EXAMPLE.NET") {
		t.Error("Expected case-insensitive match to be permitted")
	}
	if policy.permits("http://other.example.org") {
		t.Error("Expected unlisted origin to be refused")
	}

	got := policy.corsOrigins()
	if len(got) != 2 {
		t.Errorf("Expected 2 CORS origins after dedup, got %v", got)
	}
}

// TestOriginPolicyWildcard verifies that "*" permits every parseable origin
// and surfaces as a wildcard to the CORS layer.
func TestOriginPolicyWildcard(t *testing.T) {
	policy := newOriginPolicy([]string{"*", "http://example.com"})

	if !policy.permits("http://anywhere.example.io") {
		t.Error("Expected wildcard policy to permit any origin")
	}

	got := policy.corsOrigins()
	if len(got) != 1 || got[0] != "*" {
		t.Errorf("Expected wildcard CORS origins, got %v", got)
	}
}

// TestOriginPolicyRefusesMissingOrMalformedHeader verifies that handshakes
// without a usable Origin header are always refused, even under a wildcard.
func TestOriginPolicyRefusesMissingOrMalformedHeader(t *testing.T) {
	policy := newOriginPolicy([]string{"*"})

	if policy.permits("") {
		t.Error("Expected empty origin header to be refused")
	}
	if policy.permits("://bad") {
		t.Error("Expected malformed origin header to be refused")
	}
}
