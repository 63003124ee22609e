package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/leadscout/internal/catalog"
)

func TestPrioritize_PriorityFirstOriginalOrder(t *testing.T) {
	urls := []string{
		"https://example.com/page",
		"https://acme.io/about",
		"https://other.org/info",
		"https://www.linkedin.com/company/acme",
	}

	out := Prioritize(urls, catalog.Default().PriorityDomains, 10)

	assert.Equal(t, "https://acme.io/about", out[0].URL)
	assert.Equal(t, "https://www.linkedin.com/company/acme", out[1].URL)
	assert.Equal(t, "https://example.com/page", out[2].URL)
	assert.Equal(t, "https://other.org/info", out[3].URL)
	assert.True(t, out[0].Priority)
	assert.True(t, out[1].Priority)
	assert.False(t, out[2].Priority)
	assert.False(t, out[3].Priority)
}

func TestPrioritize_Cap(t *testing.T) {
	var urls []string
	for i := 0; i < 8; i++ {
		urls = append(urls, "https://generic.org/page")
	}
	urls = append(urls, "https://acme.io/a", "https://acme.io/b", "https://acme.io/c", "https://acme.io/d")

	out := Prioritize(urls, []string{".io"}, 10)

	assert.Len(t, out, 10)
	// All four priority links survive the cap; generics fill the remainder.
	for i := 0; i < 4; i++ {
		assert.True(t, out[i].Priority)
	}
	for i := 4; i < 10; i++ {
		assert.False(t, out[i].Priority)
	}
}

func TestPrioritize_Empty(t *testing.T) {
	assert.Empty(t, Prioritize(nil, []string{".io"}, 10))
}

func TestMatchesAllowlist_PathFragments(t *testing.T) {
	allow := []string{"linkedin.com/company", ".io"}
	assert.True(t, matchesAllowlist("https://linkedin.com/company/acme", allow))
	assert.True(t, matchesAllowlist("https://www.linkedin.com/company/acme", allow))
	assert.True(t, matchesAllowlist("https://acme.io/team", allow))
	assert.False(t, matchesAllowlist("https://linkedin.com/in/jane", allow))
	assert.False(t, matchesAllowlist("://bad url", allow))
}

func TestMatchesAllowlist_TLDMatchesHostSuffixOnly(t *testing.T) {
	// A TLD fragment must close the hostname, not appear anywhere in it.
	assert.False(t, matchesAllowlist("https://example.com/page", []string{".co"}))
	assert.False(t, matchesAllowlist("https://nation.iowa.gov/page", []string{".io"}))
	assert.False(t, matchesAllowlist("https://acme.io.evil.org/page", []string{".io"}))
	assert.True(t, matchesAllowlist("https://acme.co/about", []string{".co"}))
	assert.True(t, matchesAllowlist("https://sub.acme.io/team", []string{".io"}))
}
