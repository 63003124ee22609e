package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	assert.Contains(t, c.ExecutiveTitles, "CEO")
	assert.Contains(t, c.GenericPrefixes, "info")
	assert.Contains(t, c.PersonalDomains, "gmail.com")
	assert.Contains(t, c.PriorityDomains, "linkedin.com/company")
	assert.Len(t, c.BusinessSuffixes, 4)
	assert.Len(t, c.ContactSuffixes, 3)
}

func TestLoad_Overlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	err := os.WriteFile(path, []byte("personal_domains:\n  - example.com\n"), 0o644)
	require.NoError(t, err)

	c, err := Load(path)
	require.NoError(t, err)

	// Overridden list is replaced wholesale.
	assert.Equal(t, []string{"example.com"}, c.PersonalDomains)
	// Untouched lists keep their defaults.
	assert.Contains(t, c.ExecutiveTitles, "Founder")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
