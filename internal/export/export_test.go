package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadscout/internal/model"
)

func sampleLeads() []model.RankedLead {
	return []model.RankedLead{
		{
			Candidate: model.Candidate{
				ID: "1", Name: "Jane Doe", Title: "CEO", Email: "jane@acme.io",
				Company: "Acme, Inc.", SourceURL: "https://acme.io/team",
			},
			QualityScore: 12,
			Insight:      "Recently raised a round.",
		},
		{
			Candidate:    model.Candidate{ID: "2", Name: "Bob Smith", Phone: "212-555-0101"},
			QualityScore: 5,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleLeads()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, "Jane Doe", records[1][0])
	assert.Equal(t, "Acme, Inc.", records[1][4], "commas survive quoting")
	assert.Equal(t, "12", records[1][8])
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleLeads()))

	var got []model.RankedLead
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "jane@acme.io", got[0].Email)
}

func TestSave(t *testing.T) {
	dir := t.TempDir()

	path, err := Save(dir, "csv", "Fleet Tracking SaaS!", sampleLeads())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSuffix(path, ".csv"), dir+"/fleet-tracking-saas"),
		"path was %s", path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "jane@acme.io")
}

func TestSave_UnknownFormat(t *testing.T) {
	_, err := Save(t.TempDir(), "xml", "seed", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}
