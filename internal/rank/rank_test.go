package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadscout/internal/model"
)

func TestClean(t *testing.T) {
	c := model.Candidate{
		Name:    "  Dr. Jane Doe ",
		Title:   "  Chief   Executive  Officer ",
		Email:   " Jane.Doe@ACME.IO ",
		Phone:   "(212) 555-0199",
		Company: " Acme ",
	}
	Clean(&c)

	assert.Equal(t, "Jane Doe", c.Name)
	assert.Equal(t, "Chief Executive Officer", c.Title)
	assert.Equal(t, "jane.doe@acme.io", c.Email)
	assert.Equal(t, "212-555-0199", c.Phone)
	assert.Equal(t, "Acme", c.Company)
}

func TestCleanPhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"(212) 555-0199", "212-555-0199"},
		{"+1 212 555 0199", "212-555-0199"},
		{"+44 20 7946 0958", "442079460958"},
		{"555-123", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanPhone(tt.in), tt.in)
	}
}

func TestDedupe_EmailWinsOverOtherKeys(t *testing.T) {
	candidates := []model.Candidate{
		{Name: "Jane Doe", Email: "jane@acme.io", Company: "Acme"},
		{Name: "Jane D.", Email: "jane@acme.io", Company: "Acme Inc"},
		{Name: "Bob Smith", LinkedInURL: "https://linkedin.com/in/bob-smith", Company: "Acme"},
		{Name: "Robert Smith", LinkedInURL: "https://linkedin.com/in/bob-smith/", Company: "Acme"},
		{Name: "Carol White", Company: "Acme", Phone: "212-555-0101"},
		{Name: "carol white", Company: "acme", Phone: "212-555-0102"},
	}

	out := Dedupe(candidates)

	require.Len(t, out, 3)
	// First occurrence wins in every bucket.
	assert.Equal(t, "Jane Doe", out[0].Name)
	assert.Equal(t, "Bob Smith", out[1].Name)
	assert.Equal(t, "212-555-0101", out[2].Phone)
}

func TestDedupe_Idempotent(t *testing.T) {
	candidates := []model.Candidate{
		{Name: "Jane Doe", Email: "jane@acme.io"},
		{Name: "Bob Smith", LinkedInURL: "https://linkedin.com/in/bob-smith"},
	}
	once := Dedupe(candidates)
	twice := Dedupe(once)
	assert.Equal(t, once, twice)
}

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		c    model.Candidate
		want int
	}{
		{"all fields", model.Candidate{Email: "a@b.io", Phone: "212-555-0101", LinkedInURL: "x", Title: "CEO"}, 20},
		{"email only", model.Candidate{Email: "a@b.io"}, 10},
		{"phone only", model.Candidate{Phone: "212-555-0101"}, 5},
		{"profile only", model.Candidate{LinkedInURL: "x"}, 3},
		{"title alone", model.Candidate{Title: "CEO"}, 2},
		{"nothing", model.Candidate{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.c))
		})
	}
}

func TestRank_OrderAndTruncate(t *testing.T) {
	candidates := []model.Candidate{
		{Name: "Profile Only", LinkedInURL: "https://linkedin.com/in/p"},
		{Name: "Email And Phone", Email: "a@acme.io", Phone: "212-555-0101"},
		{Name: "Email Only", Email: "b@acme.io"},
		{Name: "Phone Only", Phone: "212-555-0102"},
	}

	leads := Rank(candidates, 3)

	require.Len(t, leads, 3)
	assert.Equal(t, "Email And Phone", leads[0].Name)
	assert.Equal(t, 15, leads[0].QualityScore)
	assert.Equal(t, "Email Only", leads[1].Name)
	assert.Equal(t, "Phone Only", leads[2].Name)

	for i := 1; i < len(leads); i++ {
		assert.GreaterOrEqual(t, leads[i-1].QualityScore, leads[i].QualityScore)
	}
}

func TestRank_StableForEqualScores(t *testing.T) {
	candidates := []model.Candidate{
		{Name: "First Found", Email: "first@acme.io"},
		{Name: "Second Found", Email: "second@acme.io"},
	}
	leads := Rank(candidates, 0)
	require.Len(t, leads, 2)
	assert.Equal(t, "First Found", leads[0].Name)
	assert.Equal(t, "Second Found", leads[1].Name)
}

func TestRank_DropsLeadsWhoseOnlyContactDiesInCleaning(t *testing.T) {
	candidates := []model.Candidate{
		// The junk phone is this candidate's only contact point; cleaning
		// erases it and the lead must not surface on title score alone.
		{Name: "Jane Doe", Title: "CEO", Phone: "+1 2 3 4"},
		{Name: "Bob Smith", Email: "bob@acme.io"},
	}

	leads := Rank(candidates, 10)

	require.Len(t, leads, 1)
	assert.Equal(t, "Bob Smith", leads[0].Name)
	for _, lead := range leads {
		assert.True(t, lead.HasContactPoint())
	}
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	candidates := []model.Candidate{{Name: "Dr. Jane Doe", Email: "JANE@ACME.IO"}}
	_ = Rank(candidates, 0)
	assert.Equal(t, "Dr. Jane Doe", candidates[0].Name)
	assert.Equal(t, "JANE@ACME.IO", candidates[0].Email)
}
