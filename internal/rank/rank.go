// Package rank turns raw extraction candidates into the final ordered lead
// list: field normalization, duplicate collapse, quality scoring, and a
// stable sort.
package rank

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/sells-group/leadscout/internal/model"
)

// Score weights. An email is worth two phones; a profile link alone still
// clears zero so profile-only candidates survive ranking.
const (
	scoreEmail    = 10
	scorePhone    = 5
	scoreLinkedIn = 3
	scoreTitle    = 2
)

var (
	honorificRe = regexp.MustCompile(`^(?i)(mr|mrs|ms|dr|prof)\.?\s+`)
	digitRe     = regexp.MustCompile(`\d`)
)

// Clean normalizes a candidate's fields in place: honorifics stripped from
// the name, email lowercased, phone reduced to a canonical form.
func Clean(c *model.Candidate) {
	c.Name = strings.TrimSpace(honorificRe.ReplaceAllString(strings.TrimSpace(c.Name), ""))
	c.Title = strings.Join(strings.Fields(c.Title), " ")
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Company = strings.TrimSpace(c.Company)
	c.Phone = cleanPhone(c.Phone)
}

// cleanPhone keeps only digits and reformats ten-digit numbers as
// XXX-XXX-XXXX. Numbers with under seven digits are discarded.
func cleanPhone(phone string) string {
	digits := strings.Join(digitRe.FindAllString(phone, -1), "")
	if len(digits) < 7 {
		return ""
	}
	if len(digits) == 10 {
		return fmt.Sprintf("%s-%s-%s", digits[:3], digits[3:6], digits[6:])
	}
	if len(digits) == 11 && digits[0] == '1' {
		return fmt.Sprintf("%s-%s-%s", digits[1:4], digits[4:7], digits[7:])
	}
	return digits
}

// Dedupe collapses duplicate candidates, first occurrence winning. Identity
// is decided by the strongest available key: email, then profile URL, then
// the (name, company) pair.
func Dedupe(candidates []model.Candidate) []model.Candidate {
	seen := make(map[string]bool, len(candidates))
	out := make([]model.Candidate, 0, len(candidates))

	for _, c := range candidates {
		key := dedupeKey(c)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

func dedupeKey(c model.Candidate) string {
	if c.Email != "" {
		return "email:" + strings.ToLower(c.Email)
	}
	if c.LinkedInURL != "" {
		return "profile:" + strings.ToLower(strings.TrimRight(c.LinkedInURL, "/"))
	}
	if c.Name != "" {
		return "name:" + strings.ToLower(c.Name) + "|" + strings.ToLower(c.Company)
	}
	return ""
}

// Score computes a candidate's quality score from the contact fields it
// carries.
func Score(c model.Candidate) int {
	score := 0
	if c.Email != "" {
		score += scoreEmail
	}
	if c.Phone != "" {
		score += scorePhone
	}
	if c.LinkedInURL != "" {
		score += scoreLinkedIn
	}
	if c.Title != "" {
		score += scoreTitle
	}
	return score
}

// Rank cleans, dedupes, scores, and orders candidates, returning at most max
// leads. The sort is stable so equal-score candidates keep discovery order.
// Cleaning can erase a candidate's only contact point (a junk phone number),
// so the contact-point invariant is re-checked here, not just at extraction.
func Rank(candidates []model.Candidate, max int) []model.RankedLead {
	cleaned := make([]model.Candidate, 0, len(candidates))
	for _, c := range candidates {
		Clean(&c)
		if c.HasContactPoint() {
			cleaned = append(cleaned, c)
		}
	}

	deduped := Dedupe(cleaned)

	leads := make([]model.RankedLead, 0, len(deduped))
	for _, c := range deduped {
		leads = append(leads, model.RankedLead{
			Candidate:    c,
			QualityScore: Score(c),
		})
	}

	sort.SliceStable(leads, func(i, j int) bool {
		return leads[i].QualityScore > leads[j].QualityScore
	})

	if max > 0 && len(leads) > max {
		leads = leads[:max]
	}
	return leads
}
