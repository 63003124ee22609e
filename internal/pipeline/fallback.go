package pipeline

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"

	"github.com/sells-group/leadscout/internal/model"
	"github.com/sells-group/leadscout/internal/rank"
)

// Synthesized lead vocabulary. Names and companies are fabricated; every
// lead carries the fallback source marker so consumers can tell.
var (
	fallbackFirstNames = []string{
		"Sarah", "Michael", "Jennifer", "David", "Lisa",
		"Robert", "Emily", "James", "Maria", "John",
	}
	fallbackLastNames = []string{
		"Johnson", "Chen", "Williams", "Rodriguez", "Thompson",
		"Kim", "Davis", "Martinez", "Anderson", "Taylor",
	}
	fallbackCompanies = []string{
		"TechFlow Solutions", "Innovate Labs", "DataBridge Systems",
		"CloudPeak Software", "NextGen Dynamics", "BrightPath Consulting",
		"CoreStack Technologies", "BlueSky Ventures",
	}
	fallbackTitles = []string{
		"CEO", "VP of Operations", "Director of Marketing",
		"Head of Sales", "CTO", "Founder",
	}
	fallbackInsights = []string{
		"Recently expanded their %s offerings.",
		"Actively evaluating vendors in the %s space.",
		"Posted about %s challenges on their blog.",
		"Growing team suggests budget for %s tooling.",
	}
)

// SynthesizeLeads fabricates n placeholder leads themed around the seed
// term. Output is scored and tagged exactly like scraped leads, with the
// fallback source marker.
func SynthesizeLeads(seed string, n int) []model.RankedLead {
	leads := make([]model.RankedLead, 0, n)
	for i := 0; i < n; i++ {
		// The last-name index shifts by one each time the first names wrap,
		// so every (first, last) pair is distinct for n up to the product of
		// the two list lengths.
		first := fallbackFirstNames[i%len(fallbackFirstNames)]
		last := fallbackLastNames[(i+i/len(fallbackFirstNames))%len(fallbackLastNames)]
		company := fallbackCompanies[i%len(fallbackCompanies)]
		title := fallbackTitles[i%len(fallbackTitles)]
		domain := companyDomain(company)

		c := model.Candidate{
			ID:          uuid.New().String(),
			Name:        first + " " + last,
			Title:       title,
			Email:       strings.ToLower(first + "." + last + "@" + domain),
			Phone:       fmt.Sprintf("555-%03d-%04d", rand.IntN(1000), rand.IntN(10000)),
			Company:     company,
			LinkedInURL: fmt.Sprintf("https://linkedin.com/in/%s-%s", strings.ToLower(first), strings.ToLower(last)),
			WebsiteURL:  "https://" + domain,
			SourceURL:   model.SourceFallback,
		}

		leads = append(leads, model.RankedLead{
			Candidate:    c,
			QualityScore: rank.Score(c),
			Insight:      fmt.Sprintf(fallbackInsights[i%len(fallbackInsights)], seed),
		})
	}
	return leads
}

func companyDomain(company string) string {
	return strings.ToLower(strings.ReplaceAll(company, " ", "")) + ".com"
}
