package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"github.com/sells-group/leadscout/internal/catalog"
	"github.com/sells-group/leadscout/internal/model"
)

// maxPersonBlockChars bounds the text length of a block treated as a single
// person's card; anything longer is a wrapper around several cards.
const maxPersonBlockChars = 500

// minPeopleBeforeTopUp is the threshold below which standalone profile links
// are promoted to candidates of their own.
const minPeopleBeforeTopUp = 3

// fullNameRe matches two to four capitalized words, the usual shape of a
// western display name on a team page.
var fullNameRe = regexp.MustCompile(`[A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,3}`)

// titlePhraseRe matches a capitalized job-title-looking phrase, used when no
// catalog title appears in a block.
var titlePhraseRe = regexp.MustCompile(`(?:[A-Z][a-z]+\s+){0,3}(?:Manager|Director|Lead|Head|Officer|Engineer|Designer|Consultant|Advisor|Specialist|Strategist)`)

// capWordRe grabs the department word following an "of"-suffixed title.
var capWordRe = regexp.MustCompile(`^\s+[A-Z][A-Za-z&]+`)

// titleRegexp builds a matcher for the catalog's executive titles, allowing
// an "of Marketing" style suffix.
func titleRegexp(cat *catalog.Catalog) *regexp.Regexp {
	quoted := make([]string, 0, len(cat.ExecutiveTitles))
	for _, t := range cat.ExecutiveTitles {
		quoted = append(quoted, regexp.QuoteMeta(t))
	}
	return regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b(\s+of\s+[A-Z][A-Za-z&\s]{1,30})?`)
}

// People walks team-page sections and assembles one candidate per person
// block. Contact details are only attached when they appear inside the same
// block; page-wide emails and phones stay with the page-level fallbacks.
func (e *Extractor) People(d *Document, company string, profiles []Profile) []model.Candidate {
	titleRe := titleRegexp(e.cat)

	var people []model.Candidate
	seenNames := make(map[string]bool)

	for _, section := range teamSections(d, e.cat) {
		section.Find("div, article, section, li").Each(func(_ int, block *goquery.Selection) {
			text := strings.TrimSpace(block.Text())
			if len(text) == 0 || len(text) > maxPersonBlockChars {
				return
			}
			if !blockHasPersonSignal(block, text, titleRe) {
				return
			}

			name := blockName(block, text)
			if name == "" || seenNames[strings.ToLower(name)] {
				return
			}

			c := model.Candidate{
				ID:         uuid.New().String(),
				Name:       name,
				Title:      blockTitle(text, name, titleRe),
				Company:    company,
				WebsiteURL: d.URL,
				SourceURL:  d.URL,
			}
			if m := emailRe.FindString(text); m != "" && e.emails.Valid(m) {
				c.Email = strings.ToLower(m)
			}
			if m := intlPhoneRe.FindString(text); hasMinPhoneDigits(m) {
				c.Phone = m
			} else if m := usPhoneRe.FindString(text); hasMinPhoneDigits(m) {
				c.Phone = m
			}
			if href, ok := block.Find(`a[href*="linkedin.com/in/"]`).First().Attr("href"); ok {
				c.LinkedInURL = strings.TrimSpace(href)
			}

			seenNames[strings.ToLower(name)] = true
			people = append(people, c)
		})
	}

	// Thin team pages often carry bare profile links outside any card
	// markup; promote those when the section walk came up short.
	if len(people) < minPeopleBeforeTopUp {
		for _, p := range profiles {
			if p.Name == "" || seenNames[strings.ToLower(p.Name)] {
				continue
			}
			seenNames[strings.ToLower(p.Name)] = true
			people = append(people, model.Candidate{
				ID:          uuid.New().String(),
				Name:        p.Name,
				Company:     company,
				LinkedInURL: p.URL,
				WebsiteURL:  d.URL,
				SourceURL:   d.URL,
			})
		}
	}

	return people
}

// teamSections returns the containers likely to hold person cards: elements
// whose class or id mentions a team term, and elements introduced by a
// heading that does.
func teamSections(d *Document, cat *catalog.Catalog) []*goquery.Selection {
	var sections []*goquery.Selection

	d.doc.Find("section, div, main").Each(func(_ int, sel *goquery.Selection) {
		class, _ := sel.Attr("class")
		id, _ := sel.Attr("id")
		marker := strings.ToLower(class + " " + id)
		for _, term := range cat.TeamSectionTerms {
			if strings.Contains(marker, strings.ReplaceAll(term, " ", "-")) ||
				strings.Contains(marker, strings.ReplaceAll(term, " ", "")) {
				sections = append(sections, sel)
				return
			}
		}
	})

	d.doc.Find("h1, h2, h3, h4").Each(func(_ int, heading *goquery.Selection) {
		text := strings.ToLower(heading.Text())
		for _, term := range cat.TeamSectionTerms {
			if strings.Contains(text, term) {
				if parent := heading.Parent(); parent.Length() > 0 {
					sections = append(sections, parent)
				}
				return
			}
		}
	})

	if len(sections) == 0 {
		// No structure to anchor on; scan the whole body.
		if body := d.doc.Find("body"); body.Length() > 0 {
			sections = append(sections, body)
		}
	}
	return sections
}

// blockHasPersonSignal reports whether a block looks like it describes one
// person rather than generic page copy.
func blockHasPersonSignal(block *goquery.Selection, text string, titleRe *regexp.Regexp) bool {
	if titleRe.MatchString(text) {
		return true
	}
	if emailRe.MatchString(text) {
		return true
	}
	return block.Find(`a[href*="linkedin.com/in/"]`).Length() > 0
}

// blockName prefers an explicit heading inside the block over a regex guess
// against its text.
func blockName(block *goquery.Selection, text string) string {
	name := strings.TrimSpace(block.Find("h1, h2, h3, h4, h5, h6, strong, b").First().Text())
	if name != "" && len(name) < 50 && fullNameRe.MatchString(name) {
		return fullNameRe.FindString(name)
	}
	return fullNameRe.FindString(text)
}

// blockTitle finds the person's role: a catalog executive title when present,
// otherwise a title-shaped phrase near the name.
func blockTitle(text, name string, titleRe *regexp.Regexp) string {
	if loc := titleRe.FindStringIndex(text); loc != nil {
		title := strings.Join(strings.Fields(text[loc[0]:loc[1]]), " ")
		// "VP of", "Head of" and friends want the department that follows.
		if strings.HasSuffix(strings.ToLower(title), " of") {
			if w := capWordRe.FindString(text[loc[1]:]); w != "" {
				title += " " + strings.TrimSpace(w)
			}
		}
		return title
	}

	// Look just after the name, where cards usually put the role line.
	if idx := strings.Index(text, name); idx >= 0 {
		after := text[idx+len(name):]
		if len(after) > 120 {
			after = after[:120]
		}
		if m := titlePhraseRe.FindString(after); m != "" {
			return strings.TrimSpace(m)
		}
	}
	return ""
}
