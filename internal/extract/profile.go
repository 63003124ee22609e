package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Profile is a personal LinkedIn link found on a page, with whatever display
// name could be recovered from its surroundings.
type Profile struct {
	URL  string
	ID   string
	Name string
}

// linkNoise is trimmed from anchor text before it is taken as a person's name.
var linkNoise = []string{"LinkedIn", "Profile", "View", "Connect", "Follow"}

// Profiles collects personal profile links ("/in/" paths only; company pages
// are handled by the search allowlist, not here).
func Profiles(d *Document) []Profile {
	var profiles []Profile
	seen := make(map[string]bool)

	d.doc.Find(`a[href*="linkedin.com/in/"]`).Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		id := profileID(href)
		if id == "" || seen[id] {
			return
		}
		seen[id] = true

		profiles = append(profiles, Profile{
			URL:  href,
			ID:   id,
			Name: profileName(sel),
		})
	})

	return profiles
}

// profileID returns the path segment after "/in/", stripped of any query.
func profileID(href string) string {
	_, after, found := strings.Cut(href, "/in/")
	if !found {
		return ""
	}
	id, _, _ := strings.Cut(after, "?")
	id = strings.Trim(id, "/")
	if slash := strings.IndexByte(id, '/'); slash >= 0 {
		id = id[:slash]
	}
	return id
}

// profileName recovers a display name from the anchor text, falling back to
// the parent element's text when the anchor is an icon or a bare URL.
func profileName(sel *goquery.Selection) string {
	if name := cleanLinkText(sel.Text()); name != "" {
		return name
	}
	parent := strings.TrimSpace(sel.Parent().Text())
	if len(parent) > 0 && len(parent) < 50 {
		return cleanLinkText(parent)
	}
	return ""
}

func cleanLinkText(text string) string {
	for _, noise := range linkNoise {
		text = strings.ReplaceAll(text, noise, "")
	}
	text = strings.Join(strings.Fields(text), " ")
	if strings.HasPrefix(text, "http") || strings.Contains(text, "linkedin.com") {
		return ""
	}
	return text
}
