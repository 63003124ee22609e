package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	// +44 20 7946 0958, +1-555-123-4567
	intlPhoneRe = regexp.MustCompile(`\+\d{1,3}[-.\s]?\d{1,4}[-.\s]?\d{1,4}[-.\s]?\d{1,9}`)
	// (555) 123-4567, 555.123.4567
	usPhoneRe = regexp.MustCompile(`\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)

	phoneDigitRe = regexp.MustCompile(`\d`)
)

// minPhoneDigits is the noise floor: regex matches carrying fewer digits are
// dates, prices, or fragments, not phone numbers.
const minPhoneDigits = 7

func hasMinPhoneDigits(s string) bool {
	return len(phoneDigitRe.FindAllString(s, -1)) >= minPhoneDigits
}

// Phones collects phone numbers from tel links and visible text. Matches with
// fewer than seven digits are noise (dates, prices) and are dropped.
func Phones(d *Document) []string {
	var phones []string
	seen := make(map[string]bool)
	add := func(raw string) {
		phone := strings.TrimSpace(raw)
		if phone == "" {
			return
		}
		digits := strings.Join(phoneDigitRe.FindAllString(phone, -1), "")
		if len(digits) < minPhoneDigits || seen[digits] {
			return
		}
		seen[digits] = true
		phones = append(phones, phone)
	}

	d.doc.Find(`a[href^="tel:"]`).Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		add(strings.TrimPrefix(href, "tel:"))
	})

	for _, m := range intlPhoneRe.FindAllString(d.text, -1) {
		add(m)
	}
	for _, m := range usPhoneRe.FindAllString(d.text, -1) {
		add(m)
	}

	return phones
}
