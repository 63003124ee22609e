// Package export writes ranked leads to flat files for downstream CRM
// import.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadscout/internal/model"
)

var csvHeader = []string{
	"name", "title", "email", "phone", "company",
	"linkedin_url", "website_url", "source_url", "quality_score", "insight",
}

// WriteCSV writes leads as CSV with a header row.
func WriteCSV(w io.Writer, leads []model.RankedLead) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}
	for _, lead := range leads {
		record := []string{
			lead.Name, lead.Title, lead.Email, lead.Phone, lead.Company,
			lead.LinkedInURL, lead.WebsiteURL, lead.SourceURL,
			strconv.Itoa(lead.QualityScore), lead.Insight,
		}
		if err := cw.Write(record); err != nil {
			return eris.Wrap(err, "export: write csv record")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}

// WriteJSON writes leads as an indented JSON array.
func WriteJSON(w io.Writer, leads []model.RankedLead) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(leads), "export: write json")
}

// Save writes leads to dir in the given format ("csv" or "json") and returns
// the created file's path. The filename embeds the seed and a timestamp.
func Save(dir, format, seed string, leads []model.RankedLead) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", eris.Wrapf(err, "export: create dir %s", dir)
	}

	path := filepath.Join(dir, fileName(seed, format))
	f, err := os.Create(path)
	if err != nil {
		return "", eris.Wrapf(err, "export: create %s", path)
	}
	defer f.Close()

	switch format {
	case "csv":
		err = WriteCSV(f, leads)
	case "json":
		err = WriteJSON(f, leads)
	default:
		return "", eris.Errorf("export: unknown format %q", format)
	}
	if err != nil {
		return "", err
	}
	return path, nil
}

func fileName(seed, format string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, seed)
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "leads"
	}
	return fmt.Sprintf("%s-%s.%s", slug, time.Now().Format("20060102-150405"), format)
}
