package report

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var slugUnsafeRe = regexp.MustCompile(`[^a-z0-9]+`)

// slug folds a free-text value into a filename-safe token: accents stripped,
// lowercased, every run of unsafe characters collapsed to one hyphen.
func slug(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)
	folded = slugUnsafeRe.ReplaceAllString(folded, "-")
	return strings.Trim(folded, "-")
}

// ExportFilename builds the download name for a generated document:
// brand, report type, project slug and ISO date joined by underscores.
func ExportFilename(brand, reportType, project string, now time.Time) string {
	projectSlug := slug(project)
	if projectSlug == "" {
		projectSlug = "report"
	}
	return fmt.Sprintf("%s_%s_%s_%s.pdf",
		slug(brand), slug(reportType), projectSlug, now.Format("2006-01-02"))
}
