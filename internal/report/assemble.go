// Package report implements the document rendering pipeline: page assembly,
// paginated PDF building and the export orchestrators.
package report

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/fieldproof/fieldproof/internal/config"
	"github.com/fieldproof/fieldproof/internal/model"
	"github.com/fieldproof/fieldproof/internal/report/assets"
	"github.com/fieldproof/fieldproof/internal/sanitize"
)

// AssembledDocument is a self-contained HTML document whose page containers
// each map to exactly one physical output page.
type AssembledDocument struct {
	// HTML is the complete document, styles inlined.
	HTML string
	// PageIDs are the element ids of the page containers, in output order.
	PageIDs []string
}

// PageCount returns the number of physical pages the document will produce.
func (d *AssembledDocument) PageCount() int {
	return len(d.PageIDs)
}

// Assembler builds page HTML from form data, photos and pre-rendered
// preview fragments.
type Assembler struct {
	cfg config.ReportConfig
}

// NewAssembler creates an assembler with the given report configuration.
func NewAssembler(cfg config.ReportConfig) *Assembler {
	return &Assembler{cfg: cfg}
}

// AssembleFullReport wraps each top-level section of the pre-rendered preview
// into its own fixed-size page container. One section maps to exactly one
// page; sections taller than the physical page are clipped, which is a
// documented constraint on upstream section sizing.
func (a *Assembler) AssembleFullReport(req *model.ExportRequest) (*AssembledDocument, error) {
	sections, err := splitPreviewSections(req.PreviewHTML)
	if err != nil {
		return nil, fmt.Errorf("failed to parse preview: %w", err)
	}
	if len(sections) == 0 {
		return nil, fmt.Errorf("preview contains no sections")
	}

	return a.document(sections), nil
}

// AssembleSummary synthesizes the structured summary document: a cover page,
// a details page, zero or one photo page and a sign-off page. Missing
// optional fields fall back to documented defaults; this never fails.
func (a *Assembler) AssembleSummary(req *model.ExportRequest) (*AssembledDocument, error) {
	photos := req.Photos.SummaryPhotos()

	pages := []string{
		a.coverPage(req),
		a.detailsPage(req.Form),
	}
	if len(photos) > 0 {
		pages = append(pages, a.photoPage(photos))
	}
	pages = append(pages, a.signoffPage(req))

	return a.document(pages), nil
}

// document wraps the page bodies into numbered page containers inside a
// self-contained HTML document.
func (a *Assembler) document(pageBodies []string) *AssembledDocument {
	var sb strings.Builder
	ids := make([]string, 0, len(pageBodies))

	sb.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"UTF-8\">\n")
	sb.WriteString("<title>")
	sb.WriteString(escapeHTML(a.cfg.Brand + " Inspection Report"))
	sb.WriteString("</title>\n<style>\n")
	sb.WriteString(assets.PrintCSS)
	sb.WriteString("\n</style>\n</head>\n<body>\n")

	for i, body := range pageBodies {
		id := fmt.Sprintf("page-%d", i+1)
		ids = append(ids, id)
		fmt.Fprintf(&sb, "<div class=\"report-page\" id=%q>\n%s\n</div>\n", id, body)
	}

	sb.WriteString("</body>\n</html>\n")
	return &AssembledDocument{HTML: sb.String(), PageIDs: ids}
}

// splitPreviewSections parses the pre-rendered preview and returns its
// top-level element children rendered back to HTML, one per section.
func splitPreviewSections(previewHTML string) ([]string, error) {
	doc, err := html.Parse(strings.NewReader(previewHTML))
	if err != nil {
		return nil, err
	}

	body := findElement(doc, "body")
	if body == nil {
		return nil, fmt.Errorf("preview has no body")
	}

	var sections []string
	for child := body.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode {
			continue
		}
		var buf bytes.Buffer
		if err := html.Render(&buf, child); err != nil {
			return nil, err
		}
		sections = append(sections, buf.String())
	}
	return sections, nil
}

// findElement returns the first element with the given tag in a depth-first walk.
func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findElement(child, tag); found != nil {
			return found
		}
	}
	return nil
}

// coverPage builds the summary cover: title, logo, metadata grid, optional
// static map keyed by the location string, and the executive summary block.
func (a *Assembler) coverPage(req *model.ExportRequest) string {
	form := req.Form
	var sb strings.Builder

	sb.WriteString("<div class=\"cover-logo\">")
	sb.WriteString(assets.LogoSVG)
	sb.WriteString("</div>\n")
	fmt.Fprintf(&sb, "<h1 class=\"page-title\">%s Inspection Report</h1>\n", escapeHTML(a.cfg.Brand))

	sb.WriteString("<div class=\"meta-grid\">\n")
	metaRow(&sb, "Project", sanitize.Clean(form.GetOr(model.FieldProject, "—")))
	metaRow(&sb, "Date", form.GetOr(model.FieldDate, "—"))
	metaRow(&sb, "Location", sanitize.Clean(form.GetOr(model.FieldLocation, "—")))
	metaRow(&sb, "Workers on site", sanitize.Clean(form.GetOr(model.FieldWorkers, "Not recorded")))
	metaRow(&sb, "Inspector", sanitize.Clean(form.GetOr(model.FieldInspector, "Not recorded")))
	metaRow(&sb, "Impact assessment", impactOrDefault(form.Get(model.FieldImpact)))
	sb.WriteString("</div>\n")

	if location := form.Get(model.FieldLocation); location != "" && a.cfg.MapURLTemplate != "" {
		mapURL := fmt.Sprintf(a.cfg.MapURLTemplate, url.QueryEscape(location))
		fmt.Fprintf(&sb, "<img class=\"cover-map\" src=%q alt=\"Site location map\">\n", mapURL)
	}

	sb.WriteString("<h2 class=\"page-heading\">Executive Summary</h2>\n")
	sb.WriteString("<div class=\"summary-block\">\n")
	sb.WriteString(a.summaryBlock(req))
	sb.WriteString("\n</div>\n")

	return sb.String()
}

// summaryBlock returns the executive summary content: the pre-rendered
// fragment when supplied, the sanitized form text when usable, or the fixed
// fallback bullet list.
func (a *Assembler) summaryBlock(req *model.ExportRequest) string {
	if req.SummaryHTML != "" {
		// Pre-rendered fragment from the preview, treated as opaque HTML.
		return req.SummaryHTML
	}

	text := sanitize.Clean(req.Form.Get(model.FieldSummary))
	if sanitize.NeedsFallbackSummary(text) {
		return fallbackSummaryHTML
	}
	return "<p>" + escapeHTML(text) + "</p>"
}

// fallbackSummaryHTML replaces executive summaries that are missing, too
// short or still carrying placeholder text.
const fallbackSummaryHTML = `<ul>
<li>All scheduled inspection points were reviewed on site.</li>
<li>Observations and photographic evidence are included in this report.</li>
<li>No additional remarks were recorded at the time of inspection.</li>
</ul>`

// detailsPage renders the fixed set of labeled form fields as a two-column table.
func (a *Assembler) detailsPage(form model.FormRecord) string {
	rows := []struct {
		label    string
		value    string
		fallback string
	}{
		{"Project", form.Get(model.FieldProject), "—"},
		{"Date", form.Get(model.FieldDate), "—"},
		{"Location", form.Get(model.FieldLocation), "—"},
		{"Weather conditions", form.Get(model.FieldWeather), "Not recorded"},
		{"Workers on site", form.Get(model.FieldWorkers), "Not recorded"},
		{"Inspector", form.Get(model.FieldInspector), "Not recorded"},
		{"Supervisor", form.Get(model.FieldSupervisor), "Not recorded"},
		{"Impact assessment", sanitize.ImpactLabel(form.Get(model.FieldImpact)), "—"},
		{"Equipment", form.Get(model.FieldEquipment), "—"},
		{"Work performed", form.Get(model.FieldWorkPerformed), "—"},
		{"Safety notes", form.Get(model.FieldSafetyNotes), "—"},
	}

	var sb strings.Builder
	sb.WriteString("<h2 class=\"page-heading\">Inspection Details</h2>\n")
	sb.WriteString("<table class=\"detail-table\">\n")
	for _, row := range rows {
		value := sanitize.Clean(row.value)
		if value == "" {
			value = row.fallback
		}
		fmt.Fprintf(&sb, "<tr><th>%s</th><td>%s</td></tr>\n",
			escapeHTML(row.label), escapeHTML(value))
	}
	sb.WriteString("</table>\n")
	return sb.String()
}

// photoPage renders all supplied photos as a captioned grid.
func (a *Assembler) photoPage(photos []model.PhotoRecord) string {
	var sb strings.Builder
	sb.WriteString("<h2 class=\"page-heading\">Photographic Evidence</h2>\n")
	sb.WriteString("<div class=\"photo-grid\">\n")
	for i, photo := range photos {
		caption := sanitize.Clean(photo.Name)
		if caption == "" {
			caption = fmt.Sprintf("Photo %d", i+1)
		}
		fmt.Fprintf(&sb, "<figure><img src=%q alt=%q><figcaption>%s</figcaption></figure>\n",
			photo.Data, escapeHTML(caption), escapeHTML(caption))
	}
	sb.WriteString("</div>\n")
	return sb.String()
}

// signoffPage renders inspector/supervisor identity fields, the optional
// signature image and the confidentiality footer block.
func (a *Assembler) signoffPage(req *model.ExportRequest) string {
	form := req.Form
	var sb strings.Builder

	sb.WriteString("<h2 class=\"page-heading\">Sign-off</h2>\n")

	sb.WriteString("<div class=\"signoff-field\">\n")
	fmt.Fprintf(&sb, "<div class=\"label\">Inspector: %s</div>\n",
		escapeHTML(sanitize.Clean(form.GetOr(model.FieldInspector, "Not recorded"))))
	if req.Signature != "" {
		fmt.Fprintf(&sb, "<img class=\"signature-image\" src=%q alt=\"Inspector signature\">\n", req.Signature)
	} else {
		sb.WriteString("<div class=\"line\"></div>\n")
	}
	sb.WriteString("</div>\n")

	sb.WriteString("<div class=\"signoff-field\">\n")
	fmt.Fprintf(&sb, "<div class=\"label\">Supervisor: %s</div>\n",
		escapeHTML(sanitize.Clean(form.GetOr(model.FieldSupervisor, "Not recorded"))))
	sb.WriteString("<div class=\"line\"></div>\n")
	sb.WriteString("</div>\n")

	sb.WriteString("<div class=\"signoff-field\">\n")
	fmt.Fprintf(&sb, "<div class=\"label\">Date: %s</div>\n",
		escapeHTML(form.GetOr(model.FieldDate, "—")))
	sb.WriteString("</div>\n")

	fmt.Fprintf(&sb, "<div class=\"confidentiality\">%s</div>\n",
		escapeHTML(fmt.Sprintf(
			"This %s report is confidential and intended solely for the named project stakeholders. Unauthorized distribution is prohibited.",
			a.cfg.Brand)))

	return sb.String()
}

// metaRow appends one label/value pair to the cover metadata grid.
func metaRow(sb *strings.Builder, label, value string) {
	if value == "" {
		value = "—"
	}
	fmt.Fprintf(sb, "<div class=\"label\">%s</div><div>%s</div>\n",
		escapeHTML(label), escapeHTML(value))
}

// impactOrDefault maps the impact code to its label, with a dash placeholder
// when unset.
func impactOrDefault(raw string) string {
	if label := sanitize.ImpactLabel(raw); label != "" {
		return label
	}
	return "—"
}
