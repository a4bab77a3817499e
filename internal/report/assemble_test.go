package report

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldproof/fieldproof/internal/config"
	"github.com/fieldproof/fieldproof/internal/model"
)

func testReportConfig() config.ReportConfig {
	return config.ReportConfig{
		Brand:          "FieldProof",
		ReportType:     "inspection",
		MapURLTemplate: "https://maps.example.com/static?center=%s",
		PageWidthMM:    210,
		PageHeightMM:   297,
		PageMarginMM:   15,
		FooterOffsetMM: 290,
	}
}

func TestAssembleFullReportOneSectionOnePage(t *testing.T) {
	a := NewAssembler(testReportConfig())
	req := &model.ExportRequest{
		Form: model.FormRecord{model.FieldProject: "Bridge 14"},
		PreviewHTML: `<div class="section">Overview</div>
<div class="section">Observations</div>
<div class="section">Photos</div>`,
	}

	doc, err := a.AssembleFullReport(req)
	require.NoError(t, err)

	assert.Equal(t, 3, doc.PageCount())
	assert.Equal(t, []string{"page-1", "page-2", "page-3"}, doc.PageIDs)
	for _, id := range doc.PageIDs {
		assert.Contains(t, doc.HTML, fmt.Sprintf("id=%q", id))
	}
	assert.Contains(t, doc.HTML, "Observations")
}

func TestAssembleFullReportSelfContained(t *testing.T) {
	a := NewAssembler(testReportConfig())
	req := &model.ExportRequest{
		Form:        model.FormRecord{model.FieldProject: "Depot"},
		PreviewHTML: "<section>Only page</section>",
	}

	doc, err := a.AssembleFullReport(req)
	require.NoError(t, err)

	// Styles must be inlined; the browser loads nothing beyond the document
	assert.Contains(t, doc.HTML, "<style>")
	assert.Contains(t, doc.HTML, "report-page")
	assert.True(t, strings.HasPrefix(doc.HTML, "<!DOCTYPE html>"))
}

func TestAssembleFullReportEmptyPreview(t *testing.T) {
	a := NewAssembler(testReportConfig())

	for name, preview := range map[string]string{
		"blank":     "",
		"text only": "just text, no elements",
	} {
		t.Run(name, func(t *testing.T) {
			req := &model.ExportRequest{
				Form:        model.FormRecord{model.FieldProject: "Depot"},
				PreviewHTML: preview,
			}
			_, err := a.AssembleFullReport(req)
			assert.Error(t, err)
		})
	}
}

func TestAssembleSummaryPageSet(t *testing.T) {
	a := NewAssembler(testReportConfig())

	t.Run("without summary photos", func(t *testing.T) {
		req := &model.ExportRequest{
			Form: model.FormRecord{model.FieldProject: "Depot"},
			Photos: model.PhotoBucket{
				model.SectionWork: {{Name: "trench.png", Data: "data:image/png;base64,x"}},
			},
		}
		doc, err := a.AssembleSummary(req)
		require.NoError(t, err)

		// Cover, details, sign-off. No photo page when nothing is flagged.
		assert.Equal(t, 3, doc.PageCount())
		assert.NotContains(t, doc.HTML, "Photographic Evidence")
	})

	t.Run("with summary photos", func(t *testing.T) {
		req := &model.ExportRequest{
			Form: model.FormRecord{model.FieldProject: "Depot"},
			Photos: model.PhotoBucket{
				model.SectionWork: {
					{Name: "trench.png", Data: "data:image/png;base64,x", IncludeInSummary: true},
					{Name: "", Data: "data:image/png;base64,y", IncludeInSummary: true},
				},
			},
		}
		doc, err := a.AssembleSummary(req)
		require.NoError(t, err)

		assert.Equal(t, 4, doc.PageCount())
		assert.Contains(t, doc.HTML, "Photographic Evidence")
		assert.Contains(t, doc.HTML, "trench.png")
		// Unnamed photos get a positional caption
		assert.Contains(t, doc.HTML, "Photo 2")
	})
}

func TestAssembleSummaryFallbacks(t *testing.T) {
	a := NewAssembler(testReportConfig())
	req := &model.ExportRequest{
		Form: model.FormRecord{model.FieldProject: "Depot"},
	}

	doc, err := a.AssembleSummary(req)
	require.NoError(t, err)

	// Short or missing executive summary triggers the fixed bullet list
	assert.Contains(t, doc.HTML, "All scheduled inspection points were reviewed on site.")
	assert.Contains(t, doc.HTML, "Not recorded")
	// Inspector line is blank for wet-ink signing when no signature supplied
	assert.Contains(t, doc.HTML, `<div class="line">`)
}

func TestAssembleSummaryUsesProvidedContent(t *testing.T) {
	a := NewAssembler(testReportConfig())
	req := &model.ExportRequest{
		Form: model.FormRecord{
			model.FieldProject:   "Depot",
			model.FieldLocation:  "Rotterdam Harbor",
			model.FieldInspector: "J. Smits",
			model.FieldImpact:    "2",
		},
		SummaryHTML: "<p>Pre-rendered summary fragment.</p>",
		Signature:   "data:image/png;base64,sig",
	}

	doc, err := a.AssembleSummary(req)
	require.NoError(t, err)

	assert.Contains(t, doc.HTML, "Pre-rendered summary fragment.")
	assert.NotContains(t, doc.HTML, "All scheduled inspection points")
	assert.Contains(t, doc.HTML, "Medium")
	assert.Contains(t, doc.HTML, "Inspector signature")
	// Location flows into the static map URL, query-escaped
	assert.Contains(t, doc.HTML, "center=Rotterdam+Harbor")
}

func TestAssembleSummaryEscapesFormValues(t *testing.T) {
	a := NewAssembler(testReportConfig())
	req := &model.ExportRequest{
		Form: model.FormRecord{
			model.FieldProject: `<script>alert("x")</script>`,
		},
	}

	doc, err := a.AssembleSummary(req)
	require.NoError(t, err)

	assert.NotContains(t, doc.HTML, `<script>alert`)
	assert.Contains(t, doc.HTML, "&lt;script&gt;")
}
