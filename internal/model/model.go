// Package model defines the data structures exchanged between the form/photo
// collaborators and the document rendering pipeline. The pipeline only reads
// these records; it never persists or mutates them.
package model

// FormRecord is a flat mapping from field name to value, supplied per export
// call. No fixed schema is enforced; consumers read named fields defensively
// through Get/GetOr.
type FormRecord map[string]string

// Get returns the value for key, or the empty string when absent.
func (f FormRecord) Get(key string) string {
	if f == nil {
		return ""
	}
	return f[key]
}

// GetOr returns the value for key, or fallback when the value is absent or empty.
func (f FormRecord) GetOr(key, fallback string) string {
	if v := f.Get(key); v != "" {
		return v
	}
	return fallback
}

// Well-known form field names read by the assembler.
const (
	FieldProject       = "project"
	FieldDate          = "date"
	FieldLocation      = "location"
	FieldWorkers       = "workers"
	FieldInspector     = "inspector"
	FieldSupervisor    = "supervisor"
	FieldImpact        = "impact"
	FieldWeather       = "weather"
	FieldEquipment     = "equipment"
	FieldSafetyNotes   = "safetyNotes"
	FieldWorkPerformed = "workPerformed"
	FieldSummary       = "executiveSummary"
)

// PhotoRecord is a single piece of photographic evidence. Data holds either a
// data URI or an http(s) URL. Figure numbering is assigned upstream.
type PhotoRecord struct {
	Name             string `json:"name"`
	Data             string `json:"data"`
	Caption          string `json:"caption,omitempty"`
	Description      string `json:"description,omitempty"`
	IncludeInSummary bool   `json:"includeInSummary,omitempty"`
	FigureNumber     int    `json:"figureNumber,omitempty"`
}

// PhotoBucket maps a section name to its ordered photos. Order determines
// figure/display order. Keys outside the known set are folded into
// SectionAdditional by the upstream collaborator, not re-validated here.
type PhotoBucket map[string][]PhotoRecord

// Known photo section keys.
const (
	SectionBackground       = "background"
	SectionFieldObservation = "fieldObservation"
	SectionWork             = "work"
	SectionSafety           = "safety"
	SectionEquipment        = "equipment"
	SectionAdditional       = "additional"
)

// SectionOrder is the display order of photo sections in the full report.
var SectionOrder = []string{
	SectionBackground,
	SectionFieldObservation,
	SectionWork,
	SectionSafety,
	SectionEquipment,
	SectionAdditional,
}

// AllPhotos returns the bucket's photos flattened in section display order.
func (b PhotoBucket) AllPhotos() []PhotoRecord {
	var all []PhotoRecord
	for _, section := range SectionOrder {
		all = append(all, b[section]...)
	}
	return all
}

// SummaryPhotos returns the photos flagged for inclusion in the summary
// document, flattened in section display order.
func (b PhotoBucket) SummaryPhotos() []PhotoRecord {
	var selected []PhotoRecord
	for _, p := range b.AllPhotos() {
		if p.IncludeInSummary {
			selected = append(selected, p)
		}
	}
	return selected
}

// ExportRequest carries everything one export call needs. Validated once at
// the orchestrator boundary.
type ExportRequest struct {
	// Form is the flat field mapping; FieldProject must be non-empty.
	Form FormRecord `json:"form"`

	// Photos holds the per-section photo evidence.
	Photos PhotoBucket `json:"photos,omitempty"`

	// Signature is an optional signature image (data URI), displayed as-is.
	Signature string `json:"signature,omitempty"`

	// PreviewHTML is the pre-rendered report preview whose top-level
	// sections become pages in full-report mode.
	PreviewHTML string `json:"previewHtml,omitempty"`

	// SummaryHTML is an optional pre-rendered executive summary fragment
	// used by summary mode; when empty the assembler falls back to its
	// fixed bullet list.
	SummaryHTML string `json:"summaryHtml,omitempty"`
}
