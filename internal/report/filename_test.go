package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExportFilename(t *testing.T) {
	date := time.Date(2025, 3, 7, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		project string
		want    string
	}{
		{"plain", "Bridge 14", "fieldproof_inspection_bridge-14_2025-03-07.pdf"},
		{"accents folded", "Überführung Süd", "fieldproof_inspection_uberfuhrung-sud_2025-03-07.pdf"},
		{"punctuation collapsed", "Site A / Phase #2!", "fieldproof_inspection_site-a-phase-2_2025-03-07.pdf"},
		{"empty project", "", "fieldproof_inspection_report_2025-03-07.pdf"},
		{"only punctuation", "///", "fieldproof_inspection_report_2025-03-07.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExportFilename("FieldProof", "inspection", tt.project, date)
			assert.Equal(t, tt.want, got)
		})
	}
}
