package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormRecord_Get(t *testing.T) {
	form := FormRecord{"project": "Substation 12"}

	assert.Equal(t, "Substation 12", form.Get("project"))
	assert.Equal(t, "", form.Get("missing"))

	var nilForm FormRecord
	assert.Equal(t, "", nilForm.Get("project"))
}

func TestFormRecord_GetOr(t *testing.T) {
	form := FormRecord{"inspector": "J. Ortega", "weather": ""}

	assert.Equal(t, "J. Ortega", form.GetOr("inspector", "Unknown"))
	assert.Equal(t, "Unknown", form.GetOr("weather", "Unknown"))
	assert.Equal(t, "—", form.GetOr("absent", "—"))
}

func TestPhotoBucket_AllPhotos(t *testing.T) {
	bucket := PhotoBucket{
		SectionWork:       {{Name: "trench"}, {Name: "backfill"}},
		SectionBackground: {{Name: "site overview"}},
		SectionAdditional: {{Name: "extra"}},
	}

	all := bucket.AllPhotos()
	assert.Len(t, all, 4)
	// Section display order, then insertion order within a section
	assert.Equal(t, "site overview", all[0].Name)
	assert.Equal(t, "trench", all[1].Name)
	assert.Equal(t, "backfill", all[2].Name)
	assert.Equal(t, "extra", all[3].Name)
}

func TestPhotoBucket_SummaryPhotos(t *testing.T) {
	bucket := PhotoBucket{
		SectionWork: {
			{Name: "included", IncludeInSummary: true},
			{Name: "excluded"},
		},
	}

	selected := bucket.SummaryPhotos()
	assert.Len(t, selected, 1)
	assert.Equal(t, "included", selected[0].Name)

	var empty PhotoBucket
	assert.Empty(t, empty.SummaryPhotos())
}
