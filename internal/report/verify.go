package report

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// VerifyDocument parses the built PDF and checks that it is structurally
// valid and carries exactly the expected number of pages. A document that
// fails here is never handed to the caller.
func VerifyDocument(data []byte, wantPages int) error {
	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return fmt.Errorf("document failed validation: %w", err)
	}
	if ctx.PageCount != wantPages {
		return fmt.Errorf("document has %d pages, expected %d", ctx.PageCount, wantPages)
	}
	return nil
}
