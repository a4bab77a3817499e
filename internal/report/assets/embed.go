// Package assets provides embedded CSS and images for page assembly.
package assets

import (
	_ "embed"
)

// Print stylesheet applied to every assembled page tree. Inlined into the
// document head so the output is self-contained at render time.
//
//go:embed print.css
var PrintCSS string

// FieldProof logo SVG, used on the summary cover page.
//
//go:embed logo.svg
var LogoSVG string
