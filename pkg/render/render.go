// Package render provides output renderers for run summary patterns.
package render

import "github.com/dkoosis/cargo2junit/pkg/pattern"

// Renderer converts patterns to formatted output.
type Renderer interface {
	Render(patterns []pattern.Pattern) string
}
