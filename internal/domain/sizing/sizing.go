// Package sizing estimates a repository's line-of-code count from its
// file listing and aggregate byte size. The estimate is a heuristic, not
// a measurement.
package sizing

import (
	"math"
	"path/filepath"
	"strings"
)

// bytesPerLine approximates average source line width.
const bytesPerLine = 25

// minLinesPerCodeFile floors the estimate when the reported byte size is
// stale or zero.
const minLinesPerCodeFile = 50

var codeExtensions = map[string]bool{
	".go":    true,
	".py":    true,
	".js":    true,
	".jsx":   true,
	".ts":    true,
	".tsx":   true,
	".java":  true,
	".rb":    true,
	".rs":    true,
	".c":     true,
	".h":     true,
	".cpp":   true,
	".hpp":   true,
	".cs":    true,
	".swift": true,
	".kt":    true,
	".php":   true,
	".vue":   true,
	".svelte": true,
}

// Estimate returns a non-negative line count estimate for the given file
// paths and total repository byte size.
func Estimate(filePaths []string, totalBytes int) int {
	if len(filePaths) == 0 {
		return 0
	}

	codeFiles := 0
	for _, p := range filePaths {
		ext := strings.ToLower(filepath.Ext(p))
		if codeExtensions[ext] {
			codeFiles++
		}
	}

	codeRatio := float64(codeFiles) / math.Max(float64(len(filePaths)), 1)
	estimatedBytes := float64(totalBytes) * codeRatio
	estimatedLines := int(math.Round(estimatedBytes / bytesPerLine))

	if floor := codeFiles * minLinesPerCodeFile; estimatedLines < floor {
		return floor
	}
	return estimatedLines
}
