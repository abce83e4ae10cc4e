package scoring

import "errors"

// Sentinel kinds for scoring errors.
var (
	// ErrAnalysisFailed means the completion call failed or no parseable
	// JSON object could be located in the reply. The caller decides how
	// to degrade; this package never substitutes defaults for a whole
	// failed invocation.
	ErrAnalysisFailed = errors.New("analysis failed")

	// ErrNoJSON means the reply contained no balanced JSON object.
	ErrNoJSON = errors.New("no json object in reply")
)
