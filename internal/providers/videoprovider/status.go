package videoprovider

import "strings"

// normalizeStatus maps the upstream vocabulary onto the internal status set.
// Anything unrecognized becomes "submitted" rather than erroring, since new
// upstream statuses should degrade to "in flight" not break the pipeline.
func normalizeStatus(upstream string) string {
	switch strings.ToLower(strings.TrimSpace(upstream)) {
	case "pending", "queued":
		return "queued"
	case "processing", "rendering":
		return "rendering"
	case "done", "completed":
		return "completed"
	case "failed", "error":
		return "failed"
	default:
		return "submitted"
	}
}

// formatAspectRatio converts the internal "9:16" form to the provider's
// "9x16" form at the boundary.
func formatAspectRatio(internal string) string {
	return strings.ReplaceAll(internal, ":", "x")
}
