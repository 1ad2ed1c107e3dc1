package workflow

import "strings"

// SplitDocuments separates a combined model reply into resume and cover
// letter using CoverLetterMarker. The resume excludes the marker and
// everything after it; the cover letter begins at the marker inclusive.
// When the marker is absent, the whole reply is the resume and found is
// false; the caller decides the fallback (generation: empty cover letter,
// editing: keep the previous documents).
func SplitDocuments(full string) (resume, coverLetter string, found bool) {
	idx := strings.Index(full, CoverLetterMarker)
	if idx < 0 {
		return stripResumeHeading(full), "", false
	}
	resume = stripResumeHeading(full[:idx])
	coverLetter = strings.TrimSpace(full[idx:])
	return resume, coverLetter, true
}

func stripResumeHeading(s string) string {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, resumeHeading); ok {
		return strings.TrimSpace(rest)
	}
	return s
}
