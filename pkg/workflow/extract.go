package workflow

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Profile extraction: the primary path is a strict JSON parse of the model
// reply; when that fails (or the reply has no JSON at all) we fall back to
// keyword patterns. Fallback output is best-effort and unvalidated;
// callers must tolerate partial or empty results.

var jsonBlockPattern = regexp.MustCompile(`(?s)\{.*\}`)

var fallbackPatterns = map[string][]*regexp.Regexp{
	"name": {
		regexp.MustCompile(`(?i)(?:i am|my name is)\s+([^\n,.]+)`),
		regexp.MustCompile(`(?i)name:\s*([^\n,]+)`),
	},
	"education": {
		regexp.MustCompile(`(?i)education:\s*([^\n]+)`),
		regexp.MustCompile(`(?i)(?:i study|studying|student) at\s+([^\n,.]+)`),
		regexp.MustCompile(`(?i)university:\s*([^\n]+)`),
	},
	"skills": {
		regexp.MustCompile(`(?i)skills?:\s*([^\n]+)`),
		regexp.MustCompile(`(?i)i know\s+([^\n.]+)`),
	},
}

// ExtractProfile pulls known profile fields out of a model reply. Only
// non-empty values for known keys are returned.
func ExtractProfile(text string) map[string]string {
	extracted := make(map[string]string)

	if block := jsonBlockPattern.FindString(text); block != "" {
		var raw map[string]any
		if err := json.Unmarshal([]byte(block), &raw); err == nil {
			for _, f := range ProfileFields {
				if v, ok := raw[f.Key]; ok {
					if s := flattenValue(v); strings.TrimSpace(s) != "" {
						extracted[f.Key] = strings.TrimSpace(s)
					}
				}
			}
			return extracted
		}
	}

	// Heuristic fallback: keyword patterns, first match per field wins.
	for key, patterns := range fallbackPatterns {
		for _, p := range patterns {
			if m := p.FindStringSubmatch(text); m != nil {
				if v := strings.TrimSpace(m[1]); v != "" {
					extracted[key] = v
					break
				}
			}
		}
	}
	return extracted
}

// flattenValue renders whatever shape the model produced as one string.
// Models occasionally return nested objects (e.g. education split into
// university/major/year) or arrays instead of plain strings.
func flattenValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := flattenValue(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := flattenValue(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
