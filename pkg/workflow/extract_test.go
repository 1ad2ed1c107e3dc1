package workflow

import (
	"testing"
)

func TestExtractProfileJSON(t *testing.T) {
	tests := []struct {
		name string
		text string
		want map[string]string
	}{
		{
			name: "clean json",
			text: `{"name": "Ivan Petrov", "education": "MSU, Applied Math, 2026", "skills": "Python, SQL"}`,
			want: map[string]string{
				"name":      "Ivan Petrov",
				"education": "MSU, Applied Math, 2026",
				"skills":    "Python, SQL",
			},
		},
		{
			name: "json wrapped in prose",
			text: "Here is the extracted data:\n{\"name\": \"Ivan Petrov\"}\nLet me know if you need more.",
			want: map[string]string{"name": "Ivan Petrov"},
		},
		{
			name: "empty fields dropped",
			text: `{"name": "Ivan Petrov", "education": "", "skills": "  "}`,
			want: map[string]string{"name": "Ivan Petrov"},
		},
		{
			name: "unknown keys ignored",
			text: `{"name": "Ivan Petrov", "age": "22"}`,
			want: map[string]string{"name": "Ivan Petrov"},
		},
		{
			name: "array value flattened",
			text: `{"skills": ["Python", "SQL", "teamwork"]}`,
			want: map[string]string{"skills": "Python, SQL, teamwork"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractProfile(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("extracted %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("field %s = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestExtractProfileFallback(t *testing.T) {
	text := "My name is Ivan Petrov\nEducation: MSU, Applied Math, graduating 2026\nSkills: Python, SQL, teamwork"

	got := ExtractProfile(text)

	if got["name"] != "Ivan Petrov" {
		t.Errorf("name = %q, want %q", got["name"], "Ivan Petrov")
	}
	if got["education"] != "MSU, Applied Math, graduating 2026" {
		t.Errorf("education = %q", got["education"])
	}
	if got["skills"] != "Python, SQL, teamwork" {
		t.Errorf("skills = %q", got["skills"])
	}
}

func TestExtractProfileNothingFound(t *testing.T) {
	got := ExtractProfile("Hello there, how are you today?")
	if len(got) != 0 {
		t.Errorf("expected empty extraction, got %v", got)
	}
}
