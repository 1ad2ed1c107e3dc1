package workflow

import (
	"testing"
)

func TestRoute(t *testing.T) {
	completeProfile := map[string]string{
		"name":      "Ivan Petrov",
		"education": "MSU, Applied Math, 2026",
		"skills":    "Python, SQL",
	}

	tests := []struct {
		name string
		conv Conversation
		want Stage
	}{
		{
			name: "start always enters profile collection",
			conv: Conversation{Stage: StageStart},
			want: StageCollectingProfile,
		},
		{
			name: "incomplete profile stays in collection",
			conv: Conversation{
				Stage:   StageCollectingProfile,
				Profile: map[string]string{"name": "Ivan Petrov"},
			},
			want: StageCollectingProfile,
		},
		{
			name: "whitespace-only field does not count as present",
			conv: Conversation{
				Stage: StageCollectingProfile,
				Profile: map[string]string{
					"name":      "Ivan Petrov",
					"education": "   ",
					"skills":    "Python",
				},
			},
			want: StageCollectingProfile,
		},
		{
			name: "complete profile moves to vacancy",
			conv: Conversation{Stage: StageCollectingProfile, Profile: completeProfile},
			want: StageCollectingVacancy,
		},
		{
			name: "optional fields are not required",
			conv: Conversation{Stage: StageCollectingProfile, Profile: completeProfile},
			want: StageCollectingVacancy,
		},
		{
			name: "no vacancy stays in vacancy collection",
			conv: Conversation{Stage: StageCollectingVacancy},
			want: StageCollectingVacancy,
		},
		{
			name: "vacancy present moves to style selection",
			conv: Conversation{Stage: StageCollectingVacancy, Vacancy: "Backend internship at Acme"},
			want: StageSelectingStyle,
		},
		{
			name: "style without language stays in selection",
			conv: Conversation{Stage: StageSelectingStyle, Style: StyleFormal},
			want: StageSelectingStyle,
		},
		{
			name: "style and language move to generation",
			conv: Conversation{Stage: StageSelectingStyle, Style: StyleFormal, Language: LanguageRU},
			want: StageGenerating,
		},
		{
			name: "generation always moves to editing",
			conv: Conversation{Stage: StageGenerating},
			want: StageEditing,
		},
		{
			name: "editing below the limit stays in editing",
			conv: Conversation{Stage: StageEditing, Revisions: MaxRevisions - 1},
			want: StageEditing,
		},
		{
			name: "editing at the limit moves to final",
			conv: Conversation{Stage: StageEditing, Revisions: MaxRevisions},
			want: StageFinal,
		},
		{
			name: "final is terminal",
			conv: Conversation{Stage: StageFinal},
			want: StageFinal,
		},
		{
			name: "unknown persisted stage restarts collection",
			conv: Conversation{Stage: Stage("LEGACY_STAGE")},
			want: StageCollectingProfile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Route(&tt.conv); got != tt.want {
				t.Errorf("Route() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestConversationReset(t *testing.T) {
	c := NewConversation("s1", "u1")
	c.Stage = StageFinal
	c.Profile["name"] = "Ivan Petrov"
	c.Vacancy = "internship"
	c.Style = StyleCreative
	c.Language = LanguageEN
	c.Resume = "resume"
	c.CoverLetter = "letter"
	c.Revisions = 2

	c.Reset()

	if c.Stage != StageStart {
		t.Errorf("Stage = %s, want %s", c.Stage, StageStart)
	}
	if len(c.Profile) != 0 || c.Vacancy != "" || c.Style != "" {
		t.Error("collected data survived reset")
	}
	if c.Language != LanguageRU {
		t.Errorf("Language = %s, want default %s", c.Language, LanguageRU)
	}
	if c.Resume != "" || c.CoverLetter != "" || c.Revisions != 0 {
		t.Error("artifacts survived reset")
	}
	if len(c.History) != 0 {
		t.Error("history survived reset")
	}
}
