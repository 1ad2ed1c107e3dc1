package workflow

import (
	"strings"

	"ai-studybot-be/pkg/llm"
)

// Stage is a named point in the resume workflow's state machine. The set is
// closed: Route and the dispatcher switch over it exhaustively, so adding a
// stage is a compile-visible change.
type Stage string

const (
	StageStart             Stage = "START"
	StageCollectingProfile Stage = "COLLECTING_PROFILE"
	StageCollectingVacancy Stage = "COLLECTING_VACANCY"
	StageSelectingStyle    Stage = "SELECTING_STYLE"
	StageGenerating        Stage = "GENERATING"
	StageEditing           Stage = "EDITING"
	StageFinal             Stage = "FINAL"
)

// Document styles and output languages. Fixed once selected.
const (
	StyleFormal   = "formal"
	StyleCreative = "creative"
	StyleMinimal  = "minimal"

	LanguageRU = "ru"
	LanguageEN = "en"
)

// MaxRevisions bounds the editing loop. Once reached, further edit requests
// are rejected and the session moves to FINAL.
const MaxRevisions = 3

// ProfileField describes one collectable profile entry. Ask is the
// human-readable phrasing used when the field is requested from the user.
type ProfileField struct {
	Key      string
	Required bool
	Ask      string
}

// ProfileFields is the fixed, ordered set of known profile keys. The
// required subset is the profile-complete guard used by Route.
var ProfileFields = []ProfileField{
	{Key: "name", Required: true, Ask: "your full name"},
	{Key: "education", Required: true, Ask: "your education (university, major, graduation year)"},
	{Key: "skills", Required: true, Ask: "your key skills (e.g. Python, SQL, teamwork)"},
	{Key: "experience", Ask: "work or internship experience (if any)"},
	{Key: "projects", Ask: "projects (if any)"},
	{Key: "achievements", Ask: "achievements (if any)"},
}

// Conversation is the state of one user session. It is owned exclusively by
// that session and mutated only by the dispatcher applying a handler delta;
// the caller is responsible for serializing turns per session.
type Conversation struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`

	Stage   Stage         `json:"stage"`
	History []llm.Message `json:"history"` // append-only within a session

	Profile  map[string]string `json:"profile"`
	Vacancy  string            `json:"vacancy"`
	Style    string            `json:"style"`
	Language string            `json:"language"`

	Resume      string `json:"resume"`
	CoverLetter string `json:"cover_letter"`

	Revisions int `json:"revisions"`
}

func NewConversation(id, userID string) *Conversation {
	return &Conversation{
		ID:       id,
		UserID:   userID,
		Stage:    StageStart,
		Profile:  make(map[string]string),
		Language: LanguageRU,
	}
}

// Reset reopens the workflow: back to START with all collected fields,
// parameters and artifacts cleared. History is dropped too; a reset starts
// a fresh conversation.
func (c *Conversation) Reset() {
	c.Stage = StageStart
	c.History = nil
	c.Profile = make(map[string]string)
	c.Vacancy = ""
	c.Style = ""
	c.Language = LanguageRU
	c.Resume = ""
	c.CoverLetter = ""
	c.Revisions = 0
}

// HasField reports whether a profile field is present: non-empty after
// trimming.
func (c *Conversation) HasField(key string) bool {
	return strings.TrimSpace(c.Profile[key]) != ""
}

// ProfileComplete is the guard for leaving COLLECTING_PROFILE: every
// required field is present.
func (c *Conversation) ProfileComplete() bool {
	for _, f := range ProfileFields {
		if f.Required && !c.HasField(f.Key) {
			return false
		}
	}
	return true
}

// MissingRequired returns the Ask phrasings of absent required fields, in
// declaration order.
func (c *Conversation) MissingRequired() []string {
	return missingRequired(c.Profile)
}

// Delta is the set of changes a handler proposes to merge into the
// conversation. Zero-valued fields are left untouched; Resume and
// CoverLetter use pointers because the empty string is a meaningful value
// for them (an absent cover letter).
type Delta struct {
	Stage    Stage
	Profile  map[string]string
	Vacancy  string
	Style    string
	Language string

	Resume      *string
	CoverLetter *string

	ResetRevisions bool
	BumpRevisions  bool

	Reply string
}

// apply merges the delta into the conversation with shallow-merge
// semantics. History is never touched here; the dispatcher owns it.
func (d *Delta) apply(c *Conversation) {
	if d.Stage != "" {
		c.Stage = d.Stage
	}
	for k, v := range d.Profile {
		if strings.TrimSpace(v) != "" {
			c.Profile[k] = strings.TrimSpace(v)
		}
	}
	if d.Vacancy != "" {
		c.Vacancy = d.Vacancy
	}
	if d.Style != "" {
		c.Style = d.Style
	}
	if d.Language != "" {
		c.Language = d.Language
	}
	if d.Resume != nil {
		c.Resume = *d.Resume
	}
	if d.CoverLetter != nil {
		c.CoverLetter = *d.CoverLetter
	}
	if d.ResetRevisions {
		c.Revisions = 0
	}
	if d.BumpRevisions && c.Revisions < MaxRevisions {
		c.Revisions++
	}
}

func strPtr(s string) *string {
	return &s
}
