package workflow

import "strings"

// Route computes the stage the next handler runs for. It is a pure function
// of the conversation's stage and accumulated data: no I/O, no model calls,
// no hidden history-dependence. First matching rule wins.
//
//	START               -> COLLECTING_PROFILE           always
//	COLLECTING_PROFILE  -> COLLECTING_VACANCY           required profile fields present
//	COLLECTING_VACANCY  -> SELECTING_STYLE              vacancy text present
//	SELECTING_STYLE     -> GENERATING                   style and language chosen
//	GENERATING          -> EDITING                      always
//	EDITING             -> FINAL                        revision limit reached
//	FINAL               -> FINAL                        always
//
// Guard-failed stages stay where they are.
func Route(c *Conversation) Stage {
	switch c.Stage {
	case StageStart:
		return StageCollectingProfile

	case StageCollectingProfile:
		if c.ProfileComplete() {
			return StageCollectingVacancy
		}
		return StageCollectingProfile

	case StageCollectingVacancy:
		if strings.TrimSpace(c.Vacancy) != "" {
			return StageSelectingStyle
		}
		return StageCollectingVacancy

	case StageSelectingStyle:
		if c.Style != "" && c.Language != "" {
			return StageGenerating
		}
		return StageSelectingStyle

	case StageGenerating:
		return StageEditing

	case StageEditing:
		if c.Revisions >= MaxRevisions {
			return StageFinal
		}
		return StageEditing

	case StageFinal:
		return StageFinal

	default:
		// Unknown stage in persisted state (e.g. stale session format):
		// restart collection rather than wedge the session.
		return StageCollectingProfile
	}
}
