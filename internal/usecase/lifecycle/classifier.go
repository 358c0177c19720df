package lifecycle

import (
	"strings"

	"github.com/revitawellness/voiceai-hub/internal/domain/entities"
)

// OutcomeClassifier maps a call's insights onto one outcome category. It is
// an interface so the keyword heuristic can be swapped for a model-backed
// classifier without touching the state machine.
type OutcomeClassifier interface {
	Classify(summary string, actionItems []string) entities.CallOutcome
}

type keywordGroup struct {
	outcome entities.CallOutcome
	terms   []string
}

// KeywordClassifier classifies by substring membership against ordered
// keyword groups. Group order is significant: when an input matches several
// groups the earliest one wins, which is how ambiguous calls (e.g. "agendar
// cita o transferir") resolve to appointment.
type KeywordClassifier struct {
	groups []keywordGroup
}

// NewKeywordClassifier creates the default classifier
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{
		groups: []keywordGroup{
			{outcome: entities.OutcomeAppointment, terms: []string{"cita", "agendar", "appointment"}},
			{outcome: entities.OutcomeTransfer, terms: []string{"transfer", "humano", "agente"}},
			{outcome: entities.OutcomeInfo, terms: []string{"info", "pregunt", "consult"}},
		},
	}
}

// Classify lower-cases and concatenates the summary and action items, then
// returns the first matching category, or OutcomeOther when nothing matches.
func (c *KeywordClassifier) Classify(summary string, actionItems []string) entities.CallOutcome {
	combined := strings.ToLower(summary + " " + strings.Join(actionItems, " "))

	for _, group := range c.groups {
		for _, term := range group.terms {
			if strings.Contains(combined, term) {
				return group.outcome
			}
		}
	}
	return entities.OutcomeOther
}
