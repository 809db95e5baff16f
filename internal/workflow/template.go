package workflow

import "strings"

// CommentTemplate is a pre-authored comment suggested (and optionally
// required) when transitioning into a specific state. CaseType is nil when
// the template applies to every case type.
type CommentTemplate struct {
	ID       int64   `json:"id"`
	StateID  int64   `json:"stateId"`
	CaseType *string `json:"caseType,omitempty"`
	Title    string  `json:"title,omitempty"`
	Text     string  `json:"text"`
	Required bool    `json:"required"`
}

// TemplateSuggestion is the resolved outcome for a target state.
type TemplateSuggestion struct {
	Text     string `json:"text"`
	Required bool   `json:"required"`
}

// ResolveTemplate picks the template for a target state and case type.
// Templates matching the case type exactly (case-insensitive) win over
// generic templates; generic templates win over templates for other types;
// with no match at all the suggestion is empty and not required. Pure
// lookup.
func ResolveTemplate(templates []CommentTemplate, targetStateID int64, caseType string) TemplateSuggestion {
	var typed, generic, first *CommentTemplate

	for i := range templates {
		t := &templates[i]
		if t.StateID != targetStateID {
			continue
		}
		if first == nil {
			first = t
		}
		if t.CaseType == nil {
			if generic == nil {
				generic = t
			}
			continue
		}
		if caseType != "" && strings.EqualFold(*t.CaseType, caseType) && typed == nil {
			typed = t
		}
	}

	chosen := typed
	if chosen == nil {
		chosen = generic
	}
	if chosen == nil {
		chosen = first
	}
	if chosen == nil {
		return TemplateSuggestion{}
	}
	return TemplateSuggestion{Text: chosen.Text, Required: chosen.Required}
}
