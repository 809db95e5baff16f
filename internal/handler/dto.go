package handler

import (
	"time"

	"github.com/gestor-labs/be-case-tracking/internal/repository"
)

// eventResponse is the wire shape of one audit entry.
type eventResponse struct {
	ID        int64     `json:"id"`
	CaseID    int64     `json:"caseId"`
	StateID   int64     `json:"stateId"`
	StateName string    `json:"stateName"`
	Comment   *string   `json:"comment"`
	ActorID   *int64    `json:"actorId"`
	ActorName *string   `json:"actorName,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// caseResponse is the wire shape of a case. Events is omitted on list
// responses and populated on detail responses.
type caseResponse struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Description    *string         `json:"description"`
	CaseType       *string         `json:"caseType"`
	CurrentStateID int64           `json:"currentStateId"`
	ResponsibleID  *int64          `json:"responsibleId"`
	CreatedAt      time.Time       `json:"createdAt"`
	Events         []eventResponse `json:"events,omitempty"`
}

type userResponse struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Email *string `json:"email"`
}

func toEventResponse(e *repository.Event) eventResponse {
	return eventResponse{
		ID:        e.ID,
		CaseID:    e.CaseID,
		StateID:   e.StateID,
		StateName: e.StateName,
		Comment:   e.Comment,
		ActorID:   e.ActorID,
		ActorName: e.ActorName,
		Timestamp: e.Timestamp,
	}
}

func toCaseResponse(c *repository.Case, withEvents bool) caseResponse {
	out := caseResponse{
		ID:             c.ID,
		Name:           c.Name,
		Description:    c.Description,
		CaseType:       c.CaseType,
		CurrentStateID: c.CurrentStateID,
		ResponsibleID:  c.ResponsibleID,
		CreatedAt:      c.CreatedAt,
	}
	if withEvents {
		out.Events = make([]eventResponse, 0, len(c.Events))
		for _, e := range c.Events {
			out.Events = append(out.Events, toEventResponse(e))
		}
	}
	return out
}
