package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gestor-labs/be-case-tracking/internal/apperrors"
	"github.com/gestor-labs/be-case-tracking/internal/logger"
	"github.com/gestor-labs/be-case-tracking/internal/service"
)

// CaseHandler handles case CRUD and transition requests.
type CaseHandler struct {
	cases       CaseAPI
	transitions TransitionAPI
	log         *logger.Logger
}

// NewCaseHandler creates a new case handler.
func NewCaseHandler(cases CaseAPI, transitions TransitionAPI, log *logger.Logger) *CaseHandler {
	return &CaseHandler{cases: cases, transitions: transitions, log: log}
}

type caseRequest struct {
	Name          string  `json:"name"`
	Description   *string `json:"description"`
	CaseType      *string `json:"caseType"`
	StateID       int64   `json:"stateId"`
	ResponsibleID *int64  `json:"responsibleId"`
}

type createEventRequest struct {
	ActorID         *int64  `json:"actorId"`
	Comment         *string `json:"comment"`
	StateID         int64   `json:"stateId"`
	ApplyTransition bool    `json:"applyTransition"`
}

// List handles GET /cases.
func (h *CaseHandler) List(c *gin.Context) {
	cases, err := h.cases.ListCases(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	out := make([]caseResponse, 0, len(cases))
	for _, cs := range cases {
		out = append(out, toCaseResponse(cs, false))
	}
	c.JSON(http.StatusOK, out)
}

// Get handles GET /cases/:code. The code may be a numeric id or a name
// fragment.
func (h *CaseHandler) Get(c *gin.Context) {
	cs, err := h.cases.GetCase(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toCaseResponse(cs, true))
}

// Create handles POST /cases.
func (h *CaseHandler) Create(c *gin.Context) {
	var req caseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c)
		return
	}

	cs, err := h.cases.CreateCase(c.Request.Context(), &service.CreateCaseRequest{
		Name:          req.Name,
		Description:   req.Description,
		CaseType:      req.CaseType,
		StateID:       req.StateID,
		ResponsibleID: req.ResponsibleID,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, toCaseResponse(cs, true))
}

// Update handles PUT /cases/:code.
func (h *CaseHandler) Update(c *gin.Context) {
	id, ok := h.caseID(c)
	if !ok {
		return
	}

	var req caseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c)
		return
	}

	cs, err := h.cases.UpdateCase(c.Request.Context(), id, &service.UpdateCaseRequest{
		Name:          req.Name,
		Description:   req.Description,
		CaseType:      req.CaseType,
		ResponsibleID: req.ResponsibleID,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toCaseResponse(cs, false))
}

// Delete handles DELETE /cases/:code.
func (h *CaseHandler) Delete(c *gin.Context) {
	id, ok := h.caseID(c)
	if !ok {
		return
	}

	if err := h.cases.DeleteCase(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateEvent handles POST /cases/:code/events — the apply-transition
// operation, or a plain note when applyTransition is false.
func (h *CaseHandler) CreateEvent(c *gin.Context) {
	id, ok := h.caseID(c)
	if !ok {
		return
	}

	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c)
		return
	}

	event, err := h.transitions.CreateEvent(c.Request.Context(), &service.CreateEventRequest{
		CaseID:          id,
		StateID:         req.StateID,
		Comment:         req.Comment,
		ActorID:         req.ActorID,
		ApplyTransition: req.ApplyTransition,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, toEventResponse(event))
}

// EligibleTargets handles GET /cases/:code/transitions.
func (h *CaseHandler) EligibleTargets(c *gin.Context) {
	id, ok := h.caseID(c)
	if !ok {
		return
	}

	targets, err := h.transitions.EligibleTargets(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, targets)
}

func (h *CaseHandler) caseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("code"), 10, 64)
	if err != nil {
		respondError(c, h.log, apperrors.InvalidInput("id", "case id must be numeric"))
		return 0, false
	}
	return id, true
}
