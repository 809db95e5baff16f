// Package handler exposes the service layer over HTTP with gin. JSON field
// names are the stable contract with the dashboard UI and must not change.
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gestor-labs/be-case-tracking/internal/apperrors"
	"github.com/gestor-labs/be-case-tracking/internal/logger"
	"github.com/gestor-labs/be-case-tracking/internal/repository"
	"github.com/gestor-labs/be-case-tracking/internal/service"
	"github.com/gestor-labs/be-case-tracking/internal/workflow"
)

// Service interfaces consumed by the handlers; the service package provides
// the implementations.

// CaseAPI is the case CRUD surface.
type CaseAPI interface {
	ListCases(ctx context.Context) ([]*repository.Case, error)
	GetCase(ctx context.Context, code string) (*repository.Case, error)
	CreateCase(ctx context.Context, req *service.CreateCaseRequest) (*repository.Case, error)
	UpdateCase(ctx context.Context, id int64, req *service.UpdateCaseRequest) (*repository.Case, error)
	DeleteCase(ctx context.Context, id int64) error
}

// TransitionAPI is the transition engine surface.
type TransitionAPI interface {
	CreateEvent(ctx context.Context, req *service.CreateEventRequest) (*repository.Event, error)
	EligibleTargets(ctx context.Context, caseID int64) ([]workflow.State, error)
}

// CatalogAPI serves reference data.
type CatalogAPI interface {
	States(ctx context.Context) ([]service.StateWithNext, error)
	Templates(ctx context.Context) ([]workflow.CommentTemplate, error)
}

// UserAPI lists operators.
type UserAPI interface {
	ListUsers(ctx context.Context) ([]*repository.User, error)
}

// errorResponse is the failure body. The UI surfaces detail verbatim in a
// transient notice.
type errorResponse struct {
	Code   apperrors.Code `json:"code"`
	Detail string         `json:"detail"`
}

func respondError(c *gin.Context, log *logger.Logger, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= 500 {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	c.JSON(status, errorResponse{Code: apperrors.CodeOf(err), Detail: err.Error()})
}

func respondBadBody(c *gin.Context) {
	c.JSON(http.StatusBadRequest, errorResponse{Code: apperrors.CodeValidation, Detail: "invalid request body"})
}
