package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vicharak/vicharak-api/internal/dto"
	apierrors "github.com/vicharak/vicharak-api/internal/errors"
	"github.com/vicharak/vicharak-api/internal/middleware"
	"github.com/vicharak/vicharak-api/internal/services"
)

// CollaboratorHandler coordinates collaborator HTTP handlers, nested under
// the vichar routes.
type CollaboratorHandler struct {
	collaboratorService *services.CollaboratorService
}

// NewCollaboratorHandler creates a new CollaboratorHandler.
func NewCollaboratorHandler(collaboratorService *services.CollaboratorService) *CollaboratorHandler {
	return &CollaboratorHandler{
		collaboratorService: collaboratorService,
	}
}

// ListCollaborators returns the collaborator grants on a vichar.
func (h *CollaboratorHandler) ListCollaborators(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	vicharID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	collaborators, err := h.collaboratorService.ListCollaborators(vicharID, userID)
	if err != nil {
		respondCollaboratorError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"collaborators": dto.ToCollaboratorDTOs(collaborators),
	})
}

// AddCollaborator grants a role to a user on a vichar.
func (h *CollaboratorHandler) AddCollaborator(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	vicharID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type AddCollaboratorRequest struct {
		CollaboratorID uint64 `json:"collaborator_id" binding:"required"`
		RoleID         uint64 `json:"role_id" binding:"required"`
	}

	var req AddCollaboratorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	collaborator, err := h.collaboratorService.AddCollaborator(services.AddCollaboratorInput{
		VicharID:       vicharID,
		ActorID:        userID,
		CollaboratorID: req.CollaboratorID,
		RoleID:         req.RoleID,
	})
	if err != nil {
		respondCollaboratorError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Collaborator added successfully",
		"data":    dto.ToCollaboratorDTO(*collaborator),
	})
}

// UpdateCollaborator reassigns the role on an existing grant.
func (h *CollaboratorHandler) UpdateCollaborator(c *gin.Context) {
	vicharID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	targetUserID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	type UpdateCollaboratorRequest struct {
		RoleID uint64 `json:"role_id" binding:"required"`
	}

	var req UpdateCollaboratorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	collaborator, err := h.collaboratorService.UpdateCollaboratorRole(vicharID, targetUserID, req.RoleID)
	if err != nil {
		respondCollaboratorError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Collaborator updated successfully",
		"data":    dto.ToCollaboratorDTO(*collaborator),
	})
}

// RemoveCollaborator revokes a grant.
func (h *CollaboratorHandler) RemoveCollaborator(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	vicharID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	targetUserID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	if err := h.collaboratorService.RemoveCollaborator(vicharID, userID, targetUserID); err != nil {
		respondCollaboratorError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Collaborator removed successfully",
	})
}

func respondCollaboratorError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrVicharNotFound),
		errors.Is(err, services.ErrCollaboratorNotFound),
		errors.Is(err, services.ErrRoleNotFound),
		errors.Is(err, services.ErrTargetUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrVicharPermissionDenied):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrOwnerCannotCollaborate),
		errors.Is(err, services.ErrCollaboratorExists):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
