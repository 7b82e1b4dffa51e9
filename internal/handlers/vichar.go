package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vicharak/vicharak-api/internal/dto"
	apierrors "github.com/vicharak/vicharak-api/internal/errors"
	"github.com/vicharak/vicharak-api/internal/middleware"
	"github.com/vicharak/vicharak-api/internal/services"
	"github.com/vicharak/vicharak-api/internal/utils"
)

// VicharHandler coordinates vichar lifecycle HTTP handlers.
type VicharHandler struct {
	vicharService       *services.VicharService
	collaboratorService *services.CollaboratorService
}

// NewVicharHandler creates a new VicharHandler.
func NewVicharHandler(vicharService *services.VicharService, collaboratorService *services.CollaboratorService) *VicharHandler {
	return &VicharHandler{
		vicharService:       vicharService,
		collaboratorService: collaboratorService,
	}
}

// ListVichars returns active vichars the current user owns or collaborates
// on, with optional title search.
func (h *VicharHandler) ListVichars(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	params := utils.GetPaginationParams(c)

	vichars, total, err := h.vicharService.ListVichars(services.ListVicharsInput{
		UserID:      userID,
		TitleSearch: c.Query("search"),
		Page:        params.Page,
		PageSize:    params.Limit,
	})
	if err != nil {
		respondVicharError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"vichars": dto.ToVicharDTOs(vichars),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// ListDeletedVichars returns soft-deleted vichars related to the current user.
func (h *VicharHandler) ListDeletedVichars(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	vichars, err := h.vicharService.ListDeletedVichars(userID)
	if err != nil {
		respondVicharError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"vichars": dto.ToVicharDTOs(vichars),
	})
}

// CreateVichar creates a new vichar owned by the current user.
func (h *VicharHandler) CreateVichar(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateVicharRequest struct {
		Title string `json:"title" binding:"required"`
		Body  string `json:"body" binding:"required"`
	}

	var req CreateVicharRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	vichar, err := h.vicharService.CreateVichar(services.CreateVicharInput{
		Title:  req.Title,
		Body:   req.Body,
		UserID: userID,
	})
	if err != nil {
		respondVicharError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToVicharDTO(*vichar))
}

// GetVichar returns a vichar with the collaborator list the current user is
// allowed to see.
func (h *VicharHandler) GetVichar(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	vicharID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	vichar, err := h.vicharService.GetVichar(vicharID, userID)
	if err != nil {
		respondVicharError(c, err)
		return
	}

	collaborators, err := h.collaboratorService.ListCollaborators(vicharID, userID)
	if err != nil {
		respondVicharError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToVicharDetailDTO(*vichar, collaborators))
}

// UpdateVichar applies a partial update to a vichar.
func (h *VicharHandler) UpdateVichar(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	vicharID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateVicharRequest struct {
		Title *string `json:"title"`
		Body  *string `json:"body"`
	}

	var req UpdateVicharRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	vichar, err := h.vicharService.UpdateVichar(vicharID, userID, services.UpdateVicharInput{
		Title: req.Title,
		Body:  req.Body,
	})
	if err != nil {
		respondVicharError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToVicharDTO(*vichar))
}

// DeleteVichar soft deletes a vichar.
func (h *VicharHandler) DeleteVichar(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	vicharID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.vicharService.SoftDeleteVichar(vicharID, userID); err != nil {
		respondVicharError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Vichar deleted successfully",
	})
}

// RestoreVichar clears the deletion stamp of a soft-deleted vichar.
func (h *VicharHandler) RestoreVichar(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	vicharID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	vichar, err := h.vicharService.RestoreVichar(vicharID, userID)
	if err != nil {
		respondVicharError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToVicharDTO(*vichar))
}

// PermanentlyDeleteVichar removes a soft-deleted vichar for good.
func (h *VicharHandler) PermanentlyDeleteVichar(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	vicharID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.vicharService.PermanentlyDeleteVichar(vicharID, userID); err != nil {
		respondVicharError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Vichar deleted permanently",
	})
}

func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}

func respondVicharError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrVicharNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrVicharPermissionDenied):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTitleTooLong),
		errors.Is(err, services.ErrBodyRequired):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
