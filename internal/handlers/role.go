package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vicharak/vicharak-api/internal/dto"
	apierrors "github.com/vicharak/vicharak-api/internal/errors"
	"github.com/vicharak/vicharak-api/internal/models"
	"github.com/vicharak/vicharak-api/internal/services"
	"github.com/vicharak/vicharak-api/internal/utils"
)

// RoleHandler coordinates role HTTP handlers. Mutating routes are gated by
// the staff middleware.
type RoleHandler struct {
	roleService *services.RoleService
}

// NewRoleHandler creates a new RoleHandler.
func NewRoleHandler(roleService *services.RoleService) *RoleHandler {
	return &RoleHandler{
		roleService: roleService,
	}
}

// ListRoles returns roles with optional name search.
func (h *RoleHandler) ListRoles(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	roles, total, err := h.roleService.ListRoles(services.ListRolesInput{
		NameSearch: c.Query("search"),
		Page:       params.Page,
		PageSize:   params.Limit,
	})
	if err != nil {
		respondRoleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"roles": dto.ToRoleDTOs(roles),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetRole returns a role by ID.
func (h *RoleHandler) GetRole(c *gin.Context) {
	roleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	role, err := h.roleService.GetRole(roleID)
	if err != nil {
		respondRoleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRoleDTO(*role))
}

// CreateRole creates a new role. Staff only.
func (h *RoleHandler) CreateRole(c *gin.Context) {
	type CreateRoleRequest struct {
		Name        string              `json:"name" binding:"required"`
		Permissions []models.Permission `json:"permissions" binding:"required"`
	}

	var req CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	role, err := h.roleService.CreateRole(services.CreateRoleInput{
		Name:        req.Name,
		Permissions: req.Permissions,
	})
	if err != nil {
		respondRoleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToRoleDTO(*role))
}

// UpdateRole applies a partial update to a role. Staff only.
func (h *RoleHandler) UpdateRole(c *gin.Context) {
	roleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateRoleRequest struct {
		Name        *string             `json:"name"`
		Permissions []models.Permission `json:"permissions"`
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	role, err := h.roleService.UpdateRole(roleID, services.UpdateRoleInput{
		Name:        req.Name,
		Permissions: req.Permissions,
	})
	if err != nil {
		respondRoleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRoleDTO(*role))
}

// DeleteRole removes a role. Staff only.
func (h *RoleHandler) DeleteRole(c *gin.Context) {
	roleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.roleService.DeleteRole(roleID); err != nil {
		respondRoleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Role deleted successfully",
	})
}

func respondRoleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrRoleNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrRoleNameTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrRoleNameRequired),
		errors.Is(err, services.ErrRoleNameTooLong),
		errors.Is(err, services.ErrPermissionsRequired),
		errors.Is(err, services.ErrUnknownPermission):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
