package admin

import (
	"strings"

	handlershared "github.com/tresmontes-cajas/internal/http/handlers/shared"
	"github.com/tresmontes-cajas/internal/http/response"
	"github.com/tresmontes-cajas/internal/repository"
	"github.com/tresmontes-cajas/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateUserRequest new account.
type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
	PlantID  *uint  `json:"plant_id"`
	RUT      string `json:"rut"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// UpdateUserRequest partial account update; absent fields are left unchanged.
type UpdateUserRequest struct {
	Role     *string `json:"role"`
	PlantID  *uint   `json:"plant_id"`
	RUT      *string `json:"rut"`
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
	IsActive *bool   `json:"is_active"`
}

// ResetPasswordRequest new password set by an admin.
type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

// ListUsers pages through accounts.
func (h *Handler) ListUsers(c *gin.Context) {
	page, pageSize := handlershared.PageParams(c)
	users, total, err := h.UserService.List(repository.UserListFilter{
		Page:     page,
		PageSize: pageSize,
		Role:     strings.TrimSpace(c.Query("role")),
		PlantID:  handlershared.QueryUint(c, "plant_id"),
		Search:   strings.TrimSpace(c.Query("search")),
		IsActive: handlershared.QueryBool(c, "is_active"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.user_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, users, response.NewPagination(page, pageSize, total))
}

// GetUser returns one account.
func (h *Handler) GetUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	user, err := h.UserService.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, user)
}

// CreateUser creates an account.
func (h *Handler) CreateUser(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	user, err := h.UserService.Create(actor, service.CreateUserInput{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
		PlantID:  req.PlantID,
		RUT:      req.RUT,
		FullName: req.FullName,
		Email:    req.Email,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, user)
}

// UpdateUser changes an account; role, plant or status changes revoke its tokens.
func (h *Handler) UpdateUser(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	user, err := h.UserService.Update(c.Request.Context(), actor, id, service.UpdateUserInput{
		Role:     req.Role,
		PlantID:  req.PlantID,
		RUT:      req.RUT,
		FullName: req.FullName,
		Email:    req.Email,
		IsActive: req.IsActive,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, user)
}

// DeactivateUser disables an account.
func (h *Handler) DeactivateUser(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.UserService.Deactivate(c.Request.Context(), actor, id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}

// ResetUserPassword sets a new password and revokes the account's tokens.
func (h *Handler) ResetUserPassword(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.UserService.ResetPassword(c.Request.Context(), actor, id, req.Password); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}
