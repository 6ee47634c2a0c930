package admin

import (
	"net/url"
	"strings"

	"github.com/tresmontes-cajas/internal/constants"
	"github.com/tresmontes-cajas/internal/http/response"
	"github.com/tresmontes-cajas/internal/logger"
	"github.com/tresmontes-cajas/internal/models"
	"github.com/tresmontes-cajas/internal/service"

	"github.com/gin-gonic/gin"
)

type authzRolePayload struct {
	Role string `json:"role" binding:"required"`
}

type authzPolicyPayload struct {
	Role   string `json:"role" binding:"required"`
	Object string `json:"object" binding:"required"`
	Action string `json:"action" binding:"required"`
}

// GetAuthzMe returns the caller's role and its policies.
func (h *Handler) GetAuthzMe(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	policies, err := h.AuthzService.GetRolePolicies(actor.Role)
	if err != nil {
		respondError(c, response.CodeInternal, "error.config_fetch_failed", err)
		return
	}
	response.Success(c, gin.H{
		"user_id":  actor.UserID,
		"role":     actor.Role,
		"policies": policies,
	})
}

// ListAuthzRoles lists casbin roles.
func (h *Handler) ListAuthzRoles(c *gin.Context) {
	roles, err := h.AuthzService.ListRoles()
	if err != nil {
		respondError(c, response.CodeInternal, "error.config_fetch_failed", err)
		return
	}
	response.Success(c, roles)
}

// CreateAuthzRole creates a role.
func (h *Handler) CreateAuthzRole(c *gin.Context) {
	var req authzRolePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	role, err := h.AuthzService.EnsureRole(req.Role)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	h.recordAuthzAudit(c, constants.AuditActionRoleCreate, models.JSON{"role": role})
	response.Success(c, gin.H{"role": role})
}

// DeleteAuthzRole deletes a role; built-in account roles cannot be removed.
func (h *Handler) DeleteAuthzRole(c *gin.Context) {
	role := decodeRoleParam(c.Param("role"))
	if strings.TrimSpace(role) == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	switch strings.TrimPrefix(role, "role:") {
	case constants.RoleAdmin, constants.RoleGuard, constants.RoleWorker:
		respondError(c, response.CodeBadRequest, "error.role_builtin", nil)
		return
	}

	if err := h.AuthzService.DeleteRole(role); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	h.recordAuthzAudit(c, constants.AuditActionRoleDelete, models.JSON{"role": role})
	response.Success(c, nil)
}

// GetAuthzRolePolicies lists the policies of a role.
func (h *Handler) GetAuthzRolePolicies(c *gin.Context) {
	role := decodeRoleParam(c.Param("role"))
	if strings.TrimSpace(role) == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	policies, err := h.AuthzService.GetRolePolicies(role)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	response.Success(c, policies)
}

// GrantAuthzPolicy grants an object/action pair to a role.
func (h *Handler) GrantAuthzPolicy(c *gin.Context) {
	var req authzPolicyPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.AuthzService.GrantRolePolicy(req.Role, req.Object, req.Action); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	h.recordAuthzAudit(c, constants.AuditActionPolicyGrant, models.JSON{
		"role":   req.Role,
		"object": req.Object,
		"method": strings.ToUpper(strings.TrimSpace(req.Action)),
	})
	response.Success(c, nil)
}

// RevokeAuthzPolicy removes an object/action pair from a role.
func (h *Handler) RevokeAuthzPolicy(c *gin.Context) {
	var req authzPolicyPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.AuthzService.RevokeRolePolicy(req.Role, req.Object, req.Action); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	h.recordAuthzAudit(c, constants.AuditActionPolicyRevoke, models.JSON{
		"role":   req.Role,
		"object": req.Object,
		"method": strings.ToUpper(strings.TrimSpace(req.Action)),
	})
	response.Success(c, nil)
}

func (h *Handler) recordAuthzAudit(c *gin.Context, action string, detail models.JSON) {
	actor, ok := currentActorQuiet(c)
	if !ok || h.AuditService == nil {
		return
	}
	if err := h.AuditService.Record(service.AuditRecordInput{
		Actor:  actor,
		Action: action,
		Detail: detail,
	}); err != nil {
		logger.Warnw("admin_authz_audit_record_failed",
			"error", err,
			"action", action,
			"operator_user_id", actor.UserID,
		)
	}
	logger.Infow("admin_authz_changed", "action", action, "operator_user_id", actor.UserID, "detail", detail)
}

func decodeRoleParam(value string) string {
	decoded, err := url.QueryUnescape(value)
	if err != nil {
		return strings.TrimSpace(value)
	}
	return strings.TrimSpace(decoded)
}
