package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/seguros-backoffice/internal/domain/entities"
	"github.com/rafabene/seguros-backoffice/internal/domain/errors"
	"github.com/rafabene/seguros-backoffice/internal/handlers/dto"
	"github.com/rafabene/seguros-backoffice/internal/handlers/middleware"
	"github.com/rafabene/seguros-backoffice/internal/services"
)

// DefaultAuditPageSize limita a consulta quando limit não é informado
const DefaultAuditPageSize = 50

// AuditHandler expõe a consulta ao log de auditoria (somente administradores)
type AuditHandler struct {
	auditService *services.AuditService
}

// NewAuditHandler cria um novo AuditHandler
func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// List GET /api/v1/audit?user=&entity=&operation=&limit=
func (h *AuditHandler) List(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)
	if !actor.Role.HasPermission(entities.PermissionUserManage) {
		_ = c.Error(errors.ErrForbidden)
		return
	}

	filter := entities.AuditFilter{
		Username:  c.Query("user"),
		Entity:    c.Query("entity"),
		Operation: c.Query("operation"),
		Limit:     DefaultAuditPageSize,
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			_ = c.Error(errors.ErrInvalidValue)
			return
		}
		filter.Limit = limit
	}

	entries, err := h.auditService.Query(c.Request.Context(), filter)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.ToAuditEntryResponses(entries))
}

// Stats GET /api/v1/audit/stats
func (h *AuditHandler) Stats(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)
	if !actor.Role.HasPermission(entities.PermissionUserManage) {
		_ = c.Error(errors.ErrForbidden)
		return
	}

	stats, err := h.auditService.Stats(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.ToAuditStatsResponse(stats))
}
