package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/seguros-backoffice/internal/domain/errors"
	"github.com/rafabene/seguros-backoffice/internal/handlers/dto"
	"github.com/rafabene/seguros-backoffice/internal/handlers/middleware"
	"github.com/rafabene/seguros-backoffice/internal/services"
)

// ReportHandler expõe os relatórios gerenciais em JSON
type ReportHandler struct {
	reportService *services.ReportService
}

// NewReportHandler cria um novo ReportHandler
func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// InsuredValue GET /api/v1/reports/insured-value
func (h *ReportHandler) InsuredValue(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)
	rows, err := h.reportService.InsuredValueByCustomer(c.Request.Context(), actor)
	respond(c, "insured_value", rows, err)
}

// PoliciesByType GET /api/v1/reports/policies-by-type
func (h *ReportHandler) PoliciesByType(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)
	rows, err := h.reportService.PoliciesByType(c.Request.Context(), actor)
	respond(c, "policies_by_type", rows, err)
}

// ClaimsByStatus GET /api/v1/reports/claims-by-status
func (h *ReportHandler) ClaimsByStatus(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)
	rows, err := h.reportService.ClaimsByStatus(c.Request.Context(), actor)
	respond(c, "claims_by_status", rows, err)
}

// MonthlyRevenue GET /api/v1/reports/monthly-revenue
func (h *ReportHandler) MonthlyRevenue(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)
	report, err := h.reportService.MonthlyRevenue(c.Request.Context(), actor)
	respond(c, "monthly_revenue", report, err)
}

// TopCustomers GET /api/v1/reports/top-customers?n=5
func (h *ReportHandler) TopCustomers(c *gin.Context) {
	n := services.DefaultTopCustomers
	if raw := c.Query("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			_ = c.Error(errors.ErrInvalidValue)
			return
		}
		n = parsed
	}

	actor, _ := middleware.ActorFrom(c)
	rows, err := h.reportService.TopCustomers(c.Request.Context(), actor, n)
	respond(c, "top_customers", rows, err)
}

// ClaimsByPeriod GET /api/v1/reports/claims?from=DD/MM/AAAA&to=DD/MM/AAAA
func (h *ReportHandler) ClaimsByPeriod(c *gin.Context) {
	from, err := queryDate(c, "from")
	if err != nil {
		_ = c.Error(err)
		return
	}
	to, err := queryDate(c, "to")
	if err != nil {
		_ = c.Error(err)
		return
	}

	actor, _ := middleware.ActorFrom(c)
	report, err := h.reportService.ClaimsByPeriod(c.Request.Context(), actor, from, to)
	if err != nil {
		_ = c.Error(err)
		return
	}
	middleware.RecordReport("claims_by_period")
	c.JSON(http.StatusOK, dto.ToClaimsReportResponse(report))
}

func respond(c *gin.Context, report string, body any, err error) {
	if err != nil {
		_ = c.Error(err)
		return
	}
	middleware.RecordReport(report)
	c.JSON(http.StatusOK, body)
}

func queryDate(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := services.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
