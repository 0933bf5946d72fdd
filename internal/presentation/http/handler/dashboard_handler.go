package handler

import (
	"github.com/aerocrest/fbo-api/internal/application/service"
	"github.com/aerocrest/fbo-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the operations dashboard
type DashboardHandler struct {
	reportService *service.ReportService
}

func NewDashboardHandler(reportService *service.ReportService) *DashboardHandler {
	return &DashboardHandler{reportService: reportService}
}

// Stats returns receipt counts, revenue, fuel volume and top fee codes
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.reportService.GetDashboardStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Dashboard stats retrieved successfully", stats)
}
