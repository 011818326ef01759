// internal/handler/print_handler.go
package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"receipt-service/internal/model"
	"receipt-service/internal/payload"
	"receipt-service/internal/service"
	"receipt-service/internal/utils"
)

// PrintHandler handles receipt, drawer and queue requests
type PrintHandler struct {
	printerService *service.PrinterService
	logger         *utils.ServiceLogger
}

// NewPrintHandler creates a new print handler
func NewPrintHandler(printerService *service.PrinterService, logger *zap.Logger) *PrintHandler {
	return &PrintHandler{
		printerService: printerService,
		logger:         utils.NewServiceLogger(logger, "print-handler"),
	}
}

// RegisterRoutes registers print routes
func (h *PrintHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/print", h.PrintReceipt)
	router.POST("/preview", h.PreviewReceipt)
	router.POST("/open-drawer", h.OpenDrawer)
	router.POST("/test-page", h.PrintTestPage)

	queues := router.Group("/queues")
	{
		queues.GET("", h.ListQueues)
		queues.GET("/discover", h.DiscoverPorts)
	}

	router.GET("/jobs", h.ListJobs)
}

// PrintReceipt prints a receipt
// @Summary Print a receipt
// @Description Reconcile totals, render the receipt and send it to the printer queue. Accepts the current and the legacy payload formats.
// @Tags Printing
// @Accept json
// @Produce json
// @Param request body object true "Receipt payload"
// @Success 200 {object} utils.APIResponse{data=service.PrintResult} "Receipt printed"
// @Failure 400 {object} utils.APIResponse "Invalid payload"
// @Failure 404 {object} utils.APIResponse "Printer queue not found"
// @Failure 409 {object} utils.APIResponse "Printer queue busy"
// @Failure 422 {object} utils.APIResponse "Receipt could not be rendered"
// @Failure 502 {object} utils.APIResponse "Printer write failed"
// @Router /print [post]
func (h *PrintHandler) PrintReceipt(c *gin.Context) {
	req, ok := h.parseReceipt(c)
	if !ok {
		return
	}

	result, err := h.printerService.PrintReceipt(h.context(c), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Receipt printed", result)
}

// PreviewReceipt renders a receipt to PNG
// @Summary Preview a receipt
// @Description Render the receipt exactly as the printer would receive it and return a PNG. Nothing is printed.
// @Tags Printing
// @Accept json
// @Produce png
// @Param request body object true "Receipt payload"
// @Success 200 {file} binary "PNG image"
// @Failure 400 {object} utils.APIResponse "Invalid payload"
// @Failure 422 {object} utils.APIResponse "Receipt could not be rendered"
// @Router /preview [post]
func (h *PrintHandler) PreviewReceipt(c *gin.Context) {
	req, ok := h.parseReceipt(c)
	if !ok {
		return
	}

	png, err := h.printerService.PreviewReceipt(h.context(c), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

// OpenDrawer kicks the cash drawer
// @Summary Open the cash drawer
// @Description Send the drawer kick pulse. The body is optional; queue and pin default to the printer configuration.
// @Tags Printing
// @Accept json
// @Produce json
// @Param request body service.DrawerRequest false "Drawer request"
// @Success 200 {object} utils.APIResponse{data=service.JobResult} "Drawer opened"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 404 {object} utils.APIResponse "Printer queue not found"
// @Failure 409 {object} utils.APIResponse "Printer queue busy"
// @Router /open-drawer [post]
func (h *PrintHandler) OpenDrawer(c *gin.Context) {
	var req service.DrawerRequest
	if !h.bindOptional(c, &req) {
		return
	}

	result, err := h.printerService.OpenDrawer(h.context(c), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "drawer opened", result)
}

// PrintTestPage prints the printer settings
// @Summary Print a test page
// @Description Print the configured printer settings under a "Test page" title
// @Tags Printing
// @Accept json
// @Produce json
// @Param request body service.TestPageRequest false "Test page request"
// @Success 200 {object} utils.APIResponse{data=service.JobResult} "Test page printed"
// @Failure 404 {object} utils.APIResponse "Printer queue not found"
// @Failure 409 {object} utils.APIResponse "Printer queue busy"
// @Router /test-page [post]
func (h *PrintHandler) PrintTestPage(c *gin.Context) {
	var req service.TestPageRequest
	if !h.bindOptional(c, &req) {
		return
	}

	result, err := h.printerService.PrintTestPage(h.context(c), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Test page printed", result)
}

// ListQueues lists the registered printer queues
// @Summary List printer queues
// @Tags Queues
// @Produce json
// @Success 200 {object} utils.APIResponse{data=[]transport.QueueInfo} "Queues retrieved"
// @Router /queues [get]
func (h *PrintHandler) ListQueues(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "Queues retrieved successfully", h.printerService.ListQueues())
}

// DiscoverPorts lists serial ports and USB printers on the host
// @Summary Discover printer ports
// @Description List serial ports and USB printer-class devices attached to the host
// @Tags Queues
// @Produce json
// @Success 200 {object} utils.APIResponse{data=object{ports_found=int,ports=[]transport.DiscoveredPort}} "Discovery completed"
// @Router /queues/discover [get]
func (h *PrintHandler) DiscoverPorts(c *gin.Context) {
	ports := h.printerService.DiscoverPorts()
	utils.SuccessResponse(c, http.StatusOK, "Port discovery completed", gin.H{
		"ports_found": len(ports),
		"ports":       ports,
	})
}

// ListJobs lists recent print jobs
// @Summary List recent jobs
// @Tags Jobs
// @Produce json
// @Param limit query int false "Maximum number of jobs" default(50)
// @Success 200 {object} utils.APIResponse{data=[]model.JobRecord} "Jobs retrieved"
// @Failure 400 {object} utils.APIResponse "Invalid limit"
// @Router /jobs [get]
func (h *PrintHandler) ListJobs(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		l, err := strconv.Atoi(raw)
		if err != nil || l < 0 {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		limit = l
	}

	jobs, err := h.printerService.RecentJobs(c.Request.Context(), limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if jobs == nil {
		jobs = []*model.JobRecord{}
	}

	utils.SuccessResponse(c, http.StatusOK, "Jobs retrieved successfully", jobs)
}

func (h *PrintHandler) parseReceipt(c *gin.Context) (*payload.Receipt, bool) {
	body, err := c.GetRawData()
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to read request body", err)
		return nil, false
	}

	req, err := payload.Parse(body)
	if err != nil {
		respondError(c, h.logger, err)
		return nil, false
	}
	return req, true
}

// bindOptional decodes a JSON body when one was sent
func (h *PrintHandler) bindOptional(c *gin.Context, dst interface{}) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	return true
}

func (h *PrintHandler) context(c *gin.Context) context.Context {
	return service.WithRequestID(c.Request.Context(), c.GetString("request_id"))
}
