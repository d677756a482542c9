package handlers

import (
	"encoding/csv"
	"html/template"
	"net/http"
	"strconv"

	"euromillions/internal/models"
	"euromillions/internal/services"
	"euromillions/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"
)

// HTTPHandler holds the dependencies for the HTTP handlers, like the result service.
type HTTPHandler struct {
	service   *services.ResultService
	templates *template.Template
}

// NewHTTPHandler creates a new HTTPHandler.
func NewHTTPHandler(service *services.ResultService, templates *template.Template) *HTTPHandler {
	return &HTTPHandler{
		service:   service,
		templates: templates,
	}
}

// RegisterRoutes registers all the application routes.
func (h *HTTPHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/", h.ShowStatusPage)
	router.GET("/health", h.Health)
	router.GET("/api/snapshot", h.GetSnapshot)
	router.GET("/api/latest", h.GetLatest)
	router.GET("/api/history", h.GetHistory)
	router.GET("/api/verification", h.GetVerification)
	router.POST("/refresh", h.TriggerRefresh)
	router.GET("/export-history-csv", h.ExportHistoryCSV)
}

// Health reports service liveness.
func (h *HTTPHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "message": "EuroMillions service is running"})
}

// ShowStatusPage renders the status page for the current snapshot.
func (h *HTTPHandler) ShowStatusPage(c *gin.Context) {
	snap := h.service.Latest()
	if snap == nil {
		c.String(http.StatusServiceUnavailable, "No snapshot available yet; POST /refresh to run the pipeline.")
		return
	}
	if err := h.templates.ExecuteTemplate(c.Writer, "index.html", store.PageData(snap)); err != nil {
		logger.Infof("Error executing status page template: %v", err)
		c.String(http.StatusInternalServerError, "Template rendering error")
	}
}

// GetSnapshot returns the full snapshot of the most recent run.
func (h *HTTPHandler) GetSnapshot(c *gin.Context) {
	snap := h.service.Latest()
	if snap == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no snapshot available yet"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// GetLatest returns the small latest-draw summary.
func (h *HTTPHandler) GetLatest(c *gin.Context) {
	snap := h.service.Latest()
	if snap == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no snapshot available yet"})
		return
	}
	c.JSON(http.StatusOK, snap.Summary())
}

// GetHistory returns the normalized history of the most recent run.
func (h *HTTPHandler) GetHistory(c *gin.Context) {
	snap := h.service.Latest()
	if snap == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no snapshot available yet"})
		return
	}
	c.JSON(http.StatusOK, snap.History)
}

// GetVerification returns the agreement report of the most recent run.
func (h *HTTPHandler) GetVerification(c *gin.Context) {
	snap := h.service.Latest()
	if snap == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no snapshot available yet"})
		return
	}
	c.JSON(http.StatusOK, snap.Verification)
}

// TriggerRefresh runs the pipeline once and returns the fresh snapshot.
func (h *HTTPHandler) TriggerRefresh(c *gin.Context) {
	snap, err := h.service.Refresh(c.Request.Context())
	if err != nil {
		logger.Errorf("Refresh failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// ExportHistoryCSV handles the request to download the draw history as a CSV file.
func (h *HTTPHandler) ExportHistoryCSV(c *gin.Context) {
	snap := h.service.Latest()
	if snap == nil {
		c.String(http.StatusServiceUnavailable, "No snapshot available yet")
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment;filename=euromillions_history.csv")

	// Add BOM to ensure UTF-8 compatibility in Excel
	c.Writer.Write([]byte("\xef\xbb\xbf"))

	w := csv.NewWriter(c.Writer)

	if err := w.Write([]string{"Date", "Numbers", "Stars", "Jackpot (EUR)"}); err != nil {
		logger.Infof("Error writing CSV header: %v", err)
		c.String(http.StatusInternalServerError, "Error writing CSV")
		return
	}

	for _, d := range snap.History {
		jackpot := ""
		if d.JackpotEUR != nil {
			jackpot = strconv.FormatInt(*d.JackpotEUR, 10)
		}
		row := []string{d.Date.String(), models.JoinInts(d.Numbers), models.JoinInts(d.Stars), jackpot}
		if err := w.Write(row); err != nil {
			logger.Infof("Error writing CSV row: %v", err)
			c.String(http.StatusInternalServerError, "Error writing CSV")
			return
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		logger.Infof("Error flushing CSV writer: %v", err)
		c.String(http.StatusInternalServerError, "Error writing CSV")
	}
}
