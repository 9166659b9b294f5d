package handler

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pdrbrnd/whatsinthebox/internal/repository"
	"github.com/pdrbrnd/whatsinthebox/internal/service"
)

// HTTPHandler exposes the pipeline entry points over HTTP for the external
// scheduler: enqueue-all, process-next, repair, channel sync. Everything
// except the health probe sits behind the shared-secret check.
type HTTPHandler struct {
	pipeline  *service.Pipeline
	sync      *service.ChannelSyncService
	backupSvc *service.BackupService
	queueRepo *repository.QueueRepository
	apiToken  string
}

// NewHTTPHandler creates a new HTTPHandler
func NewHTTPHandler(
	pipeline *service.Pipeline,
	sync *service.ChannelSyncService,
	backupSvc *service.BackupService,
	queueRepo *repository.QueueRepository,
	apiToken string,
) *HTTPHandler {
	return &HTTPHandler{
		pipeline:  pipeline,
		sync:      sync,
		backupSvc: backupSvc,
		queueRepo: queueRepo,
		apiToken:  strings.TrimSpace(apiToken),
	}
}

// RegisterRoutes registers all HTTP routes
func (h *HTTPHandler) RegisterRoutes(r *gin.Engine) {
	// Health check must allow unauthenticated ping for probes
	r.GET("/api/health", h.Health)

	api := r.Group("/api")
	api.Use(h.authMiddleware)

	api.POST("/queue/create", h.CreateQueue)
	api.POST("/queue/next", h.ProcessNext)
	api.POST("/schedule/:id/repair", h.RepairSchedule)
	api.POST("/channels/update", h.UpdateChannels)
	api.GET("/queue/status", h.QueueStatus)
	api.POST("/backup", h.Backup)
}

// CreateQueue enqueues one task per known channel
// POST /api/queue/create
func (h *HTTPHandler) CreateQueue(c *gin.Context) {
	dayOffset := service.DefaultDayOffset
	if raw := c.Query("day_offset"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid day_offset"})
			return
		}
		dayOffset = parsed
	}

	count, err := h.pipeline.EnqueueAll(dayOffset)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "ok", "enqueued": count})
}

// ProcessNext runs the pipeline for the next queued channel
// POST /api/queue/next
func (h *HTTPHandler) ProcessNext(c *gin.Context) {
	report, err := h.pipeline.ProcessNext()
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	if report.Idle {
		c.JSON(http.StatusOK, gin.H{"message": "No incomplete items in queue"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "ok", "report": report})
}

// RepairSchedule re-resolves one persisted schedule entry
// POST /api/schedule/:id/repair
func (h *HTTPHandler) RepairSchedule(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid schedule id"})
		return
	}

	result, err := h.pipeline.Repair(id)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "ok", "result": result})
}

// UpdateChannels syncs the provider channel directory
// POST /api/channels/update
func (h *HTTPHandler) UpdateChannels(c *gin.Context) {
	count, err := h.sync.Sync()
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "ok", "synced": count})
}

// QueueStatus reports how many tasks are still pending
// GET /api/queue/status
func (h *HTTPHandler) QueueStatus(c *gin.Context) {
	pending, err := h.queueRepo.CountPending()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"pending": pending})
}

// Backup triggers an on-demand database backup
// POST /api/backup
func (h *HTTPHandler) Backup(c *gin.Context) {
	backupPath, err := h.backupSvc.Backup()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"backup_path": backupPath})
}

// Health returns health status
func (h *HTTPHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// authMiddleware enforces Bearer token authentication against the configured API token.
func (h *HTTPHandler) authMiddleware(c *gin.Context) {
	if h.apiToken == "" {
		c.JSON(http.StatusForbidden, gin.H{"error": "API_TOKEN not set"})
		c.Abort()
		return
	}

	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid Authorization header"})
		c.Abort()
		return
	}

	if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(h.apiToken)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		c.Abort()
		return
	}

	c.Next()
}
