package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nlac-edu/gradetrack-api/internal/syncer"
	"github.com/nlac-edu/gradetrack-api/pkg/response"
)

// SyncHandler exposes the explicit-save push and the status report.
type SyncHandler struct {
	sync *syncer.Syncer
}

// NewSyncHandler constructs SyncHandler.
func NewSyncHandler(sync *syncer.Syncer) *SyncHandler {
	return &SyncHandler{sync: sync}
}

// Push godoc
// @Summary Mirror the current data to every sync tier
// @Tags Sync
// @Produce json
// @Success 202 {object} response.Envelope
// @Router /sync/push [post]
func (h *SyncHandler) Push(c *gin.Context) {
	if err := h.sync.PushAll(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, gin.H{"status": "queued"})
}

// Status godoc
// @Summary Report sync flag, last sync time and tier reachability
// @Tags Sync
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /sync/status [get]
func (h *SyncHandler) Status(c *gin.Context) {
	status, err := h.sync.Status(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status)
}
