package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/yatube/pkg/response"
)

type healthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

// Health reports store and cache reachability. A down cache only degrades.
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	out := healthStatus{Status: "ok", Database: "ok", Cache: "ok"}
	status := http.StatusOK

	if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		out.Database = "down"
		out.Status = "down"
		status = http.StatusServiceUnavailable
	}
	if err := h.homeCache.Ping(ctx); err != nil {
		out.Cache = "down"
		if out.Status == "ok" {
			out.Status = "degraded"
		}
	}
	response.JSON(c, status, out)
}
