// internal/workers/enrichment/enrich-queue/router.go
package enrichqueue

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"prospect-enricher/internal/common/errors"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReadyFunc reports whether the process's dependencies are reachable.
type ReadyFunc func(ctx context.Context) error

// NewRouter builds the trigger endpoint plus health, readiness and metrics.
func NewRouter(h *Handler, ready ReadyFunc) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if ready != nil {
			if err := ready(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	trigger := r.Group("", h.authorize)
	trigger.GET(h.config.TriggerRoute, h.handleRun)
	trigger.POST(h.config.TriggerRoute, h.handleRun)
	return r
}

// authorize checks the scheduler's bearer secret when one is configured.
func (h *Handler) authorize(c *gin.Context) {
	if h.config.CronSecret == "" {
		c.Next()
		return
	}
	token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(h.config.CronSecret)) != 1 {
		err := errors.NewUnauthorizedError()
		c.AbortWithStatusJSON(errors.HTTPStatus(err), errors.ToResponse(err))
		return
	}
	c.Next()
}

func (h *Handler) handleRun(c *gin.Context) {
	// The batch outlives a dropped scheduler connection but not MaxDuration.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), h.config.MaxDuration)
	defer cancel()

	resp, err := h.Run(ctx)
	if err != nil {
		c.JSON(errors.HTTPStatus(err), errors.ToResponse(err))
		return
	}
	if resp.Empty() {
		c.JSON(http.StatusOK, gin.H{"message": resp.Message})
		return
	}
	c.JSON(http.StatusOK, resp)
}
