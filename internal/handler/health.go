package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthCheck 检查一个依赖是否可用，例如MySQL或Redis的Ping
type HealthCheck func(ctx context.Context) error

type HealthHandler interface {
	HealthCheck(c *gin.Context)
}

type healthHandler struct {
	checks  map[string]HealthCheck
	timeout time.Duration
}

func NewHealthHandler(checks map[string]HealthCheck) HealthHandler {
	return &healthHandler{checks: checks, timeout: 2 * time.Second}
}

// 任何一个依赖不可用都返回503，响应里带上每个依赖的状态
func (h *healthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	components := make(gin.H, len(names))
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			requestLogger(c).WithField("component", name).WithError(err).Warn("健康检查失败")
			components[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		components[name] = "up"
	}

	message := "OK"
	if status != http.StatusOK {
		message = "部分依赖不可用"
	}
	sendSuccess(c, status, components, message)
}
