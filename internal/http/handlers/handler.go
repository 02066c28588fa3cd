package handlers

import (
	"dinedesk-pos-service/internal/config"
	"dinedesk-pos-service/internal/kds"
	"dinedesk-pos-service/internal/pos"
	"dinedesk-pos-service/internal/reports"
	"dinedesk-pos-service/internal/upstream"

	"go.uber.org/zap"
)

type Handler struct {
	Logger   *zap.Logger
	Config   config.Config
	Registry *pos.Registry
	Kitchen  *kds.Service
	Feed     *kds.Feed
	Reports  *reports.Service
	Upstream *upstream.Client
}
