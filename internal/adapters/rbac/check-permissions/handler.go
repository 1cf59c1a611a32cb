// internal/adapters/rbac/check-permissions/handler.go
package checkpermissions

import (
	"context"

	"knowledge-search/internal/access"
	"knowledge-search/internal/adapters"
	"knowledge-search/internal/common/logger"
	"knowledge-search/internal/common/simulate"
)

const (
	TaskType = "check-permissions"
)

type Handler struct {
	config *Config
	sim    *simulate.Simulator
	logger logger.Logger
}

func NewHandler(config *Config, sim *simulate.Simulator, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		sim:    sim,
		logger: logger.OrNoOp(log).With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return adapters.Instrument(ctx, TaskType, input.Session, func(ctx context.Context) (*Output, error) {
		if err := h.sim.Latency(ctx, h.config.Latency, h.config.Latency); err != nil {
			return nil, err
		}

		check := access.Check(input.Session.User)
		h.logger.Debug("permissions resolved", map[string]interface{}{
			"userId":      check.UserID,
			"accessLevel": check.AccessLevel,
		})
		return &check, nil
	})
}
