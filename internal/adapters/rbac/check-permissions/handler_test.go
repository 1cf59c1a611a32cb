// internal/adapters/rbac/check-permissions/handler_test.go
package checkpermissions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"knowledge-search/internal/access"
	apperrors "knowledge-search/internal/common/errors"
	"knowledge-search/internal/common/logger"
	"knowledge-search/internal/common/simulate"
	"knowledge-search/internal/models"
)

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		userID     string
		level      models.RoleID
		restricted bool
	}{
		{"user-001", models.RoleSupportAgent, true},
		{"user-003", models.RoleKnowledgeAuthor, true},
		{"user-004", models.RoleAdmin, false},
	}

	h := NewHandler(LoadConfig(), simulate.Instant(), logger.NewTestLogger(t))
	for _, tt := range tests {
		t.Run(tt.userID, func(t *testing.T) {
			s, err := access.NewDirectory().Session(tt.userID, "")
			require.NoError(t, err)

			out, err := h.Execute(context.Background(), &Input{Session: s})
			require.NoError(t, err)
			assert.Equal(t, tt.userID, out.UserID)
			assert.Equal(t, tt.level, out.AccessLevel)
			assert.Equal(t, tt.restricted, out.RestrictedContent)
			assert.Equal(t, s.User.Role.AllowedCategories, out.AllowedCategories)
		})
	}
}

func TestHandler_Execute_WaitsLatency(t *testing.T) {
	cfg := &Config{Latency: 30 * time.Millisecond}
	h := NewHandler(cfg, simulate.New(simulate.Fixed(0.5), 1), nil)
	s, err := access.NewDirectory().Session("", "")
	require.NoError(t, err)

	started := time.Now()
	_, err = h.Execute(context.Background(), &Input{Session: s})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(started), 30*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	_, err = h.Execute(ctx, &Input{Session: s})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrTypeTimeout, apperrors.Classify(err).Type)
}
