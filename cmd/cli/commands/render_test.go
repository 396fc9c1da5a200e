package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smartagri/seat-allocator/pkg/core/model"
)

func TestStatusColor(t *testing.T) {
	tests := []struct {
		status   model.Status
		expected string
	}{
		{model.StatusProvisionallyApproved, colorGreen},
		{model.StatusApproved, colorGreen},
		{model.StatusWaiting, colorYellow},
		{model.StatusRejected, colorRed},
		{model.StatusPending, colorDim},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.expected, statusColor(tt.status))
		})
	}
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "PROVISIONALLY APPROVED", statusLabel(model.StatusProvisionallyApproved))
	assert.Equal(t, "WAITING", statusLabel(model.StatusWaiting))
}

func TestFormatLimit(t *testing.T) {
	income := 150000
	land := 2.5

	assert.Equal(t, "none", formatLimit[int](nil, ""))
	assert.Equal(t, "150000", formatLimit(&income, ""))
	assert.Equal(t, "2.5 acres", formatLimit(&land, " acres"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "Sunita Pa…", truncate("Sunita Patil", 10))
}
