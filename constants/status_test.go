package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerationStatus_Terminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusGenerating.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusFailed.Terminal())
}

func TestGenerationStatus_CanAdvanceTo(t *testing.T) {
	tests := []struct {
		name string
		from GenerationStatus
		to   GenerationStatus
		want bool
	}{
		{"pending to generating", StatusPending, StatusGenerating, true},
		{"pending to completed", StatusPending, StatusCompleted, true},
		{"pending to failed", StatusPending, StatusFailed, true},
		{"generating to completed", StatusGenerating, StatusCompleted, true},
		{"generating to failed", StatusGenerating, StatusFailed, true},
		{"generating to pending is a regression", StatusGenerating, StatusPending, false},
		{"completed never regresses", StatusCompleted, StatusPending, false},
		{"completed never becomes failed", StatusCompleted, StatusFailed, false},
		{"failed never becomes completed", StatusFailed, StatusCompleted, false},
		{"failed never regresses", StatusFailed, StatusGenerating, false},
		{"same status is a no-op", StatusGenerating, StatusGenerating, true},
		{"same terminal status is a no-op", StatusCompleted, StatusCompleted, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanAdvanceTo(tt.to))
		})
	}
}

func TestNormalizeExt(t *testing.T) {
	assert.Equal(t, "docx", NormalizeExt(".DOCX"))
	assert.Equal(t, "pdf", NormalizeExt("pdf"))
	assert.Equal(t, "", NormalizeExt("."))
}
