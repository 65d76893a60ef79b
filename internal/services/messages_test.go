package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gamechat/internal/models"
)

func TestBuildMessages(t *testing.T) {
	tests := []struct {
		name    string
		message string
		history []models.HistoryEntry
		want    []models.ProviderMessage
	}{
		{
			name:    "no history",
			message: "Hello",
			want: []models.ProviderMessage{
				{Role: models.RoleUser, Parts: []string{"Hello"}},
			},
		},
		{
			name:    "sender mapping",
			message: "And the sequel?",
			history: []models.HistoryEntry{
				{Sender: "Usuario", Text: "Who made Hollow Knight?"},
				{Sender: "Asistente", Text: "Team Cherry."},
				{Sender: "", Text: ""},
				{Sender: "usuario", Text: "lowercase is not the human"},
			},
			want: []models.ProviderMessage{
				{Role: models.RoleUser, Parts: []string{"Who made Hollow Knight?"}},
				{Role: models.RoleModel, Parts: []string{"Team Cherry."}},
				{Role: models.RoleModel, Parts: []string{""}},
				{Role: models.RoleModel, Parts: []string{"lowercase is not the human"}},
				{Role: models.RoleUser, Parts: []string{"And the sequel?"}},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := BuildMessages(tc.message, tc.history)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestBuildMessages_Deterministic(t *testing.T) {
	history := []models.HistoryEntry{{Sender: "Usuario", Text: "a"}, {Sender: "Bot", Text: "b"}}

	first := BuildMessages("c", history)
	second := BuildMessages("c", history)

	assert.Equal(t, first, second)
	assert.Len(t, history, 2, "input history must not be modified")
}

func TestBuildMessages_CurrentMessageAlwaysLast(t *testing.T) {
	history := []models.HistoryEntry{{Sender: "Usuario", Text: "earlier"}}

	got := BuildMessages("now", history)

	last := got[len(got)-1]
	assert.Equal(t, models.RoleUser, last.Role)
	assert.Equal(t, []string{"now"}, last.Parts)
}
