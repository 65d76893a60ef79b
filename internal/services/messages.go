package services

import "gamechat/internal/models"

// BuildMessages converts client history plus the current message into
// Gemini turns. Entries sent by models.HumanSender become user turns, all
// others model turns. The current message is always last.
func BuildMessages(message string, history []models.HistoryEntry) []models.ProviderMessage {
	messages := make([]models.ProviderMessage, 0, len(history)+1)
	for _, entry := range history {
		role := models.RoleModel
		if entry.Sender == models.HumanSender {
			role = models.RoleUser
		}
		messages = append(messages, models.ProviderMessage{Role: role, Parts: []string{entry.Text}})
	}

	messages = append(messages, models.ProviderMessage{Role: models.RoleUser, Parts: []string{message}})
	return messages
}
