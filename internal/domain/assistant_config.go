// File: internal/domain/assistant_config.go
package domain

// AssistantConfigKey is the well-known id of the single shared
// assistant configuration document.
const AssistantConfigKey = "assistant_config"

// DefaultSystemPrompt is used whenever the stored configuration cannot
// be read. Configuration reads fail soft to this value.
const DefaultSystemPrompt = "You are Venky's AI, a friendly and helpful assistant. " +
	"Answer clearly and concisely, and admit when you do not know something."

// AssistantConfig is the singleton document holding the system
// instruction used for every generation. Last write wins; there is no
// versioning and no per-user copy.
type AssistantConfig struct {
	Key          string `json:"-" gorm:"primarykey;column:key"`
	SystemPrompt string `json:"systemPrompt" gorm:"not null"`
}
