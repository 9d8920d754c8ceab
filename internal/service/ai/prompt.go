package ai

import (
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/zhouzirui/startup-chat/backend/internal/config"
)

// newPromptTemplate pairs the fixed system instruction with the instructional
// user template. The template takes a single "message" variable.
func newPromptTemplate(profile config.ModelProfile) prompt.ChatTemplate {
	return prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(profile.SystemInstruction),
		schema.UserMessage(profile.PromptTemplate),
	)
}
