package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/zhouzirui/startup-chat/backend/internal/config"
)

// ErrUpstream marks failures of the model provider, including empty replies.
var ErrUpstream = errors.New("model service call failed")

// Service wraps a single prompt → chat model call.
type Service struct {
	profile config.ModelProfile
	chain   compose.Runnable[map[string]any, *schema.Message]
}

// NewService builds the provider model from configuration and compiles the chain.
func NewService(ctx context.Context, cfg config.AIConfig, profile config.ModelProfile) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	profile.Model = cfg.ModelName(profile)
	return NewServiceWithModel(ctx, chatModel, profile)
}

// NewServiceWithModel compiles the chain around an already constructed model.
func NewServiceWithModel(ctx context.Context, chatModel model.ChatModel, profile config.ModelProfile) (*Service, error) {
	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(newPromptTemplate(profile))
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{
		profile: profile,
		chain:   runnable,
	}, nil
}

// Generate sends the user's message through the fixed template and returns the reply text verbatim.
func (s *Service) Generate(ctx context.Context, message string) (string, error) {
	response, err := s.chain.Invoke(ctx, map[string]any{"message": message})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if response == nil || strings.TrimSpace(response.Content) == "" {
		return "", fmt.Errorf("%w: empty response from %s", ErrUpstream, s.profile.Model)
	}

	log.Printf("[ai] generated response model=%s, length=%d", s.profile.Model, len(response.Content))
	return response.Content, nil
}
