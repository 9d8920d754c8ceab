package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/components/model"
	"google.golang.org/genai"
)

const (
	ProviderGemini = "gemini"
	ProviderArk    = "ark"
)

// AIConfig 描述大模型相关配置。
type AIConfig struct {
	Provider     string
	GeminiAPIKey string
	ArkAPIKey    string
	ArkAccessKey string
	ArkSecretKey string
	ArkModel     string
	ArkBaseURL   string
	ArkRegion    string
}

// Enabled 表示所选供应商是否提供了必需的密钥。
func (c AIConfig) Enabled() bool {
	switch c.Provider {
	case ProviderGemini:
		return c.GeminiAPIKey != ""
	case ProviderArk:
		return c.ArkModel != "" && (c.ArkAPIKey != "" || (c.ArkAccessKey != "" && c.ArkSecretKey != ""))
	default:
		return false
	}
}

// NewChatModel 使用配置与固定的生成参数创建一个模型实例。
func (c AIConfig) NewChatModel(ctx context.Context, profile ModelProfile) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("%s 凭证或模型配置缺失", c.Provider)
	}

	switch c.Provider {
	case ProviderGemini:
		return c.newGeminiModel(ctx, profile)
	case ProviderArk:
		return c.newArkModel(ctx, profile)
	default:
		return nil, fmt.Errorf("unsupported MODEL_PROVIDER %q", c.Provider)
	}
}

// ModelName reports the model actually addressed: Ark uses its own endpoint model id.
func (c AIConfig) ModelName(profile ModelProfile) string {
	if c.Provider == ProviderArk {
		return c.ArkModel
	}
	return profile.Model
}

func (c AIConfig) newGeminiModel(ctx context.Context, profile ModelProfile) (model.ChatModel, error) {
	// The eino component exposes no MIME knob; Gemini answers in plain text unless a schema is set.
	if profile.ResponseMIMEType != "text/plain" {
		return nil, fmt.Errorf("unsupported response mime type %q", profile.ResponseMIMEType)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  c.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	temperature := profile.Temperature
	topP := profile.TopP
	topK := profile.TopK
	maxTokens := profile.MaxOutputTokens

	return gemini.NewChatModel(ctx, &gemini.Config{
		Client:         client,
		Model:          profile.Model,
		MaxTokens:      &maxTokens,
		Temperature:    &temperature,
		TopP:           &topP,
		TopK:           &topK,
		SafetySettings: profile.SafetySettings(),
	})
}

func (c AIConfig) newArkModel(ctx context.Context, profile ModelProfile) (model.ChatModel, error) {
	temperature := profile.Temperature
	topP := profile.TopP
	maxTokens := profile.MaxOutputTokens

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.ArkBaseURL,
		Region:      c.ArkRegion,
		APIKey:      c.ArkAPIKey,
		AccessKey:   c.ArkAccessKey,
		SecretKey:   c.ArkSecretKey,
		Model:       c.ArkModel,
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
		TopP:        &topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	provider := strings.ToLower(getEnvOrDefault("MODEL_PROVIDER", ProviderGemini))
	if provider != ProviderGemini && provider != ProviderArk {
		return AIConfig{}, fmt.Errorf("invalid MODEL_PROVIDER value %q", provider)
	}

	return AIConfig{
		Provider:     provider,
		GeminiAPIKey: strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		ArkAPIKey:    strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		ArkAccessKey: strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		ArkSecretKey: strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		ArkModel:     strings.TrimSpace(os.Getenv("ARK_MODEL")),
		ArkBaseURL:   getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		ArkRegion:    getEnvOrDefault("ARK_REGION", "cn-beijing"),
	}, nil
}
