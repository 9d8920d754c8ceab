package config

import "google.golang.org/genai"

// ModelProfile is the fixed generation setup sent with every model call.
// It is built once at startup and passed by value.
type ModelProfile struct {
	Model             string
	Temperature       float32
	TopP              float32
	TopK              int32
	MaxOutputTokens   int
	ResponseMIMEType  string
	SystemInstruction string
	// PromptTemplate is an FString template; {message} receives the user's text.
	PromptTemplate string

	unblocked []genai.HarmCategory
}

// DefaultModelProfile returns the startup-analyst profile.
func DefaultModelProfile() ModelProfile {
	return ModelProfile{
		Model:            "gemini-1.5-pro",
		Temperature:      1,
		TopP:             0.95,
		TopK:             64,
		MaxOutputTokens:  8192,
		ResponseMIMEType: "text/plain",
		SystemInstruction: "You are a chatbot developed to provide details about industry startups using the Google Gemini API. " +
			"Answer with concrete companies, technologies and market context where possible.",
		PromptTemplate: "Provide information about industrial startups related to: {message}. " +
			"Focus on recent trends, innovations, and potential impact on the industry.",
		unblocked: []genai.HarmCategory{
			genai.HarmCategoryHarassment,
			genai.HarmCategoryHateSpeech,
		},
	}
}

// SafetySettings disables blocking for the unblocked categories only;
// every other category keeps the provider default.
func (p ModelProfile) SafetySettings() []*genai.SafetySetting {
	settings := make([]*genai.SafetySetting, 0, len(p.unblocked))
	for _, category := range p.unblocked {
		settings = append(settings, &genai.SafetySetting{
			Category:  category,
			Threshold: genai.HarmBlockThresholdBlockNone,
		})
	}
	return settings
}
