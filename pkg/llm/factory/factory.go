package factory

import (
	"fmt"

	"marketplace-be/pkg/llm"
	"marketplace-be/pkg/llm/gemini"
)

func NewProvider(providerType, modelName, apiKey string) (llm.Provider, error) {
	switch providerType {
	case "gemini", "":
		return gemini.NewGeminiProvider(apiKey, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
