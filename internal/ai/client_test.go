package ai

import (
	"time"

	"strategy-tester/internal/config"
)

func testOpenAIConfig(apiKey string) config.OpenAIConfig {
	return config.OpenAIConfig{
		APIKey:  apiKey,
		BaseURL: "https://api.openai.com/v1",
		Model:   "gpt-4.1",
		Timeout: 5 * time.Second,
	}
}
