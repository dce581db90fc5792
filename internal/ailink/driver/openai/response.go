package openai

import (
	"fmt"

	"github.com/nextgenai/nextgen/internal/ailink/content"
	"github.com/nextgenai/nextgen/internal/ailink/driver"
)

type chatCompletionResponse struct {
	Choices []choice `json:"choices"`
	Usage   *usage   `json:"usage,omitempty"`
}

type choice struct {
	Message      chatResponseMessage `json:"message"`
	FinishReason string              `json:"finish_reason"`
}

type chatResponseMessage struct {
	Content *string `json:"content"`
}

type usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

func toDriverResponse(resp *chatCompletionResponse) (*driver.Response, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response choices")
	}

	first := resp.Choices[0]
	if first.Message.Content == nil {
		return nil, fmt.Errorf("choice has no message content")
	}

	response := &driver.Response{
		Content:      []content.ContentBlock{{Type: content.ContentTypeText, Text: *first.Message.Content}},
		FinishReason: first.FinishReason,
	}
	if resp.Usage != nil {
		response.Usage = &driver.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}
	return response, nil
}
