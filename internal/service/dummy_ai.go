package service

import (
	"context"
	"errors"
)

// ErrAIUnavailable is returned when no model is configured.
var ErrAIUnavailable = errors.New("AI summaries are not configured")

type dummyLLM struct{}

func (dummyLLM) GenerateResponse(context.Context, string) (string, error) {
	return "", ErrAIUnavailable
}

// NewDummyLLM returns an LLMClient that always reports ErrAIUnavailable.
func NewDummyLLM() LLMClient {
	return dummyLLM{}
}
