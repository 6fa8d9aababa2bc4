package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/option"
)

const (
	summaryModel     = "gemini-2.0-flash-lite-001"
	summaryMaxTokens = 512
	summaryPersona   = "You summarize GitHub issues and READMEs for developers deciding where to contribute. Answer in plain prose, no markdown headings."
)

// VertexLLM is the Gemini-backed LLMClient used for issue and README summaries.
type VertexLLM struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewVertexLLM(ctx context.Context, projectID, location string) (*VertexLLM, error) {
	var opts []option.ClientOption
	if creds := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); creds != "" {
		opts = append(opts, option.WithCredentialsFile(creds))
	}

	client, err := genai.NewClient(ctx, projectID, location, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vertex AI client: %w", err)
	}

	model := client.GenerativeModel(summaryModel)
	model.SetTemperature(0.3)
	model.SetTopP(0.8)
	model.SetMaxOutputTokens(summaryMaxTokens)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(summaryPersona)}}

	log.Printf("[Vertex LLM] Using %s in %s/%s", summaryModel, projectID, location)
	return &VertexLLM{client: client, model: model}, nil
}

// GenerateResponse joins every text part of the first candidate.
func (l *VertexLLM) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	resp, err := l.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("vertex generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("vertex generate: empty candidate list")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", fmt.Errorf("vertex generate: no text parts (finish reason %v)", resp.Candidates[0].FinishReason)
	}
	return out, nil
}

func (l *VertexLLM) Close() error {
	return l.client.Close()
}
