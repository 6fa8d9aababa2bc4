package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ahmednasr/contexthub/internal/models"
)

// LLMClient abstracts the text model used for summaries.
type LLMClient interface {
	GenerateResponse(ctx context.Context, prompt string) (string, error)
}

const (
	maxIssueBody     = 2000
	maxREADMEContent = 8000
)

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	// back off to a rune boundary
	for n > 0 && !isRuneStart(s[n]) {
		n--
	}
	return s[:n] + "…"
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }

func summarizeIssue(ctx context.Context, llm LLMClient, issue models.Issue) (string, error) {
	labels := make([]string, len(issue.Labels))
	for i, l := range issue.Labels {
		labels[i] = l.Name
	}
	prompt := fmt.Sprintf(`Summarize this GitHub issue for a potential contributor in two sentences.
Say what needs to be done and what a newcomer should look at first.

Title: %s
Labels: %s
Description:
%s`,
		issue.Title,
		strings.Join(labels, ", "),
		truncate(issue.Body, maxIssueBody))

	return llm.GenerateResponse(ctx, prompt)
}

func summarizeREADME(ctx context.Context, llm LLMClient, ref RepoRef, content string) (string, error) {
	prompt := fmt.Sprintf(`Summarize the README of %s/%s in one short paragraph followed by
up to five bullet points covering purpose, main features and how to get started.

README:
%s`,
		ref.Owner, ref.Name,
		truncate(content, maxREADMEContent))

	return llm.GenerateResponse(ctx, prompt)
}
