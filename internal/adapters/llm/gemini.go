package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/rkanzaki/shopscout/internal/domain"
)

// GeminiClient implements both domain.DialogueModel and
// domain.TextGenerator on top of Vertex AI (Gemini).
type GeminiClient struct {
	client    *genai.Client
	modelName string
}

// NewGeminiClient creates the Vertex-backed LLM client.
func NewGeminiClient(ctx context.Context, projectID, location, modelName string) (*GeminiClient, error) {
	if projectID == "" || location == "" {
		return nil, fmt.Errorf("gemini: project and location are required")
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Vertex AI client: %w", err)
	}

	return &GeminiClient{
		client:    client,
		modelName: modelName,
	}, nil
}

// Predict implements domain.DialogueModel: the full prior history is
// replayed as conversation contents, the new utterance goes last.
func (g *GeminiClient) Predict(ctx context.Context, history []domain.Turn, utterance string) (string, error) {
	var contents []*genai.Content
	for _, t := range history {
		contents = append(contents, genai.NewContentFromText(t.User, genai.RoleUser))
		contents = append(contents, genai.NewContentFromText(t.Assistant, genai.RoleModel))
	}
	contents = append(contents, genai.NewContentFromText(utterance, genai.RoleUser))

	temp := float32(0.7)
	topP := float32(0.9)
	outputTokens := int32(1024)

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(shopperSystemPrompt, genai.RoleUser),
		Temperature:       &temp,
		TopP:              &topP,
		MaxOutputTokens:   outputTokens,
	}

	res, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	text := res.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned empty text")
	}
	return text, nil
}

// Complete implements domain.TextGenerator: stateless single-shot call,
// low temperature so extraction is as deterministic as the model allows.
func (g *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	temp := float32(0.2)
	outputTokens := int32(256)

	cfg := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: outputTokens,
	}

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	res, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini complete: %w", err)
	}

	text := res.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned empty text")
	}
	return text, nil
}
