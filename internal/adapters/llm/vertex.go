package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/PabloGalante/innerguide/internal/domain"
)

type VertexClient struct {
	client    *genai.Client
	modelName string
}

// NewVertexClient creates a CompletionClient based on Vertex AI (Gemini).
// Personality model ids name OpenAI models, so every request goes to modelName.
func NewVertexClient(ctx context.Context, projectID, location, modelName string) (*VertexClient, error) {
	if projectID == "" || location == "" {
		return nil, fmt.Errorf("INNERGUIDE_GCP_PROJECT and INNERGUIDE_GCP_LOCATION must be set")
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

	return &VertexClient{
		client:    client,
		modelName: modelName,
	}, nil
}

// toContents maps chat turns onto Gemini roles.
func toContents(history []domain.ChatTurn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, t := range history {
		role := genai.Role(genai.RoleUser)
		if t.Role == domain.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(t.Content, role))
	}
	return contents
}

// Complete implements domain.CompletionClient using Vertex AI.
func (v *VertexClient) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	temp := float32(req.Temperature)
	cfg := &genai.GenerateContentConfig{
		// the system instruction is sent with the user role, as in the SDK examples
		SystemInstruction: genai.NewContentFromText(req.System, genai.RoleUser),
		Temperature:       &temp,
		MaxOutputTokens:   int32(req.MaxTokens),
	}

	res, err := v.client.Models.GenerateContent(ctx, v.modelName, toContents(req.History), cfg)
	if err != nil {
		return "", fmt.Errorf("vertex generate content: %w", err)
	}

	text := res.Text()
	if text == "" {
		return EmptyReply, nil
	}
	return text, nil
}
