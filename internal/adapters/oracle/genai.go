// Package oracle adapts the Gemini API to the interpreter's OraclePort
package oracle

import (
	"context"

	"google.golang.org/genai"

	perr "raidcall/internal/platform/errors"
)

// Config holds the Vertex connection settings
type Config struct {
	Project  string
	Location string
	Model    string
}

// Client calls Gemini through Vertex AI
type Client struct {
	client *genai.Client
	model  string
}

// New dials Vertex and returns a ready client
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Project == "" || cfg.Location == "" {
		return nil, perr.Newf(perr.ErrorCodeInvalidArgument, "oracle requires project and location")
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  cfg.Project,
		Location: cfg.Location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "creating vertex client")
	}
	return &Client{client: gc, model: model}, nil
}

// Complete sends one system+user exchange and returns the raw model text
// Extraction wants determinism so temperature stays near zero
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	temp := float32(0.1)
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       &temp,
		MaxOutputTokens:   256,
	}

	contents := []*genai.Content{genai.NewContentFromText(user, genai.RoleUser)}

	res, err := c.client.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeUnavailable, "vertex generate content")
	}

	text := res.Text()
	if text == "" {
		return "", perr.Newf(perr.ErrorCodeUnavailable, "vertex returned empty text")
	}
	return text, nil
}
