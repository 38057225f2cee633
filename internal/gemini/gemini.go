package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gemtype/gemtype/internal/config"
	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

var (
	// ErrMissingAPIKey is returned when a generation is attempted
	// without an API key configured.
	ErrMissingAPIKey = errors.New("gemini api key not set")

	// ErrEmptyResponse is returned when the model answers with no text.
	ErrEmptyResponse = errors.New("gemini returned an empty response")
)

// Generator produces a text completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	TestConnection(ctx context.Context) error
}

// Client adapts the Gemini API to the Generator interface. The API key
// and model are read from the shared config at call time so settings
// changes apply to the next trigger without a restart.
type Client struct {
	cfg *config.Config
	log zerolog.Logger
}

func New(cfg *config.Config, log zerolog.Logger) *Client {
	return &Client{cfg: cfg, log: log}
}

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	apiKey := strings.TrimSpace(c.cfg.APIKey)
	if apiKey == "" {
		return "", ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("creating gemini client: %w", err)
	}

	c.log.Debug().Str("model", c.cfg.Model).Int("prompt_len", len(prompt)).Msg("Sending prompt")

	result, err := client.Models.GenerateContent(
		ctx,
		c.cfg.Model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{ResponseMIMEType: "text/plain"},
	)
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}

	c.log.Debug().Int("response_len", len(text)).Msg("Received response")
	return text, nil
}

// TestConnection fires a trivial prompt to verify the configured key
// and model actually work.
func (c *Client) TestConnection(ctx context.Context) error {
	_, err := c.Generate(ctx, "Say 'Hello'")
	return err
}
