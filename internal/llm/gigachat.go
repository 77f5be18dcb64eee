package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/Role1776/gigago"
	"go.uber.org/zap"
)

const defaultGigaChatModel = "GigaChat"

type gigaChatClient struct {
	client *gigago.Client
	model  *gigago.GenerativeModel
	logger *zap.Logger
}

func newGigaChatClient(cfg Config, logger *zap.Logger) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GigaChat API key is required")
	}

	opts := []gigago.Option{}
	if cfg.Scope != "" {
		opts = append(opts, gigago.WithCustomScope(cfg.Scope))
	}
	if cfg.InsecureSkipVerify {
		opts = append(opts, gigago.WithCustomInsecureSkipVerify(true))
		logger.Warn("GigaChat TLS certificate verification is disabled")
	}

	client, err := gigago.NewClient(context.Background(), cfg.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GigaChat client: %w", err)
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = defaultGigaChatModel
	}
	model := client.GenerativeModel(modelName)
	model.SystemInstruction = systemInstruction
	setFloat(&model.Temperature, cfg.Temperature)

	logger.Info("Using GigaChat model", zap.String("model", modelName))
	return &gigaChatClient{client: client, model: model, logger: logger}, nil
}

func (c *gigaChatClient) Generate(ctx context.Context, prompt string) (string, error) {
	messages := []gigago.Message{
		{Role: gigago.RoleUser, Content: prompt},
	}

	resp, err := c.model.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("failed to generate suggestion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}

// setFloat assigns v whatever float width the SDK picked for the field.
func setFloat[T ~float32 | ~float64](dst *T, v float64) {
	*dst = T(v)
}

func (c *gigaChatClient) Close() error {
	if c.client != nil {
		c.client.Close()
	}
	return nil
}
