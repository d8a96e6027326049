package provider

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/zhouzirui/zenstellar/backend/internal/config"
	"github.com/zhouzirui/zenstellar/backend/internal/service/ai"
)

// ImageGenerator calls an OpenAI-compatible images endpoint (OpenAI or Ark)
// and asks for base64 payloads.
type ImageGenerator struct {
	client openai.Client
	model  string
	size   string
}

// NewImageGenerator creates an image generator from cfg.
func NewImageGenerator(cfg config.ImageConfig) *ImageGenerator {
	return &ImageGenerator{
		client: openai.NewClient(
			option.WithBaseURL(cfg.BaseURL),
			option.WithAPIKey(cfg.APIKey),
		),
		model: cfg.Model,
		size:  cfg.Size,
	}
}

// GenerateImage requests one image. Each returned datum becomes one part.
func (g *ImageGenerator) GenerateImage(ctx context.Context, prompt, aspectRatio string) ([]ai.ImagePart, error) {
	resp, err := g.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:         prompt,
		Model:          openai.ImageModel(g.model),
		N:              openai.Int(1),
		Size:           openai.ImageGenerateParamsSize(sizeFor(aspectRatio, g.size)),
		ResponseFormat: openai.ImageGenerateParamsResponseFormatB64JSON,
	})
	if err != nil {
		return nil, fmt.Errorf("image generation: %w", err)
	}

	parts := make([]ai.ImagePart, 0, len(resp.Data))
	for _, img := range resp.Data {
		parts = append(parts, ai.ImagePart{
			MIMEType: "image/png",
			Data:     img.B64JSON,
			Text:     img.RevisedPrompt,
		})
	}
	return parts, nil
}

// sizeFor maps an aspect ratio to a pixel size. The configured size is used
// for the portrait ratio.
func sizeFor(aspectRatio, portrait string) string {
	switch aspectRatio {
	case "1:1":
		return "1024x1024"
	case "16:9":
		return "1792x1024"
	default:
		return portrait
	}
}
