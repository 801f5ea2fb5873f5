package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/royaltix/royaltix-ai/pkg/royaltix"
)

const (
	defaultImageEndpoint = "https://router.huggingface.co/nebius/v1/images/generations"
	defaultImageModel    = "black-forest-labs/flux-dev"
)

// HuggingFaceClient generates images through the Hugging Face router API.
// It implements royaltix.ImageGenerator.
type HuggingFaceClient struct {
	token      string
	endpoint   string
	model      string
	httpClient *http.Client
}

// HuggingFaceConfig options for the image generation client
type HuggingFaceConfig struct {
	Token      string // API token (required)
	Endpoint   string // Defaults to the router images endpoint
	Model      string // Defaults to black-forest-labs/flux-dev
	HTTPClient *http.Client
}

// NewHuggingFace creates a new image generation client
func NewHuggingFace(config HuggingFaceConfig) (*HuggingFaceClient, error) {
	if config.Token == "" {
		return nil, errors.New("hugging face token is required")
	}
	if config.Endpoint == "" {
		config.Endpoint = defaultImageEndpoint
	}
	if config.Model == "" {
		config.Model = defaultImageModel
	}
	if config.HTTPClient == nil {
		config.HTTPClient = http.DefaultClient
	}

	return &HuggingFaceClient{
		token:      config.Token,
		endpoint:   config.Endpoint,
		model:      config.Model,
		httpClient: config.HTTPClient,
	}, nil
}

type imageGenerationRequest struct {
	ResponseFormat string `json:"response_format"`
	Prompt         string `json:"prompt"`
	Model          string `json:"model"`
}

// imageGenerationResponse covers the payload shapes the router is known to
// return: OpenAI-style data array, or a bare b64_json/image field.
type imageGenerationResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
	B64JSON string `json:"b64_json"`
	Image   string `json:"image"`
}

// GenerateImage requests a base64-encoded image for the prompt. Single
// attempt; any provider failure or empty payload is a GenerationError.
func (c *HuggingFaceClient) GenerateImage(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(imageGenerationRequest{
		ResponseFormat: "b64_json",
		Prompt:         prompt,
		Model:          c.model,
	})
	if err != nil {
		return "", &royaltix.GenerationError{Provider: "huggingface", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &royaltix.GenerationError{Provider: "huggingface", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &royaltix.GenerationError{Provider: "huggingface", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &royaltix.GenerationError{
			Provider: "huggingface",
			Err:      fmt.Errorf("unexpected status %s: %s", resp.Status, detail),
		}
	}

	var parsed imageGenerationResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &royaltix.GenerationError{Provider: "huggingface", Err: err}
	}

	imageBase64 := parsed.Image
	if parsed.B64JSON != "" {
		imageBase64 = parsed.B64JSON
	}
	if len(parsed.Data) > 0 && parsed.Data[0].B64JSON != "" {
		imageBase64 = parsed.Data[0].B64JSON
	}
	if imageBase64 == "" {
		return "", &royaltix.GenerationError{
			Provider: "huggingface",
			Err:      fmt.Errorf("%w: no image in response", royaltix.ErrEmptyResult),
		}
	}

	return imageBase64, nil
}
