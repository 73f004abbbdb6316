package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
)

// RequestError reports a non-2xx response from the image generation provider.
type RequestError struct {
	StatusCode int
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("image generation request failed with status code %d", e.StatusCode)
}

// ErrMalformedResponse means the provider answered 2xx but the body could not
// be parsed into the expected shape.
var ErrMalformedResponse = errors.New("image generation response malformed")

// GeneratedImage is the provider's answer to a generation request.
type GeneratedImage struct {
	OutputURL string `json:"output_url"`
}

// ImageGenService calls the image generation provider: one multipart POST
// with the prompt and output format, bearer auth, JSON response. No retry and
// no streaming; provider-side timeouts are the only bound.
type ImageGenService struct {
	apiKey       string
	apiBase      string
	outputFormat string
	client       *http.Client
}

func NewImageGenService(apiKey, apiBase, outputFormat string) *ImageGenService {
	return &ImageGenService{
		apiKey:       apiKey,
		apiBase:      apiBase,
		outputFormat: outputFormat,
		client:       http.DefaultClient,
	}
}

// Generate requests one image for the prompt and returns its URL.
func (s *ImageGenService) Generate(ctx context.Context, prompt string) (*GeneratedImage, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	err := form.WriteField("prompt", prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	err = form.WriteField("output_format", s.outputFormat)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	err = form.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiBase, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image generation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, &RequestError{StatusCode: resp.StatusCode}
	}

	var image GeneratedImage
	err = json.NewDecoder(resp.Body).Decode(&image)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if image.OutputURL == "" {
		return nil, fmt.Errorf("%w: missing output_url", ErrMalformedResponse)
	}

	slog.Debug("image generated", "output_url", image.OutputURL)
	return &image, nil
}
