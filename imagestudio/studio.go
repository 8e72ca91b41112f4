// Package imagestudio generates and edits images (logos, stamps) through the OpenAI images API.
//
// Every call is attempted once. Results are PNG data URLs that can be stored as the settings logo.
package imagestudio

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
)

// Resolution is a requested output size tier.
type Resolution string

const (
	Res1K Resolution = "1K"
	Res2K Resolution = "2K"
	Res4K Resolution = "4K"
)

func (r Resolution) IsValid() bool {
	switch r {
	case Res1K, Res2K, Res4K:
		return true
	}
	return false
}

var (
	// ErrNoImage is returned when the API answered without an image payload.
	ErrNoImage = errors.New("imagestudio: response carried no image")
	// ErrNotConfigured is returned by a nil Studio.
	ErrNotConfigured = errors.New("imagestudio: not configured")
	// ErrInvalidSource is returned when an edit source is not base64 image data.
	ErrInvalidSource = errors.New("imagestudio: source is not base64 image data")
	// ErrInvalidResolution is returned for tiers other than 1K, 2K and 4K.
	ErrInvalidResolution = errors.New("imagestudio: unknown resolution")
)

// Error wraps a failed API call.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("imagestudio %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Client is the part of *openai.Client the studio uses.
type Client interface {
	CreateImage(ctx context.Context, req openai.ImageRequest) (openai.ImageResponse, error)
	CreateEditImage(ctx context.Context, req openai.ImageEditRequest) (openai.ImageResponse, error)
}

// Studio issues image requests for one model.
type Studio struct {
	client Client
	model  string
	log    zerolog.Logger
}

// New returns a Studio backed by the OpenAI API.
func New(apiKey, model string, log zerolog.Logger) *Studio {
	return NewWithClient(openai.NewClient(apiKey), model, log)
}

func NewWithClient(client Client, model string, log zerolog.Logger) *Studio {
	if model == "" {
		model = openai.CreateImageModelDallE3
	}
	return &Studio{client: client, model: model, log: log}
}

type tier struct {
	size    string
	quality string
}

// The API tops out at 1792px, so 4K asks for the largest size at HD quality.
var tiers = map[Resolution]tier{
	Res1K: {size: openai.CreateImageSize1024x1024},
	Res2K: {size: openai.CreateImageSize1792x1024},
	Res4K: {size: openai.CreateImageSize1792x1024, quality: openai.CreateImageQualityHD},
}

// Generate draws an image from prompt at the given tier.
func (s *Studio) Generate(ctx context.Context, prompt string, res Resolution) (string, error) {
	if s == nil {
		return "", ErrNotConfigured
	}
	if res == "" {
		res = Res1K
	}
	t, ok := tiers[res]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidResolution, res)
	}

	resp, err := s.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Model:          s.model,
		N:              1,
		Size:           t.size,
		Quality:        t.quality,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		s.log.Warn().Err(err).Str("resolution", string(res)).Msg("image generation failed")
		return "", &Error{Op: "generate", Err: err}
	}
	return firstImage(resp)
}

// Edit applies instruction to source, a raw base64 PNG or a data URL.
func (s *Studio) Edit(ctx context.Context, source, instruction string) (string, error) {
	if s == nil {
		return "", ErrNotConfigured
	}
	raw, err := DecodeSource(source)
	if err != nil {
		return "", err
	}

	// The edit endpoint needs a named file part to infer the image type.
	f, err := os.CreateTemp("", "imagestudio-*.png")
	if err != nil {
		return "", &Error{Op: "edit", Err: err}
	}
	defer func() {
		_ = f.Close()
		_ = os.Remove(f.Name())
	}()
	if _, err := f.Write(raw); err != nil {
		return "", &Error{Op: "edit", Err: err}
	}
	if _, err := f.Seek(0, 0); err != nil {
		return "", &Error{Op: "edit", Err: err}
	}

	resp, err := s.client.CreateEditImage(ctx, openai.ImageEditRequest{
		Image:          f,
		Prompt:         instruction,
		Model:          openai.CreateImageModelDallE2,
		N:              1,
		Size:           openai.CreateImageSize1024x1024,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("image edit failed")
		return "", &Error{Op: "edit", Err: err}
	}
	return firstImage(resp)
}

const pngPrefix = "data:image/png;base64,"

func firstImage(resp openai.ImageResponse) (string, error) {
	for _, d := range resp.Data {
		if strings.TrimSpace(d.B64JSON) != "" {
			return pngPrefix + d.B64JSON, nil
		}
	}
	return "", ErrNoImage
}

// DecodeSource returns the bytes of a raw base64 payload or a base64 data URL.
func DecodeSource(source string) ([]byte, error) {
	payload := strings.TrimSpace(source)
	if strings.HasPrefix(payload, "data:") {
		i := strings.Index(payload, ",")
		if i < 0 || !strings.HasSuffix(payload[:i], ";base64") {
			return nil, ErrInvalidSource
		}
		payload = payload[i+1:]
	}
	if payload == "" {
		return nil, ErrInvalidSource
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSource, err)
	}
	return raw, nil
}
