package imagestudio

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClient struct {
	resp    openai.ImageResponse
	err     error
	gen     []openai.ImageRequest
	edits   []openai.ImageEditRequest
	editRaw []byte
}

func (s *stubClient) CreateImage(_ context.Context, req openai.ImageRequest) (openai.ImageResponse, error) {
	s.gen = append(s.gen, req)
	return s.resp, s.err
}

func (s *stubClient) CreateEditImage(_ context.Context, req openai.ImageEditRequest) (openai.ImageResponse, error) {
	s.edits = append(s.edits, req)
	if req.Image != nil {
		s.editRaw, _ = io.ReadAll(req.Image)
	}
	return s.resp, s.err
}

func withImage(b64 string) openai.ImageResponse {
	return openai.ImageResponse{Data: []openai.ImageResponseDataInner{{B64JSON: b64}}}
}

func TestStudio_Generate(t *testing.T) {
	tests := []struct {
		res     Resolution
		size    string
		quality string
	}{
		{Res1K, openai.CreateImageSize1024x1024, ""},
		{Res2K, openai.CreateImageSize1792x1024, ""},
		{Res4K, openai.CreateImageSize1792x1024, openai.CreateImageQualityHD},
		{"", openai.CreateImageSize1024x1024, ""},
	}
	for _, tt := range tests {
		t.Run(string(tt.res), func(t *testing.T) {
			client := &stubClient{resp: withImage("iVBORw0KGgo=")}
			s := NewWithClient(client, "", zerolog.Nop())

			url, err := s.Generate(context.Background(), "a blue stamp", tt.res)
			require.NoError(t, err)
			assert.Equal(t, "data:image/png;base64,iVBORw0KGgo=", url)

			require.Len(t, client.gen, 1)
			req := client.gen[0]
			assert.Equal(t, tt.size, req.Size)
			assert.Equal(t, tt.quality, req.Quality)
			assert.Equal(t, openai.CreateImageResponseFormatB64JSON, req.ResponseFormat)
			assert.Equal(t, openai.CreateImageModelDallE3, req.Model)
		})
	}
}

func TestStudio_Generate_Failures(t *testing.T) {
	t.Run("empty payload", func(t *testing.T) {
		s := NewWithClient(&stubClient{resp: withImage("")}, "", zerolog.Nop())
		_, err := s.Generate(context.Background(), "logo", Res1K)
		assert.ErrorIs(t, err, ErrNoImage)
	})

	t.Run("no data at all", func(t *testing.T) {
		s := NewWithClient(&stubClient{}, "", zerolog.Nop())
		_, err := s.Generate(context.Background(), "logo", Res1K)
		assert.ErrorIs(t, err, ErrNoImage)
	})

	t.Run("api error is wrapped once, no retry", func(t *testing.T) {
		cause := errors.New("rate limited")
		client := &stubClient{err: cause}
		s := NewWithClient(client, "", zerolog.Nop())

		_, err := s.Generate(context.Background(), "logo", Res2K)
		var se *Error
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "generate", se.Op)
		assert.ErrorIs(t, err, cause)
		assert.Len(t, client.gen, 1)
	})

	t.Run("unknown tier", func(t *testing.T) {
		client := &stubClient{}
		s := NewWithClient(client, "", zerolog.Nop())
		_, err := s.Generate(context.Background(), "logo", "8K")
		assert.ErrorIs(t, err, ErrInvalidResolution)
		assert.Empty(t, client.gen)
	})

	t.Run("nil studio", func(t *testing.T) {
		var s *Studio
		_, err := s.Generate(context.Background(), "logo", Res1K)
		assert.ErrorIs(t, err, ErrNotConfigured)
	})
}

func TestStudio_Edit(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G'}
	b64 := base64.StdEncoding.EncodeToString(png)

	for _, source := range []string{b64, "data:image/png;base64," + b64} {
		client := &stubClient{resp: withImage("AAAA")}
		s := NewWithClient(client, "", zerolog.Nop())

		url, err := s.Edit(context.Background(), source, "make it red")
		require.NoError(t, err)
		assert.Equal(t, "data:image/png;base64,AAAA", url)
		require.Len(t, client.edits, 1)
		assert.Equal(t, "make it red", client.edits[0].Prompt)
		assert.Equal(t, png, client.editRaw)
	}
}

func TestStudio_Edit_InvalidSource(t *testing.T) {
	client := &stubClient{}
	s := NewWithClient(client, "", zerolog.Nop())

	for _, source := range []string{"", "not base64!", "data:image/png,plain"} {
		_, err := s.Edit(context.Background(), source, "x")
		assert.ErrorIs(t, err, ErrInvalidSource, source)
	}
	assert.Empty(t, client.edits)
}
