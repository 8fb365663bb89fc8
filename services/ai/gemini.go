package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/campuspulse/eventstack/config"
	"github.com/campuspulse/eventstack/dto"
	"github.com/campuspulse/eventstack/interfaces"
	"github.com/campuspulse/eventstack/internal/tracing"
)

type geminiClient struct {
	geminiConfig *config.GeminiConfig
	httpClient   *http.Client
}

func NewGeminiClient(geminiConfig *config.GeminiConfig) interfaces.BackendClient {
	return &geminiClient{
		geminiConfig: geminiConfig,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type geminiGenerateRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string `json:"response_mime_type"`
}

type geminiGenerateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (c *geminiClient) Dispatch(ctx context.Context, model string, request dto.ClassifyPosterRequest) (*dto.PosterClassification, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "geminiClient.Dispatch")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.TagBackend(span, model)

	payload, err := json.Marshal(geminiGenerateRequest{
		Contents: []geminiContent{
			{
				Parts: []geminiPart{
					{Text: buildPrompt(request.QRLink)},
					{InlineData: &geminiInlineData{
						MimeType: request.MimeType,
						Data:     base64.StdEncoding.EncodeToString(request.ImageBytes),
					}},
				},
			},
		},
		GenerationConfig: geminiGenerationConfig{
			ResponseMimeType: "application/json",
		},
	})
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "failed to marshal payload")
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.geminiConfig.Url, model)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payload))
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "failed to create request")
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.geminiConfig.ApiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "unable to read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err = fmt.Errorf("request failed with status code %d: %s", resp.StatusCode, string(body))
		tracing.TraceErr(span, err)
		return nil, err
	}

	var response geminiGenerateResponse
	if err := json.Unmarshal(body, &response); err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "failed to unmarshal response")
	}

	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		err = errors.New("response has no candidates")
		tracing.TraceErr(span, err)
		return nil, err
	}

	result, err := dto.ParsePosterClassification([]byte(response.Candidates[0].Content.Parts[0].Text))
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	return result, nil
}
