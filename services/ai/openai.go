package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/opentracing/opentracing-go"
	openai "github.com/sashabaranov/go-openai"

	"github.com/campuspulse/eventstack/config"
	"github.com/campuspulse/eventstack/dto"
	"github.com/campuspulse/eventstack/interfaces"
	"github.com/campuspulse/eventstack/internal/tracing"
)

type openAIClient struct {
	client *openai.Client
}

func NewOpenAIClient(openAIConfig *config.OpenAIConfig) interfaces.BackendClient {
	clientConfig := openai.DefaultConfig(openAIConfig.ApiKey)
	clientConfig.HTTPClient = &http.Client{
		Timeout: 60 * time.Second,
	}
	return &openAIClient{
		client: openai.NewClientWithConfig(clientConfig),
	}
}

func (c *openAIClient) Dispatch(ctx context.Context, model string, request dto.ClassifyPosterRequest) (*dto.PosterClassification, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "openAIClient.Dispatch")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.TagBackend(span, model)

	imageURL := fmt.Sprintf("data:%s;base64,%s",
		request.MimeType, base64.StdEncoding.EncodeToString(request.ImageBytes))

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: buildPrompt(request.QRLink),
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: imageURL,
						},
					},
				},
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	if len(resp.Choices) == 0 {
		err = fmt.Errorf("response has no choices")
		tracing.TraceErr(span, err)
		return nil, err
	}

	result, err := dto.ParsePosterClassification([]byte(resp.Choices[0].Message.Content))
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	return result, nil
}
