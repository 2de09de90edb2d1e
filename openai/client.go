// Package openai adapts the generative provider: counseling text generation,
// AI-estimated interaction checks and speech synthesis. The provider is
// treated as fallible; every call goes through a circuit breaker and failures
// degrade to empty results at the call sites.
package openai

import (
	"context"
	"io"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"medcounsel-backend/config"
)

const systemPrompt = "You are a helpful medical assistant that outputs only JSON."

// ttsCharLimit is the provider's input ceiling for speech synthesis; longer
// text is truncated and marked.
const ttsCharLimit = 4000

type Client struct {
	api     *openai.Client
	breaker *gobreaker.CircuitBreaker
	log     *logrus.Logger

	chatModel string
	ttsModel  string
	ttsVoice  string
	timeout   time.Duration
}

// NewClient builds a provider client from OPENAI_API_KEY and the configured
// model names.
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	key := os.Getenv("OPENAI_API_KEY")
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openai",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(logrus.Fields{"breaker": name, "from": from.String(), "to": to.String()}).Warn("circuit breaker state change")
		},
	})
	return &Client{
		api:       openai.NewClient(key),
		breaker:   cb,
		log:       log,
		chatModel: cfg.ChatModel,
		ttsModel:  cfg.TTSModel,
		ttsVoice:  cfg.TTSVoice,
		timeout:   cfg.ProviderTimeout,
	}
}

// withTimeout applies the configured provider timeout, if any.
func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

// completeJSON runs one JSON-mode chat completion through the breaker and
// returns the raw message content.
func (c *Client) completeJSON(ctx context.Context, prompt string, temperature float32) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	out, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: c.chatModel,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
			Temperature: temperature,
		})
		if err != nil {
			return nil, err
		}
		if len(resp.Choices) == 0 {
			return "", nil
		}
		return resp.Choices[0].Message.Content, nil
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

// Synthesize converts counseling text to speech and returns the audio bytes.
// Input beyond the provider ceiling is truncated with a marker appended.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	safe := text
	if runes := []rune(safe); len(runes) > ttsCharLimit {
		safe = string(runes[:ttsCharLimit]) + "..."
	}

	out, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.api.CreateSpeech(ctx, openai.CreateSpeechRequest{
			Model: openai.SpeechModel(c.ttsModel),
			Voice: openai.SpeechVoice(c.ttsVoice),
			Input: safe,
		})
		if err != nil {
			return nil, err
		}
		defer resp.Close()
		return io.ReadAll(resp)
	})
	if err != nil {
		return nil, err
	}
	return out.([]byte), nil
}
