package model

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/sashabaranov/go-openai"
)

// CompletionTimeout bounds every model call. The upstream API has no
// cancellation contract of its own.
const CompletionTimeout = 60 * time.Second

const defaultModel = openai.GPT4o

// Completer is the narrow slice of the OpenAI client the server uses.
// *openai.Client satisfies it; tests substitute a stub.
type Completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

var ErrUpstream = errors.New("model request failed")
var ErrUpstreamTimeout = errors.New("model request timed out")

func NewClient() *openai.Client {
	config := openai.DefaultConfig(os.Getenv("OPENAI_API_KEY"))

	if endpoint := os.Getenv("OPENAI_ENDPOINT"); endpoint != "" {
		config.BaseURL = endpoint
	}
	if orgId := os.Getenv("OPENAI_ORG_ID"); orgId != "" {
		config.OrgID = orgId
	}

	return openai.NewClientWithConfig(config)
}

func ModelName() string {
	if name := os.Getenv("OPENAI_MODEL"); name != "" {
		return name
	}
	return defaultModel
}

// createChatCompletion runs the request with the bounded wait and folds
// every failure into the upstream error kinds.
func createChatCompletion(ctx context.Context, client Completer, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, CompletionTimeout)
	defer cancel()

	resp, err := client.CreateChatCompletion(ctx, req)

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return resp, fmt.Errorf("%w: %v", ErrUpstreamTimeout, err)
		}
		return resp, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if os.Getenv("GOENV") == "development" {
		log.Println("model response:")
		spew.Dump(resp)
	}

	if len(resp.Choices) == 0 {
		return resp, fmt.Errorf("%w: no choices in response", ErrUpstream)
	}

	return resp, nil
}
