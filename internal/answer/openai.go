package answer

import (
	"context"
	"fmt"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// OpenAILLM backs both the generation stage and the critic pass with
// OpenAI chat completions. One client serves all calls; the pipeline
// differentiates them purely by prompt.
type OpenAILLM struct {
	client openai.Client
	config LLMConfig
}

// NewOpenAILLM validates the config and builds the client. The API key
// falls back to OPENAI_API_KEY when not set explicitly.
func NewOpenAILLM(config LLMConfig) (*OpenAILLM, error) {
	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: missing API key (set OPENAI_API_KEY or provide in config)", ErrInvalidConfig)
	}
	if config.Model == "" {
		return nil, fmt.Errorf("%w: missing model name", ErrInvalidConfig)
	}

	return &OpenAILLM{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		config: config,
	}, nil
}

// Generate runs one single-turn completion. Persona framing, episode
// context, and policy instructions all arrive inside the prompt, so the
// request carries no system message. Errors wrap ErrLLMFailed; the
// generation stage above converts them into fallback answers.
func (o *OpenAILLM) Generate(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("%w: prompt cannot be empty", ErrInvalidConfig)
	}

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(o.config.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}
	if o.config.Temperature > 0 {
		params.Temperature = openai.Float(float64(o.config.Temperature))
	}
	if o.config.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(o.config.MaxTokens))
	}

	completion, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrLLMFailed, err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", ErrLLMFailed)
	}

	return completion.Choices[0].Message.Content, nil
}
