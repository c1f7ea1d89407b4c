package coach

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/luigiabbondandolo0-crypto/risksent/internal/domain"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// LLMClient abstracts the OpenAI chat completions API for testability.
type LLMClient interface {
	CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)
}

const coachingPhilosophy = `You are a trading risk coach summarizing automated risk findings for an operations channel.

Rules:
- Summarize the findings in at most four short lines. You are writing for Telegram.
- Lead with the most severe finding.
- Reference the concrete numbers from the findings, never invent new ones.
- One concrete next step for the trader, drawn from the supplied advice.
- No disclaimers, no greetings, no emoji beyond a single leading warning sign.`

// Coach composes human-readable digests of risk findings. The LLM is an
// enhancement: when it is absent or fails, Compose falls back to a
// deterministic template so dispatch never blocks on OpenAI.
type Coach struct {
	tracer trace.Tracer
	llm    LLMClient
	model  string
}

func NewCoach(tracer trace.Tracer, llm LLMClient, model string) *Coach {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &Coach{tracer: tracer, llm: llm, model: model}
}

// Compose returns a digest for the given findings. It always returns usable
// text.
func (c *Coach) Compose(ctx context.Context, accountRef string, findings []domain.RiskFinding) string {
	ctx, span := c.tracer.Start(ctx, "coach.compose")
	defer span.End()
	span.SetAttributes(
		attribute.String("account_ref", accountRef),
		attribute.Int("findings", len(findings)),
	)

	fallback := TemplateDigest(accountRef, findings)
	if c.llm == nil || len(findings) == 0 {
		return fallback
	}

	completion, err := c.llm.CreateChatCompletion(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(coachingPhilosophy),
			openai.UserMessage(buildFindingsPrompt(accountRef, findings)),
		},
	})
	if err != nil {
		span.RecordError(err)
		log.Printf("coach digest fell back to template: %v", err)
		return fallback
	}
	if len(completion.Choices) == 0 || strings.TrimSpace(completion.Choices[0].Message.Content) == "" {
		return fallback
	}
	return completion.Choices[0].Message.Content
}

func buildFindingsPrompt(accountRef string, findings []domain.RiskFinding) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Account %s triggered %d risk finding(s):\n", accountRef, len(findings))
	for _, f := range findings {
		fmt.Fprintf(&sb, "- rule=%s level=%s: %s (advice: %s)\n", f.Type, f.Level, f.Message, f.Advice)
	}
	return sb.String()
}

// TemplateDigest is the deterministic digest used when no LLM is configured.
func TemplateDigest(accountRef string, findings []domain.RiskFinding) string {
	if len(findings) == 0 {
		return fmt.Sprintf("No risk findings on account %s.", accountRef)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "⚠️ Risk findings on account %s:\n", accountRef)
	for _, f := range findings {
		fmt.Fprintf(&sb, "- [%s/%s] %s\n", f.Type, f.Level, f.Message)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// openaiClient wraps the official SDK's chat completions service.
type openaiClient struct {
	client openai.Client
}

func NewOpenAIClient(apiKey string) LLMClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &openaiClient{client: client}
}

func (c *openaiClient) CreateChatCompletion(
	ctx context.Context,
	params openai.ChatCompletionNewParams,
) (*openai.ChatCompletion, error) {
	return c.client.Chat.Completions.New(ctx, params)
}
