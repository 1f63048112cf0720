package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"
	"go.uber.org/zap"

	"github.com/dayplanhq/dayplan/internal/models"
)

const (
	// DefaultOpenAIModel is the default model to use
	DefaultOpenAIModel = "gpt-4o-mini"
	// DefaultOpenAIBaseURL is the default OpenAI API base URL
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	// DefaultTimeout is the default timeout for API calls
	DefaultTimeout = 30 * time.Second

	// MaxSuggestedTasks caps how many suggestions a single plan may carry
	MaxSuggestedTasks = 12
)

const planSystemPrompt = "You are a personal productivity planner. " +
	"Given a goal, break it into small concrete tasks. " +
	"Respond with valid JSON only, shaped as " +
	`{"tasks":[{"title":"...","description":"...","priority":"low|medium|high","category":"...","duration_minutes":30}],"insight":"..."}`

// OpenAIGenerator implements PlanGenerator using OpenAI's API.
type OpenAIGenerator struct {
	client    openai.Client
	model     string
	logger    *zap.Logger
	debugMode bool
}

// NewOpenAIGenerator creates a new OpenAI plan generator.
func NewOpenAIGenerator(apiKey, baseURL, model string, logger *zap.Logger, debugMode bool) *OpenAIGenerator {
	if model == "" {
		model = DefaultOpenAIModel
	}
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}

	httpClient := &http.Client{
		Timeout: DefaultTimeout,
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithHTTPClient(httpClient),
	)

	return &OpenAIGenerator{
		client:    client,
		model:     model,
		logger:    logger,
		debugMode: debugMode,
	}
}

// GeneratePlan turns a free-text goal into structured task suggestions.
func (g *OpenAIGenerator) GeneratePlan(ctx context.Context, goal string, categories []string) (*Plan, error) {
	prompt := g.buildPlanPrompt(goal, categories)
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(planSystemPrompt),
		openai.UserMessage(prompt),
	}
	req := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(g.model),
		Messages: messages,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	}

	if g.logger != nil && g.debugMode {
		g.logger.Debug("llm_api_request",
			zap.String("operation", "generate_plan"),
			zap.String("model", g.model),
			zap.Int("prompt_length", len(prompt)),
			zap.String("prompt_preview", SanitizePrompt(prompt, true)),
		)
	}

	start := time.Now()
	resp, err := g.client.Chat.Completions.New(ctx, req)
	latency := time.Since(start)
	if err != nil {
		if g.logger != nil {
			g.logger.Warn("llm_api_error",
				zap.String("operation", "generate_plan"),
				zap.String("model", g.model),
				zap.Error(err),
				zap.Duration("latency", latency),
			)
		}
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices in response", ErrGeneration)
	}

	content := resp.Choices[0].Message.Content
	if g.logger != nil && g.debugMode {
		g.logger.Debug("llm_api_response",
			zap.String("operation", "generate_plan"),
			zap.String("model", g.model),
			zap.Int("response_length", len(content)),
			zap.String("response_preview", SanitizeResponse(content, true)),
			zap.Int64("latency_ms", latency.Milliseconds()),
		)
	}

	plan, err := parsePlanResponse(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	return plan, nil
}

func (g *OpenAIGenerator) buildPlanPrompt(goal string, categories []string) string {
	var b strings.Builder
	b.WriteString("Goal: ")
	b.WriteString(goal)
	if len(categories) > 0 {
		b.WriteString("\nPrefer these existing categories when they fit: ")
		b.WriteString(strings.Join(categories, ", "))
	}
	b.WriteString(fmt.Sprintf("\nSuggest at most %d tasks.", MaxSuggestedTasks))
	return b.String()
}

// parsePlanResponse decodes the model's JSON, tolerating prose around the
// object, and normalizes invalid priorities and oversized plans.
func parsePlanResponse(content string) (*Plan, error) {
	raw := content
	plan := &Plan{}
	if err := json.Unmarshal([]byte(raw), plan); err != nil {
		if len(raw) > 0 && raw[0] != '{' {
			start := strings.Index(raw, "{")
			end := strings.LastIndex(raw, "}")
			if start != -1 && end != -1 && end > start {
				raw = raw[start : end+1]
			}
		}
		if err := json.Unmarshal([]byte(raw), plan); err != nil {
			return nil, fmt.Errorf("failed to parse plan response: %w", err)
		}
	}

	if len(plan.Tasks) == 0 {
		return nil, errors.New("plan contains no tasks")
	}
	if len(plan.Tasks) > MaxSuggestedTasks {
		plan.Tasks = plan.Tasks[:MaxSuggestedTasks]
	}
	for i := range plan.Tasks {
		switch plan.Tasks[i].Priority {
		case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
		default:
			plan.Tasks[i].Priority = models.PriorityMedium
		}
		if plan.Tasks[i].DurationMinutes < 0 {
			plan.Tasks[i].DurationMinutes = 0
		}
	}
	return plan, nil
}

var _ PlanGenerator = (*OpenAIGenerator)(nil)
