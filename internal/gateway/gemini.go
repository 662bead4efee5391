package gateway

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"apex-business/internal/common/config"
	"apex-business/internal/common/errors"
	"apex-business/internal/common/logger"
	"apex-business/internal/common/metrics"
	"apex-business/internal/common/observability"
	"apex-business/internal/models"

	"github.com/google/generative-ai-go/genai"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/option"
)

// textGenerator sends one prompt to a named model. A non-nil schema requests
// application/json output constrained by it.
type textGenerator interface {
	Generate(ctx context.Context, model, prompt string, schema *genai.Schema) (string, error)
}

// genaiGenerator is the production textGenerator over the Gemini SDK.
type genaiGenerator struct {
	client      *genai.Client
	temperature float32
	maxTokens   int32
}

func (g *genaiGenerator) Generate(ctx context.Context, modelName, prompt string, schema *genai.Schema) (string, error) {
	// GenerativeModel carries per-call settings, so build one per request.
	model := g.client.GenerativeModel(modelName)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemInstruction)}}
	model.SetTemperature(g.temperature)
	model.SetMaxOutputTokens(g.maxTokens)
	if schema != nil {
		model.ResponseMIMEType = "application/json"
		model.ResponseSchema = schema
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return responseText(resp), nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String()
}

// GeminiGateway implements Gateway over Gemini models.
type GeminiGateway struct {
	gen        textGenerator
	closer     func() error
	fastModel  string
	smartModel string
	timeout    time.Duration
	obs        *observability.Observability
	logger     logger.Logger
}

// NewGemini connects to the Gemini API with an API key.
func NewGemini(ctx context.Context, cfg config.GenAIConfig, obs *observability.Observability, log logger.Logger) (*GeminiGateway, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	g := newGateway(&genaiGenerator{
		client:      client,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, cfg, obs, log)
	g.closer = client.Close
	return g, nil
}

func newGateway(gen textGenerator, cfg config.GenAIConfig, obs *observability.Observability, log logger.Logger) *GeminiGateway {
	if obs == nil {
		obs = observability.NewNoop()
	}
	return &GeminiGateway{
		gen:        gen,
		fastModel:  cfg.FastModel,
		smartModel: cfg.SmartModel,
		timeout:    config.GetDuration(cfg.Timeout),
		obs:        obs,
		logger:     log.WithFields(map[string]interface{}{"component": "gateway"}),
	}
}

func (g *GeminiGateway) Close() error {
	if g.closer != nil {
		return g.closer()
	}
	return nil
}

func (g *GeminiGateway) IdeaValidation(ctx context.Context, p models.Profile) (string, error) {
	return g.generateText(ctx, "IdeaValidation", g.fastModel, ideaValidationPrompt(p), FallbackIdeaValidation)
}

func (g *GeminiGateway) MarketAnalysis(ctx context.Context, p models.Profile) (string, error) {
	return g.generateText(ctx, "MarketAnalysis", g.fastModel, marketAnalysisPrompt(p), FallbackNoData)
}

func (g *GeminiGateway) BusinessPlan(ctx context.Context, p models.Profile) (string, error) {
	return g.generateText(ctx, "BusinessPlan", g.smartModel, businessPlanPrompt(p), FallbackNoData)
}

func (g *GeminiGateway) MarketingStrategy(ctx context.Context, p models.Profile) (string, error) {
	return g.generateText(ctx, "MarketingStrategy", g.fastModel, marketingStrategyPrompt(p), FallbackNoData)
}

func (g *GeminiGateway) LegalCompliance(ctx context.Context, p models.Profile) (string, error) {
	return g.generateText(ctx, "LegalCompliance", g.smartModel, legalCompliancePrompt(p), FallbackNoData)
}

func (g *GeminiGateway) MentorReply(ctx context.Context, p models.Profile, history []models.ChatMessage, message string) (string, error) {
	return g.generateText(ctx, "MentorReply", g.smartModel, mentorPrompt(p, history, message), FallbackMentor)
}

func (g *GeminiGateway) FinancialForecast(ctx context.Context, p models.Profile) (*models.FinancialForecast, error) {
	const op = "FinancialForecast"
	raw, err := g.call(ctx, op, g.fastModel, financialForecastPrompt(p), financialForecastResponseSchema)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(raw) == "" {
		return &models.FinancialForecast{Analysis: FallbackForecast, Data: []models.FinancialDataPoint{}}, nil
	}

	forecast, err := decodeDocument[models.FinancialForecast](op, raw, financialForecastDocument)
	if err != nil {
		g.logInvalidOutput(op, err)
		return nil, err
	}
	if forecast.Data == nil {
		forecast.Data = []models.FinancialDataPoint{}
	}
	return forecast, nil
}

func (g *GeminiGateway) RisksAndRoadmap(ctx context.Context, p models.Profile) (*models.RisksAndRoadmap, error) {
	const op = "RisksAndRoadmap"
	raw, err := g.call(ctx, op, g.fastModel, risksAndRoadmapPrompt(p), risksAndRoadmapResponseSchema)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(raw) == "" {
		return &models.RisksAndRoadmap{Risks: []models.Risk{}, Roadmap: []models.RoadmapTask{}}, nil
	}

	rr, err := decodeDocument[models.RisksAndRoadmap](op, raw, risksAndRoadmapDocument)
	if err != nil {
		g.logInvalidOutput(op, err)
		return nil, err
	}
	normalizeRoadmap(rr)
	return rr, nil
}

func (g *GeminiGateway) generateText(ctx context.Context, op, model, prompt, fallback string) (string, error) {
	text, err := g.call(ctx, op, model, prompt, nil)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return fallback, nil
	}
	return text, nil
}

// call performs one measured, traced request. It never retries.
func (g *GeminiGateway) call(ctx context.Context, op, model, prompt string, schema *genai.Schema) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	ctx, span := g.obs.StartSpan(ctx, "gateway."+op,
		attribute.String("model", model),
		attribute.Bool("json", schema != nil),
	)

	start := time.Now()
	text, err := g.gen.Generate(ctx, model, prompt, schema)
	elapsed := time.Since(start)

	outcome := "success"
	if err != nil {
		outcome = "failure"
		if stderrors.Is(err, context.DeadlineExceeded) {
			err = errors.NewAIGatewayTimeoutError(op, err)
		} else {
			err = errors.NewAIGatewayFailedError(op, err)
		}
	}

	metrics.GatewayCallsTotal.WithLabelValues(op, outcome).Inc()
	metrics.GatewayCallDuration.WithLabelValues(op).Observe(elapsed.Seconds())
	g.obs.RecordCall(ctx, op, outcome, elapsed)
	observability.EndSpan(span, err)

	fields := map[string]interface{}{
		"operation":  op,
		"model":      model,
		"durationMs": elapsed.Milliseconds(),
	}
	if err != nil {
		fields["error"] = err.Error()
		g.logger.Error("AI gateway call failed", fields)
		return "", err
	}
	fields["responseChars"] = len(text)
	g.logger.Debug("AI gateway call completed", fields)
	return text, nil
}

func (g *GeminiGateway) logInvalidOutput(op string, err error) {
	g.logger.Warn("AI gateway returned invalid output", map[string]interface{}{
		"operation": op,
		"error":     err.Error(),
	})
}
