// Package gateway is the boundary to the generative AI service. Every
// analysis section and the mentor chat go through the Gateway interface.
package gateway

import (
	"context"

	"apex-business/internal/models"
)

// Gateway produces section content for a profile. Implementations do not
// retry; a failed call returns an error and the caller leaves state unchanged.
type Gateway interface {
	IdeaValidation(ctx context.Context, p models.Profile) (string, error)
	MarketAnalysis(ctx context.Context, p models.Profile) (string, error)
	BusinessPlan(ctx context.Context, p models.Profile) (string, error)
	FinancialForecast(ctx context.Context, p models.Profile) (*models.FinancialForecast, error)
	MarketingStrategy(ctx context.Context, p models.Profile) (string, error)
	LegalCompliance(ctx context.Context, p models.Profile) (string, error)
	RisksAndRoadmap(ctx context.Context, p models.Profile) (*models.RisksAndRoadmap, error)
	MentorReply(ctx context.Context, p models.Profile, history []models.ChatMessage, message string) (string, error)
}

// Placeholders returned when the model answers with no text.
const (
	FallbackIdeaValidation = "Could not generate a response."
	FallbackNoData         = "No data available."
	FallbackForecast       = "Error generating forecast."
	FallbackMentor         = "Sorry, I cannot respond at the moment."
)

// Fetch runs the gateway operation bound to a fetchable section and wraps the
// payload in a SectionResult.
func Fetch(ctx context.Context, g Gateway, section models.Section, p models.Profile) (*models.SectionResult, error) {
	switch section {
	case models.SectionIdeaValidation:
		return text(g.IdeaValidation(ctx, p))
	case models.SectionMarketAnalysis:
		return text(g.MarketAnalysis(ctx, p))
	case models.SectionBusinessPlan:
		return text(g.BusinessPlan(ctx, p))
	case models.SectionMarketing:
		return text(g.MarketingStrategy(ctx, p))
	case models.SectionLegal:
		return text(g.LegalCompliance(ctx, p))
	case models.SectionFinance:
		f, err := g.FinancialForecast(ctx, p)
		if err != nil {
			return nil, err
		}
		return models.FinanceResult(f), nil
	case models.SectionRisks:
		r, err := g.RisksAndRoadmap(ctx, p)
		if err != nil {
			return nil, err
		}
		return models.RisksResult(r), nil
	default:
		return nil, errUnboundSection(section)
	}
}

func text(s string, err error) (*models.SectionResult, error) {
	if err != nil {
		return nil, err
	}
	return models.TextResult(s), nil
}
