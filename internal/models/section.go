package models

import (
	"fmt"
	"strings"
)

// Section is one analysis tab. It is the key of the section cache.
type Section string

const (
	SectionDashboard      Section = "DASHBOARD"
	SectionIdeaValidation Section = "IDEA_VALIDATION"
	SectionMarketAnalysis Section = "MARKET_ANALYSIS"
	SectionBusinessPlan   Section = "BUSINESS_PLAN"
	SectionFinance        Section = "FINANCE"
	SectionMarketing      Section = "MARKETING"
	SectionLegal          Section = "LEGAL"
	SectionRisks          Section = "RISKS"
	SectionMentor         Section = "MENTOR"
)

// AllSections lists every section in navigation order.
var AllSections = []Section{
	SectionDashboard,
	SectionIdeaValidation,
	SectionMarketAnalysis,
	SectionBusinessPlan,
	SectionFinance,
	SectionMarketing,
	SectionLegal,
	SectionRisks,
	SectionMentor,
}

// ParseSection accepts the wire name in any case, with '-' in place of '_'.
func ParseSection(s string) (Section, error) {
	normalized := Section(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")))
	for _, sec := range AllSections {
		if sec == normalized {
			return sec, nil
		}
	}
	return "", fmt.Errorf("unknown section %q", s)
}

// Fetchable is false for sections that never go through the AI gateway:
// the dashboard is computed from the profile and the mentor is a chat.
func (s Section) Fetchable() bool {
	return s != SectionDashboard && s != SectionMentor
}

// ResultKind tags which payload a SectionResult carries.
type ResultKind string

const (
	ResultText    ResultKind = "text"
	ResultFinance ResultKind = "finance"
	ResultRisks   ResultKind = "risks"
)

// KindFor returns the payload kind a fetchable section produces.
func KindFor(s Section) ResultKind {
	switch s {
	case SectionFinance:
		return ResultFinance
	case SectionRisks:
		return ResultRisks
	default:
		return ResultText
	}
}

// SectionResult is the cached output of one gateway call. Exactly one of
// Text, Finance and Risks is set, according to Kind.
type SectionResult struct {
	Kind    ResultKind         `json:"kind"`
	Text    string             `json:"text,omitempty"`
	Finance *FinancialForecast `json:"finance,omitempty"`
	Risks   *RisksAndRoadmap   `json:"risks,omitempty"`
}

func TextResult(text string) *SectionResult {
	return &SectionResult{Kind: ResultText, Text: text}
}

func FinanceResult(f *FinancialForecast) *SectionResult {
	return &SectionResult{Kind: ResultFinance, Finance: f}
}

func RisksResult(r *RisksAndRoadmap) *SectionResult {
	return &SectionResult{Kind: ResultRisks, Risks: r}
}
