package gateway

import (
	"fmt"
	"strconv"
	"strings"

	"apex-business/internal/models"
)

const systemInstruction = `You are a helpful, friendly AI assistant named ApexAI.
You can help with any topic - business, coding, creative writing, general questions, or just casual conversation.

Communication style:
- Be conversational, warm, and helpful
- Give clear, structured answers when appropriate
- Be honest if you don't know something
- Use examples to explain complex topics
- Keep responses concise but informative

You have context about the user's business if they've set one up, but you're not limited to business topics.
Feel free to help with anything the user asks about.

Always respond in English.`

// guerillaBudgetThreshold is the capital below which marketing advice assumes a shoestring budget.
const guerillaBudgetThreshold = 5000

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func ideaValidationPrompt(p models.Profile) string {
	return fmt.Sprintf(`Analyze the business idea: "%s".
Context: Capital $%s, Experience: %s, Team: %d people.

As a mentor, provide:
1. Viability score (1-10) and why.
2. "Reality Check" - what could go wrong most easily?
3. Personal advice on whether to proceed.`,
		p.BusinessIdea, money(p.Capital), p.Experience, p.TeamSize)
}

func marketAnalysisPrompt(p models.Profile) string {
	return fmt.Sprintf(`Conduct a market analysis for: "%s" in the %s region.
Include:
1. Who is the ideal customer (Avatar)?
2. Who are the major players and where is your niche?
3. What are the current trends?`,
		p.BusinessIdea, p.Location)
}

func businessPlanPrompt(p models.Profile) string {
	return fmt.Sprintf(`Create a structured business plan for: "%s".
Team: %d people.

Include:
1. Value Proposition (Why will customers choose you?).
2. Revenue Streams (All possible ways to earn).
3. Operational plan for the first 3 months.`,
		p.BusinessIdea, p.TeamSize)
}

func financialForecastPrompt(p models.Profile) string {
	return fmt.Sprintf(`Create a 6-month financial forecast for: "%s".
Capital: $%s. Spend it wisely.

1. Brief budget analysis and when break-even will be reached.
2. JSON data for revenue/expenses.`,
		p.BusinessIdea, money(p.Capital))
}

func marketingStrategyPrompt(p models.Profile) string {
	budget := "Moderate"
	if p.Capital < guerillaBudgetThreshold {
		budget = "Low (Guerilla Marketing)"
	}
	return fmt.Sprintf(`Suggest a marketing strategy for: "%s".
Budget: %s.

Give me 3 specific campaigns I can launch tomorrow.`,
		p.BusinessIdea, budget)
}

func legalCompliancePrompt(p models.Profile) string {
	return fmt.Sprintf(`What are the legal steps for: "%s" in %s?
Explain it simply, as if for a non-lawyer.
1. Registration.
2. Licenses.
3. Accounting.`,
		p.BusinessIdea, p.Location)
}

func risksAndRoadmapPrompt(p models.Profile) string {
	return fmt.Sprintf(`For business "%s":
Generate a JSON response containing:
1. 'risks': A list of 3 main risks and how to minimize them (field 'mitigation').
2. 'roadmap': A list of 6 specific tasks for the coming weeks. For each task include 'week' (number), 'title', 'detail' and 'isCompleted' (false).`,
		p.BusinessIdea)
}

// mentorPrompt carries the profile, the prior turns as "role: text" lines and
// the new message. history must not contain message itself.
func mentorPrompt(p models.Profile, history []models.ChatMessage, message string) string {
	lines := make([]string, 0, len(history))
	for _, h := range history {
		lines = append(lines, fmt.Sprintf("%s: %s", h.Role, h.Text))
	}
	return fmt.Sprintf(`User: %s.
Business: %s.
Capital: $%s, Team: %d.

Chat History:
%s

User Message: %s`,
		p.Name, p.BusinessIdea, money(p.Capital), p.TeamSize, strings.Join(lines, "\n"), message)
}
