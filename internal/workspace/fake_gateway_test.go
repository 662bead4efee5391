package workspace

import (
	"context"
	"sync"

	"apex-business/internal/models"
)

// fakeGateway returns canned payloads, counts calls per operation and can
// hold calls open until release is closed.
type fakeGateway struct {
	mu      sync.Mutex
	calls   map[string]int
	history [][]models.ChatMessage
	err     error
	release chan struct{}
	started chan string
	// gate, when set, runs before each call with its per-operation number.
	gate func(op string, n int)

	text        string
	risks       *models.RisksAndRoadmap
	risksByCall map[int]*models.RisksAndRoadmap
	reply       string
	forecast    *models.FinancialForecast
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		calls: make(map[string]int),
		text:  "generated",
		reply: "mentor says hi",
		risks: &models.RisksAndRoadmap{
			Risks: []models.Risk{{Title: "Cash", Mitigation: "Pre-sell"}},
			Roadmap: []models.RoadmapTask{
				{ID: 0, Week: 1, Title: "Permit", Detail: "File papers"},
				{ID: 1, Week: 2, Title: "Supplier", Detail: "Pick beans"},
				{ID: 2, Week: 3, Title: "Launch", Detail: "Open the cart"},
			},
		},
		forecast: &models.FinancialForecast{Analysis: "ok", Data: []models.FinancialDataPoint{}},
	}
}

func (f *fakeGateway) enter(op string) error {
	_, err := f.enterCall(op)
	return err
}

// enterCall is enter that also reports the call's per-operation number.
func (f *fakeGateway) enterCall(op string) (int, error) {
	f.mu.Lock()
	f.calls[op]++
	n := f.calls[op]
	release, started, gate, err := f.release, f.started, f.gate, f.err
	f.mu.Unlock()

	if gate != nil {
		gate(op, n)
	}
	if started != nil {
		started <- op
	}
	if release != nil {
		<-release
	}
	return n, err
}

func (f *fakeGateway) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeGateway) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func (f *fakeGateway) textOp(op string) (string, error) {
	if err := f.enter(op); err != nil {
		return "", err
	}
	return f.text, nil
}

func (f *fakeGateway) IdeaValidation(ctx context.Context, p models.Profile) (string, error) {
	return f.textOp("IdeaValidation")
}

func (f *fakeGateway) MarketAnalysis(ctx context.Context, p models.Profile) (string, error) {
	return f.textOp("MarketAnalysis")
}

func (f *fakeGateway) BusinessPlan(ctx context.Context, p models.Profile) (string, error) {
	return f.textOp("BusinessPlan")
}

func (f *fakeGateway) MarketingStrategy(ctx context.Context, p models.Profile) (string, error) {
	return f.textOp("MarketingStrategy")
}

func (f *fakeGateway) LegalCompliance(ctx context.Context, p models.Profile) (string, error) {
	return f.textOp("LegalCompliance")
}

func (f *fakeGateway) FinancialForecast(ctx context.Context, p models.Profile) (*models.FinancialForecast, error) {
	if err := f.enter("FinancialForecast"); err != nil {
		return nil, err
	}
	return f.forecast, nil
}

func (f *fakeGateway) RisksAndRoadmap(ctx context.Context, p models.Profile) (*models.RisksAndRoadmap, error) {
	n, err := f.enterCall("RisksAndRoadmap")
	if err != nil {
		return nil, err
	}
	src := f.risks
	f.mu.Lock()
	if r, ok := f.risksByCall[n]; ok {
		src = r
	}
	f.mu.Unlock()
	out := *src
	out.Roadmap = append([]models.RoadmapTask(nil), f.risks.Roadmap...)
	return &out, nil
}

func (f *fakeGateway) MentorReply(ctx context.Context, p models.Profile, history []models.ChatMessage, message string) (string, error) {
	f.mu.Lock()
	f.history = append(f.history, append([]models.ChatMessage(nil), history...))
	f.mu.Unlock()
	if err := f.enter("MentorReply"); err != nil {
		return "", err
	}
	return f.reply, nil
}
