package api

import (
	"context"
	"sync"
	"time"

	"apex-business/internal/common/errors"
	"apex-business/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type memUsers struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[string]*models.User)}
}

func (m *memUsers) Create(_ context.Context, name, email, hash string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return nil, errors.NewEmailAlreadyRegisteredError(email)
		}
	}
	u := &models.User{ID: uuid.NewString(), Name: name, Email: email, PasswordHash: hash, CreatedAt: time.Now()}
	m.users[u.ID] = u
	return u, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, errors.NewUserNotFoundError(id)
}

type memProfiles struct {
	mu       sync.Mutex
	profiles map[string]models.Profile
}

func (m *memProfiles) Get(_ context.Context, userID string) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return nil, errors.NewProfileNotFoundError(userID)
	}
	return &p, nil
}

func (m *memProfiles) Upsert(_ context.Context, userID string, p models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[userID] = p
	return nil
}

type memSettings struct {
	mu       sync.Mutex
	settings map[string]models.Settings
}

func (m *memSettings) Get(_ context.Context, userID string) (models.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.settings[userID]; ok {
		return s, nil
	}
	return models.DefaultSettings(), nil
}

func (m *memSettings) Upsert(_ context.Context, userID string, s models.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[userID] = s
	return nil
}

type MockWelcomeSender struct {
	mock.Mock
}

func (m *MockWelcomeSender) SendWelcome(ctx context.Context, name, email string) error {
	args := m.Called(ctx, name, email)
	return args.Error(0)
}

// stubGateway answers every operation immediately with fixed content.
type stubGateway struct {
	mu  sync.Mutex
	err error
}

func (g *stubGateway) fail() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.err
}

func (g *stubGateway) setErr(err error) {
	g.mu.Lock()
	g.err = err
	g.mu.Unlock()
}

func (g *stubGateway) text(s string) (string, error) {
	if err := g.fail(); err != nil {
		return "", err
	}
	return s, nil
}

func (g *stubGateway) IdeaValidation(context.Context, models.Profile) (string, error) {
	return g.text("## Verdict\nPromising.")
}

func (g *stubGateway) MarketAnalysis(context.Context, models.Profile) (string, error) {
	return g.text("market")
}

func (g *stubGateway) BusinessPlan(context.Context, models.Profile) (string, error) {
	return g.text("plan")
}

func (g *stubGateway) MarketingStrategy(context.Context, models.Profile) (string, error) {
	return g.text("marketing")
}

func (g *stubGateway) LegalCompliance(context.Context, models.Profile) (string, error) {
	return g.text("legal")
}

func (g *stubGateway) FinancialForecast(context.Context, models.Profile) (*models.FinancialForecast, error) {
	if err := g.fail(); err != nil {
		return nil, err
	}
	return &models.FinancialForecast{Analysis: "steady", Data: []models.FinancialDataPoint{{Month: "Jan", Revenue: 10, Expenses: 5, Profit: 5}}}, nil
}

func (g *stubGateway) RisksAndRoadmap(context.Context, models.Profile) (*models.RisksAndRoadmap, error) {
	if err := g.fail(); err != nil {
		return nil, err
	}
	return &models.RisksAndRoadmap{
		Risks: []models.Risk{{Title: "Competition", Mitigation: "Niche down"}},
		Roadmap: []models.RoadmapTask{
			{Week: 1, Title: "Register", Detail: "Company papers"},
			{Week: 2, Title: "Build", Detail: "MVP"},
		},
	}, nil
}

func (g *stubGateway) MentorReply(_ context.Context, _ models.Profile, _ []models.ChatMessage, msg string) (string, error) {
	return g.text("You asked: " + msg)
}
