package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSection(t *testing.T) {
	tests := []struct {
		in      string
		want    Section
		wantErr bool
	}{
		{in: "RISKS", want: SectionRisks},
		{in: "idea-validation", want: SectionIdeaValidation},
		{in: " market_analysis ", want: SectionMarketAnalysis},
		{in: "mentor", want: SectionMentor},
		{in: "pricing", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSection(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSection_Fetchable(t *testing.T) {
	for _, s := range AllSections {
		want := s != SectionDashboard && s != SectionMentor
		assert.Equal(t, want, s.Fetchable(), s)
	}
}

func TestKindFor(t *testing.T) {
	assert.Equal(t, ResultFinance, KindFor(SectionFinance))
	assert.Equal(t, ResultRisks, KindFor(SectionRisks))
	assert.Equal(t, ResultText, KindFor(SectionLegal))
}

func TestChatSession_CloneDoesNotShareMessages(t *testing.T) {
	s := ChatSession{ID: "chat_1", Messages: []ChatMessage{{Role: RoleUser, Text: "hi"}}}
	c := s.Clone()
	c.Messages[0].Text = "changed"
	assert.Equal(t, "hi", s.Messages[0].Text)
}

func TestDefaultSettings(t *testing.T) {
	assert.Equal(t, Settings{DarkMode: true, Notifications: true}, DefaultSettings())
}

func TestExperience_Valid(t *testing.T) {
	assert.True(t, ExperienceExpert.Valid())
	assert.False(t, Experience("Guru").Valid())
}
