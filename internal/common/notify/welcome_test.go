package notify

import (
	"context"
	"errors"
	"testing"

	"apex-business/internal/common/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ses.SendEmailOutput), args.Error(1)
}

func TestNotifier_SendWelcome(t *testing.T) {
	sender := &MockSender{}
	sender.On("SendEmail", mock.Anything, mock.MatchedBy(func(in *ses.SendEmailInput) bool {
		return aws.ToString(in.Source) == "hello@apex.io" &&
			len(in.Destination.ToAddresses) == 1 &&
			in.Destination.ToAddresses[0] == "ana@example.com"
	})).Return(&ses.SendEmailOutput{MessageId: aws.String("m-1")}, nil)

	n := New(sender, "hello@apex.io", logger.NewTestLogger(t))
	require.NoError(t, n.SendWelcome(context.Background(), "Ana", "ana@example.com"))
	sender.AssertExpectations(t)
}

func TestNotifier_SendWelcomeFailure(t *testing.T) {
	sender := &MockSender{}
	sender.On("SendEmail", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

	n := New(sender, "hello@apex.io", logger.NewTestLogger(t))
	err := n.SendWelcome(context.Background(), "Ana", "ana@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func TestNotifier_Disabled(t *testing.T) {
	assert.NoError(t, NewDisabled(logger.NewNoOpLogger()).SendWelcome(context.Background(), "Ana", "a@b.co"))

	var nilNotifier *Notifier
	assert.NoError(t, nilNotifier.SendWelcome(context.Background(), "Ana", "a@b.co"))
}

func TestWelcomeBody(t *testing.T) {
	assert.Contains(t, welcomeBody("Ana"), "Hi Ana,")
	assert.Contains(t, welcomeBody(""), "Hi founder,")
}
