package sms

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jobpopapp/backend/internal/billing"
	"github.com/jobpopapp/backend/internal/subscription"

	"github.com/stretchr/testify/mock"
)

type mockPhones struct {
	mock.Mock
}

func (m *mockPhones) FindByCompany(ctx context.Context, companyID int) (*billing.Address, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Address), args.Error(1)
}

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, number, text string) error {
	args := m.Called(ctx, number, text)
	return args.Error(0)
}

func activatedSub(companyID int) *subscription.Subscription {
	now := time.Now()
	end := now.AddDate(0, 1, 0)
	return &subscription.Subscription{
		ID:                1,
		CompanyID:         companyID,
		PlanType:          subscription.PlanMonthly,
		TransactionStatus: subscription.StatusComplete,
		IsActive:          true,
		StartDate:         &now,
		EndDate:           &end,
	}
}

func TestNotifyActivated(t *testing.T) {
	phones := new(mockPhones)
	phones.On("FindByCompany", mock.Anything, 7).Return(&billing.Address{
		CompanyID:   7,
		PhoneNumber: "+256700000000",
	}, nil)

	sender := new(mockSender)
	sender.On("Send", mock.Anything, "+256700000000", mock.MatchedBy(func(text string) bool {
		return len(text) > 0
	})).Return(nil)

	n := NewActivationNotifier(phones, sender)
	n.NotifyActivated(context.Background(), activatedSub(7))

	phones.AssertExpectations(t)
	sender.AssertExpectations(t)
}

func TestNotifyActivated_NoBillingPhone(t *testing.T) {
	phones := new(mockPhones)
	phones.On("FindByCompany", mock.Anything, 7).Return(nil, billing.ErrAddressNotFound)

	sender := new(mockSender)

	n := NewActivationNotifier(phones, sender)
	n.NotifyActivated(context.Background(), activatedSub(7))

	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestNotifyActivated_SendFailureIsSwallowed(t *testing.T) {
	phones := new(mockPhones)
	phones.On("FindByCompany", mock.Anything, 7).Return(&billing.Address{
		CompanyID:   7,
		PhoneNumber: "+256700000000",
	}, nil)

	sender := new(mockSender)
	sender.On("Send", mock.Anything, "+256700000000", mock.Anything).Return(errors.New("queue down"))

	n := NewActivationNotifier(phones, sender)
	n.NotifyActivated(context.Background(), activatedSub(7))

	sender.AssertExpectations(t)
}
