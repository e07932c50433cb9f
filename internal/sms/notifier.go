package sms

import (
	"context"
	"fmt"

	"github.com/jobpopapp/backend/internal/billing"
	"github.com/jobpopapp/backend/internal/logger"
	"github.com/jobpopapp/backend/internal/subscription"
)

type phoneLookup interface {
	FindByCompany(ctx context.Context, companyID int) (*billing.Address, error)
}

type sender interface {
	Send(ctx context.Context, number, text string) error
}

// ActivationNotifier texts the company's billing phone when a subscription
// activates. Failures are logged only: activation already happened and must
// not be rolled back over a notification.
type ActivationNotifier struct {
	phones phoneLookup
	sms    sender
}

func NewActivationNotifier(phones phoneLookup, sms sender) *ActivationNotifier {
	return &ActivationNotifier{phones: phones, sms: sms}
}

func (n *ActivationNotifier) NotifyActivated(ctx context.Context, sub *subscription.Subscription) {
	addr, err := n.phones.FindByCompany(ctx, sub.CompanyID)
	if err != nil {
		logger.Warnf("No billing phone for company %d, skipping activation SMS: %v", sub.CompanyID, err)
		return
	}

	text := fmt.Sprintf("Your JobPop %s subscription is now active. Happy hiring!", sub.PlanType)
	if sub.EndDate != nil {
		text = fmt.Sprintf(
			"Your JobPop %s subscription is now active until %s. Happy hiring!",
			sub.PlanType, sub.EndDate.Format("02 Jan 2006"),
		)
	}

	if err := n.sms.Send(ctx, addr.PhoneNumber, text); err != nil {
		logger.Errorf("Failed to queue activation SMS for company %d: %v", sub.CompanyID, err)
	}
}
