package subscription

import (
	"context"
	"time"

	"github.com/jobpopapp/backend/internal/logger"
	"github.com/jobpopapp/backend/internal/metrics"
	"github.com/jobpopapp/backend/internal/pesapal"
)

// Store is the persistence surface the reconciler needs. *Repository
// implements it.
type Store interface {
	FindByTrackingID(ctx context.Context, trackingID string) (*Subscription, error)
	FindByID(ctx context.Context, id int) (*Subscription, error)
	FindLatestByCompany(ctx context.Context, companyID int) (*Subscription, error)
	ConditionalActivate(ctx context.Context, id int, start, end time.Time) (bool, error)
}

// Gateway is the slice of the Pesapal client the reconciler consumes.
type Gateway interface {
	GetTransactionStatus(ctx context.Context, orderTrackingID string) (*pesapal.TransactionStatus, error)
}

// ActivationNotifier is told about each activation this process won. Losers
// of the activation race stay silent so the company gets one notification.
type ActivationNotifier interface {
	NotifyActivated(ctx context.Context, sub *Subscription)
}

// Reconciler synchronizes local subscription state with the gateway's
// authoritative transaction status. It is invoked from three racing triggers
// (post-login check, IPN webhook, client verify poll); the conditional update
// in the store is the sole mutual-exclusion mechanism, so concurrent calls
// are safe and idempotent.
type Reconciler struct {
	store    Store
	gateway  Gateway
	notifier ActivationNotifier
}

func NewReconciler(store Store, gateway Gateway, notifier ActivationNotifier) *Reconciler {
	return &Reconciler{
		store:    store,
		gateway:  gateway,
		notifier: notifier,
	}
}

// Reconcile looks up the subscription behind trackingID, asks the gateway for
// the transaction status and activates the row when the gateway confirms
// payment. It never moves a row backwards: an already-complete row is
// returned as is, and an unconfirmed status leaves the row untouched.
func (r *Reconciler) Reconcile(ctx context.Context, trackingID string) (*Subscription, error) {
	sub, err := r.store.FindByTrackingID(ctx, trackingID)
	if err != nil {
		return nil, err
	}

	status, err := r.gateway.GetTransactionStatus(ctx, trackingID)
	if err != nil {
		metrics.RecordReconciliation("reconcile", "gateway_error")
		return nil, err
	}

	if !status.Confirmed() {
		metrics.RecordReconciliation("reconcile", "unconfirmed")
		return sub, nil
	}

	if sub.TransactionStatus == StatusComplete {
		// Duplicate IPN delivery or repeated polling after activation.
		metrics.RecordReconciliation("reconcile", "noop")
		return sub, nil
	}

	now := time.Now()
	end := sub.PlanType.WindowEnd(now)

	applied, err := r.store.ConditionalActivate(ctx, sub.ID, now, end)
	if err != nil {
		metrics.RecordReconciliation("reconcile", "store_error")
		return nil, err
	}

	if !applied {
		current, err := r.store.FindByID(ctx, sub.ID)
		if err != nil {
			return nil, err
		}
		if current.TransactionStatus == StatusComplete {
			// A concurrent trigger completed the row first.
			logger.Infof("Subscription %d already activated by a concurrent reconcile", sub.ID)
			metrics.RecordReconciliation("reconcile", "lost_race")
		} else {
			// A failed row stays failed even when the gateway later
			// confirms payment; reinstating it is an operator decision.
			logger.Errorf("Subscription %d confirmed by gateway but not activatable: status=%s",
				sub.ID, current.TransactionStatus)
			metrics.RecordReconciliation("reconcile", "not_pending")
		}
		return current, nil
	}

	updated, err := r.store.FindByID(ctx, sub.ID)
	if err != nil {
		return nil, err
	}

	logger.Infof("Subscription %d activated: plan=%s company=%d end=%s",
		updated.ID, updated.PlanType, updated.CompanyID, end.Format(time.RFC3339))
	metrics.RecordReconciliation("reconcile", "activated")
	metrics.RecordActivation(string(updated.PlanType))

	if r.notifier != nil {
		r.notifier.NotifyActivated(ctx, updated)
	}

	return updated, nil
}

// CheckPendingForCompany is the post-login trigger: best effort, result
// discarded. It only touches the gateway when the company's latest row is
// still pending and already carries a tracking id.
func (r *Reconciler) CheckPendingForCompany(ctx context.Context, companyID int) {
	sub, err := r.store.FindLatestByCompany(ctx, companyID)
	if err != nil {
		return
	}
	if sub.TransactionStatus != StatusPending || sub.TrackingID == nil || *sub.TrackingID == "" {
		return
	}

	if _, err := r.Reconcile(ctx, *sub.TrackingID); err != nil {
		logger.Errorf("Login-triggered subscription check failed for company %d: %v", companyID, err)
	}
}
