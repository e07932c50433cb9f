package subscription

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/jobpopapp/backend/internal/auth"
	"github.com/jobpopapp/backend/internal/billing"
	"github.com/jobpopapp/backend/internal/config"
	"github.com/jobpopapp/backend/internal/logger"
	"github.com/jobpopapp/backend/internal/metrics"
	"github.com/jobpopapp/backend/internal/pesapal"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type planStore interface {
	GetPlans(ctx context.Context) ([]Plan, error)
	GetPlan(ctx context.Context, id string) (*Plan, error)
}

type subscriptionStore interface {
	CreatePending(ctx context.Context, companyID int, planType PlanType, trackingID, redirectURL string) (*Subscription, error)
	FindLatestByCompany(ctx context.Context, companyID int) (*Subscription, error)
}

type reconcileService interface {
	Reconcile(ctx context.Context, trackingID string) (*Subscription, error)
}

type orderGateway interface {
	SubmitOrder(ctx context.Context, order *pesapal.OrderRequest) (*pesapal.OrderResponse, error)
	RegisterIPN(ctx context.Context, ipnURL string) (*pesapal.IPNRegistration, error)
}

type billingStore interface {
	FindByCompany(ctx context.Context, companyID int) (*billing.Address, error)
}

type Handler struct {
	store      subscriptionStore
	plans      planStore
	reconciler reconcileService
	gateway    orderGateway
	billing    billingStore

	callbackURL string
	ipnID       string
	frontendURL string
}

func NewHandler(db *sqlx.DB, gateway *pesapal.Client, reconciler *Reconciler, cfg *config.Config) *Handler {
	repo := NewRepository(db)
	return &Handler{
		store:       repo,
		plans:       repo,
		reconciler:  reconciler,
		gateway:     gateway,
		billing:     billing.NewRepository(db),
		callbackURL: cfg.PesapalCallbackURL,
		ipnID:       cfg.PesapalIPNID,
		frontendURL: cfg.FrontendURL,
	}
}

// ListPlans godoc
// @Summary      List subscription plans
// @Tags         subscription
// @Produce      json
// @Success      200  {array}  Plan
// @Router       /api/subscription/plans [get]
func (h *Handler) ListPlans(c *gin.Context) {
	plans, err := h.plans.GetPlans(c.Request.Context())
	if err != nil {
		logger.Errorf("Failed to load subscription plans: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load plans"})
		return
	}

	c.JSON(http.StatusOK, plans)
}

// GetPlan godoc
// @Summary      Get a subscription plan
// @Tags         subscription
// @Produce      json
// @Param        id   path      string  true  "Plan id"
// @Success      200  {object}  Plan
// @Failure      404  {object}  gin.H
// @Router       /api/subscription/plans/{id} [get]
func (h *Handler) GetPlan(c *gin.Context) {
	plan, err := h.plans.GetPlan(c.Request.Context(), c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plan not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load plan"})
		return
	}

	c.JSON(http.StatusOK, plan)
}

type InitiateRequest struct {
	PlanType string `json:"plan_type" binding:"required"`
}

type InitiateResponse struct {
	OrderTrackingID string        `json:"order_tracking_id"`
	RedirectURL     string        `json:"redirect_url"`
	Subscription    *Subscription `json:"subscription"`
}

// Initiate godoc
// @Summary      Start a paid subscription order
// @Description  Submits a Pesapal order for the chosen plan and records a
// @Description  pending subscription row carrying the gateway tracking id.
// @Tags         subscription
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      InitiateRequest  true  "Plan selection"
// @Success      201      {object}  InitiateResponse
// @Failure      400      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /api/subscription/initiate [post]
func (h *Handler) Initiate(c *gin.Context) {
	companyID, ok := auth.GetCompanyID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Company not authenticated"})
		return
	}

	var req InitiateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !PlanType(req.PlanType).Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscription plan"})
		return
	}

	ctx := c.Request.Context()

	addr, err := h.billing.FindByCompany(ctx, companyID)
	if errors.Is(err, billing.ErrAddressNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Billing address not found. Please create one first."})
		return
	}
	if err != nil {
		logger.Errorf("Failed to load billing address for company %d: %v", companyID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not retrieve billing address"})
		return
	}

	plan, err := h.plans.GetPlan(ctx, req.PlanType)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscription plan"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load plan"})
		return
	}

	order := &pesapal.OrderRequest{
		ID:             fmt.Sprintf("JOBPOP-%d-%d", companyID, time.Now().UnixMilli()),
		Currency:       plan.Currency,
		Amount:         fmt.Sprintf("%.2f", plan.Price),
		Description:    plan.Description,
		CallbackURL:    h.callbackURL,
		NotificationID: h.ipnID,
		BillingAddress: pesapal.BillingAddress{
			EmailAddress: addr.EmailAddress,
			PhoneNumber:  addr.PhoneNumber,
			CountryCode:  addr.CountryCode,
			FirstName:    addr.FirstName,
			MiddleName:   addr.MiddleName,
			LastName:     addr.LastName,
			Line1:        addr.Line1,
			Line2:        addr.Line2,
			City:         addr.City,
			State:        addr.State,
			PostalCode:   addr.PostalCode,
			ZipCode:      addr.ZipCode,
		},
	}

	resp, err := h.gateway.SubmitOrder(ctx, order)
	if err != nil {
		logger.Errorf("Order submission failed for company %d: %v", companyID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit order to payment gateway"})
		return
	}

	sub, err := h.store.CreatePending(ctx, companyID, PlanType(req.PlanType), resp.OrderTrackingID, resp.RedirectURL)
	if err != nil {
		logger.Errorf("Failed to record pending subscription for company %d (tracking %s): %v",
			companyID, resp.OrderTrackingID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record subscription"})
		return
	}

	logger.Infof("Order submitted: company=%d plan=%s tracking=%s", companyID, req.PlanType, resp.OrderTrackingID)
	metrics.RecordOrderSubmitted(req.PlanType)

	c.JSON(http.StatusCreated, InitiateResponse{
		OrderTrackingID: resp.OrderTrackingID,
		RedirectURL:     resp.RedirectURL,
		Subscription:    sub,
	})
}

type ipnNotification struct {
	OrderTrackingID string `json:"OrderTrackingId"`
}

// HandleIPN godoc
// @Summary      Pesapal IPN webhook
// @Description  Reconciles the subscription named by the notification. Always
// @Description  answers 200: reconciliation is idempotent, so gateway-side
// @Description  retries on non-200 would add nothing but load.
// @Tags         subscription
// @Accept       json
// @Produce      json
// @Param        request  body      ipnNotification  true  "IPN payload"
// @Success      200      {object}  api.MessageResponse
// @Router       /api/subscription/ipn [post]
func (h *Handler) HandleIPN(c *gin.Context) {
	var notif ipnNotification
	if err := c.ShouldBindJSON(&notif); err != nil || notif.OrderTrackingID == "" {
		logger.Warn("IPN received without OrderTrackingId")
		c.JSON(http.StatusOK, gin.H{"message": "IPN received"})
		return
	}

	if _, err := h.reconciler.Reconcile(c.Request.Context(), notif.OrderTrackingID); err != nil {
		logger.Errorf("IPN reconcile failed for tracking %s: %v", notif.OrderTrackingID, err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "IPN received"})
}

// HandleCallback godoc
// @Summary      Pesapal redirect callback
// @Description  Reconciles and redirects the browser to the frontend payment
// @Description  result page.
// @Tags         subscription
// @Param        OrderTrackingId  query  string  true  "Gateway tracking id"
// @Success      302
// @Router       /api/subscription/callback [get]
func (h *Handler) HandleCallback(c *gin.Context) {
	trackingID := c.Query("OrderTrackingId")
	if trackingID == "" {
		trackingID = c.Query("orderTrackingId")
	}
	if trackingID == "" {
		c.Redirect(http.StatusFound, h.frontendURL+"/subscription/payment-result?status=error")
		return
	}

	sub, err := h.reconciler.Reconcile(c.Request.Context(), trackingID)
	if err != nil {
		logger.Errorf("Callback reconcile failed for tracking %s: %v", trackingID, err)
		c.Redirect(http.StatusFound, h.frontendURL+"/subscription/payment-result?status=error")
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf(
		"%s/subscription/payment-result?orderTrackingId=%s&status=%s",
		h.frontendURL, url.QueryEscape(trackingID), sub.TransactionStatus,
	))
}

// VerifyPayment godoc
// @Summary      Verify a payment
// @Description  Synchronous reconciliation for the frontend polling after the
// @Description  redirect back from the payment page.
// @Tags         subscription
// @Security     BearerAuth
// @Produce      json
// @Param        orderTrackingId  query     string  true  "Gateway tracking id"
// @Success      200              {object}  Subscription
// @Failure      400              {object}  gin.H
// @Failure      404              {object}  gin.H
// @Failure      500              {object}  gin.H
// @Router       /api/subscription/verify-payment [get]
func (h *Handler) VerifyPayment(c *gin.Context) {
	trackingID := c.Query("orderTrackingId")
	if trackingID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing orderTrackingId"})
		return
	}

	sub, err := h.reconciler.Reconcile(c.Request.Context(), trackingID)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Subscription not found"})
		return
	}
	if err != nil {
		logger.Errorf("Verify reconcile failed for tracking %s: %v", trackingID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify payment"})
		return
	}

	c.JSON(http.StatusOK, sub)
}

// GetStatus godoc
// @Summary      Current subscription status
// @Tags         subscription
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  Subscription
// @Router       /api/subscription/status [get]
func (h *Handler) GetStatus(c *gin.Context) {
	companyID, ok := auth.GetCompanyID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Company not authenticated"})
		return
	}

	sub, err := h.store.FindLatestByCompany(c.Request.Context(), companyID)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusOK, gin.H{"company_id": companyID, "is_active": false})
		return
	}
	if err != nil {
		logger.Errorf("Failed to load subscription for company %d: %v", companyID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load subscription"})
		return
	}

	c.JSON(http.StatusOK, sub)
}

type RegisterIPNRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// RegisterIPN godoc
// @Summary      Register the IPN URL with Pesapal
// @Description  One-off setup call. Save the returned ipn_id as
// @Description  PESAPAL_IPN_ID.
// @Tags         subscription
// @Accept       json
// @Produce      json
// @Param        request  body      RegisterIPNRequest  true  "IPN URL"
// @Success      200      {object}  pesapal.IPNRegistration
// @Failure      400      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /api/pesapal/register-ipn [post]
func (h *Handler) RegisterIPN(c *gin.Context) {
	var req RegisterIPNRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing url for IPN registration"})
		return
	}

	reg, err := h.gateway.RegisterIPN(c.Request.Context(), req.URL)
	if err != nil {
		logger.Errorf("IPN registration failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register IPN URL with Pesapal"})
		return
	}

	c.JSON(http.StatusOK, reg)
}
