package billing

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/roll2bowl/partner-api/app/models"
	"github.com/roll2bowl/partner-api/internal/pkg/env"
	"github.com/roll2bowl/partner-api/internal/pkg/payments"
	"github.com/roll2bowl/partner-api/internal/pkg/subscription"
)

// Validation errors raised before any gateway call is made. Controllers
// map these to client errors scoped to the originating dialog.
var (
	ErrBranchRequired        = errors.New("a branch must be selected")
	ErrInvalidQuantity       = errors.New("top-up quantity must be a positive number")
	ErrPlanRequired          = errors.New("a subscription plan must be selected")
	ErrNoCurrentSubscription = errors.New("branch has no current subscription")
	ErrNoResolvablePrice     = errors.New("no positive price could be resolved for the current subscription")
)

// Verification errors. ErrKindMismatch means the receipt was posted to
// the wrong verify endpoint. ErrVerificationFailed covers signature
// mismatch and apply failures; the user may have been charged, so
// callers must surface it distinctly rather than swallow it.
var (
	ErrUnknownPaymentOrder = errors.New("unknown payment order reference")
	ErrKindMismatch        = errors.New("payment order was created for a different billing action")
	ErrVerificationFailed  = errors.New("payment verification failed")
)

// Gateway creates checkout orders with the payment provider.
type Gateway interface {
	CreateOrder(ctx context.Context, amount float64, currency, receipt string, notes map[string]string) (*payments.CheckoutOrder, error)
}

// Service drives the subscription billing flow: intent creation, checkout
// order tracking and verify-and-apply transitions.
type Service struct {
	repo      Repository
	gateway   Gateway
	keySecret string
}

// NewService creates a billing service from injected collaborators.
func NewService(repo Repository, gateway Gateway, keySecret string) *Service {
	return &Service{repo: repo, gateway: gateway, keySecret: keySecret}
}

// NewServiceFromDB creates a billing service wired to the Razorpay client
// configured via environment.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(
		NewRepository(db),
		payments.NewRazorpayClientFromEnv(),
		env.GetEnv("RAZORPAY_KEY_SECRET", ""),
	)
}

// WireRecord converts a stored subscription record into the wire shape
// consumed by the reconciler, carrying embedded branch/plan detail when
// the associations were loaded.
func WireRecord(rec models.SubscriptionRecord) subscription.Record {
	branchRef := subscription.IDRef(formatID(rec.BranchID))
	if rec.Branch != nil {
		branchRef = subscription.EmbeddedRef(formatID(rec.Branch.ID), rec.Branch.Name, 0, 0, 0)
	}
	planRef := subscription.IDRef(formatID(rec.PlanID))
	if rec.Plan != nil {
		planRef = subscription.EmbeddedRef(formatID(rec.Plan.ID), rec.Plan.PlanName, rec.Plan.Price, rec.Plan.MaxOrders, rec.Plan.DurationInDays)
	}
	return subscription.Record{
		ID:         formatID(rec.ID),
		Branch:     branchRef,
		Plan:       planRef,
		StartDate:  rec.StartDate,
		EndDate:    rec.EndDate,
		OrderCount: rec.OrderCount,
		MaxOrders:  rec.MaxOrders,
		Status:     subscription.NormalizeStatus(rec.Status),
		Price:      rec.Price,
	}
}

// WireRecords converts a slice of stored records.
func WireRecords(recs []models.SubscriptionRecord) []subscription.Record {
	out := make([]subscription.Record, 0, len(recs))
	for _, rec := range recs {
		out = append(out, WireRecord(rec))
	}
	return out
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// CurrentSubscription reconciles the branch's status records to the
// authoritative current one. The false return is the valid
// "no subscription" state.
func (s *Service) CurrentSubscription(ctx context.Context, branchID uint) (*subscription.Reconciled, bool, error) {
	_ = ctx
	if branchID == 0 {
		return nil, false, nil
	}
	records, err := s.repo.ListStatusRecords(branchID)
	if err != nil {
		return nil, false, err
	}
	reconciled, ok := subscription.Reconcile(formatID(branchID), WireRecords(records))
	return reconciled, ok, nil
}

// PerOrderValue returns the configured top-up price per order, falling
// back to the hardcoded default when the entry is absent.
func (s *Service) PerOrderValue(ctx context.Context) float64 {
	_ = ctx
	value, err := s.repo.GetConfigurationValue(models.ConfigPerOrderValue)
	if err != nil {
		if !errors.Is(err, ErrConfigurationMissing) {
			log.Printf("billing: failed to load %s configuration: %v", models.ConfigPerOrderValue, err)
		}
		return models.DefaultPerOrderValue
	}
	if value <= 0 {
		return models.DefaultPerOrderValue
	}
	return value
}

// CreateTopUpIntent prices quantity * PER_ORDER_VALUE and opens a
// checkout order for it.
func (s *Service) CreateTopUpIntent(ctx context.Context, branchID uint, quantity int) (*IntentResult, error) {
	if branchID == 0 {
		return nil, ErrBranchRequired
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	amount := float64(quantity) * s.PerOrderValue(ctx)
	return s.createIntent(ctx, Intent{
		Kind:             models.PaymentKindTopUp,
		BranchID:         branchID,
		Amount:           amount,
		AdditionalOrders: quantity,
	})
}

// CreateRenewIntent charges the current subscription's resolved price to
// restart its validity window. Fails locally when the branch has no
// current record or no positive price can be resolved.
func (s *Service) CreateRenewIntent(ctx context.Context, branchID uint) (*IntentResult, error) {
	if branchID == 0 {
		return nil, ErrBranchRequired
	}
	current, ok, err := s.CurrentSubscription(ctx, branchID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoCurrentSubscription
	}
	price, ok := current.Record.ResolvePrice()
	if !ok {
		return nil, ErrNoResolvablePrice
	}
	return s.createIntent(ctx, Intent{
		Kind:     models.PaymentKindRenew,
		BranchID: branchID,
		Amount:   price,
	})
}

// CreateUpgradeIntent opens a checkout order for switching the branch to
// a different plan.
func (s *Service) CreateUpgradeIntent(ctx context.Context, branchID, newPlanID uint) (*IntentResult, error) {
	if branchID == 0 {
		return nil, ErrBranchRequired
	}
	if newPlanID == 0 {
		return nil, ErrPlanRequired
	}
	if _, ok, err := s.CurrentSubscription(ctx, branchID); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrNoCurrentSubscription
	}
	plan, err := s.repo.GetPlan(newPlanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanRequired
		}
		return nil, err
	}
	return s.createIntent(ctx, Intent{
		Kind:         models.PaymentKindUpgrade,
		BranchID:     branchID,
		Amount:       plan.Price,
		TargetPlanID: plan.ID,
	})
}

// CreatePurchaseIntent opens a checkout order for a branch's first
// subscription.
func (s *Service) CreatePurchaseIntent(ctx context.Context, branchID, planID uint) (*IntentResult, error) {
	if branchID == 0 {
		return nil, ErrBranchRequired
	}
	if planID == 0 {
		return nil, ErrPlanRequired
	}
	plan, err := s.repo.GetPlan(planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanRequired
		}
		return nil, err
	}
	return s.createIntent(ctx, Intent{
		Kind:         models.PaymentKindPurchase,
		BranchID:     branchID,
		Amount:       plan.Price,
		TargetPlanID: plan.ID,
	})
}

func (s *Service) createIntent(ctx context.Context, intent Intent) (*IntentResult, error) {
	if _, err := s.repo.GetBranch(intent.BranchID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBranchRequired
		}
		return nil, err
	}

	currency := intent.Currency
	if currency == "" {
		currency = payments.DefaultCurrency
	}

	receipt := fmt.Sprintf("%s-%s", intent.Kind, uuid.NewString())
	order, err := s.gateway.CreateOrder(ctx, intent.Amount, currency, receipt, map[string]string{
		"kind":     intent.Kind,
		"branchId": formatID(intent.BranchID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout order: %w", err)
	}

	po := &models.PaymentOrder{
		BranchID:         intent.BranchID,
		Kind:             intent.Kind,
		Amount:           intent.Amount,
		Currency:         currency,
		TargetPlanID:     intent.TargetPlanID,
		AdditionalOrders: intent.AdditionalOrders,
		RazorpayOrderID:  order.OrderID,
		Status:           models.PaymentOrderStatusCreated,
	}
	if err := s.repo.CreatePaymentOrder(po); err != nil {
		return nil, err
	}

	return &IntentResult{
		RazorpayOrderID: order.OrderID,
		Amount:          intent.Amount,
		Currency:        currency,
		Kind:            intent.Kind,
	}, nil
}

// VerifyPayment validates a checkout receipt for the given intent kind
// and applies the resulting subscription transition. On signature or
// kind mismatch the payment order is marked failed and enough of the
// receipt is logged to support manual reconciliation: the user may have
// been charged even when local state did not update.
func (s *Service) VerifyPayment(ctx context.Context, kind string, receipt payments.Receipt) (*VerifyResult, error) {
	_ = ctx
	order, err := s.repo.GetPaymentOrderByGatewayID(receipt.RazorpayOrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("billing verify: unknown gateway order %q (payment %q)", receipt.RazorpayOrderID, receipt.RazorpayPaymentID)
			return nil, ErrUnknownPaymentOrder
		}
		return nil, err
	}

	if err := Transition(order, models.PaymentOrderStatusAwaitingVerification); err != nil {
		return nil, err
	}
	order.RazorpayPaymentID = receipt.RazorpayPaymentID
	order.RawReceiptJSON = fmt.Sprintf(`{"razorpayPaymentId":%q,"razorpayOrderId":%q,"razorpaySignature":%q}`,
		receipt.RazorpayPaymentID, receipt.RazorpayOrderID, receipt.RazorpaySignature)
	if err := s.repo.SavePaymentOrder(order); err != nil {
		return nil, err
	}

	fail := func(reason string, ferr error) (*VerifyResult, error) {
		log.Printf("billing verify FAILED: kind=%s order=%s payment=%s reason=%s",
			order.Kind, receipt.RazorpayOrderID, receipt.RazorpayPaymentID, reason)
		order.FailureReason = reason
		if terr := Transition(order, models.PaymentOrderStatusFailed); terr == nil {
			_ = s.repo.SavePaymentOrder(order)
		}
		return nil, ferr
	}

	if ValidKind(kind) && order.Kind != kind {
		return fail(fmt.Sprintf("verify endpoint kind %q does not match order kind %q", kind, order.Kind), ErrKindMismatch)
	}
	if !payments.VerifyCheckoutSignature(receipt, s.keySecret) {
		return fail("checkout signature mismatch", ErrVerificationFailed)
	}

	// The apply step spans several record writes (expire old window,
	// open new one); a transaction keeps a partial apply from ever
	// reaching the branch's subscription state.
	if err := s.repo.Transact(func(txRepo Repository) error {
		return s.withRepo(txRepo).applyPaid(order)
	}); err != nil {
		return fail(fmt.Sprintf("applying paid transition: %v", err), ErrVerificationFailed)
	}

	now := time.Now()
	order.VerifiedAt = &now
	if err := Transition(order, models.PaymentOrderStatusPaid); err != nil {
		return nil, err
	}
	if err := s.repo.SavePaymentOrder(order); err != nil {
		return nil, err
	}

	return &VerifyResult{Order: order, Notice: NoticeForKind(order)}, nil
}

// withRepo returns a copy of the service bound to another repository,
// used to run the apply step inside a transaction.
func (s *Service) withRepo(repo Repository) *Service {
	return &Service{repo: repo, gateway: s.gateway, keySecret: s.keySecret}
}

// applyPaid applies the subscription transition for a verified order.
func (s *Service) applyPaid(order *models.PaymentOrder) error {
	switch order.Kind {
	case models.PaymentKindTopUp:
		return s.applyTopUp(order)
	case models.PaymentKindRenew:
		return s.applyRenew(order)
	case models.PaymentKindUpgrade:
		return s.applyPlanChange(order)
	case models.PaymentKindPurchase:
		return s.applyPurchase(order)
	default:
		return fmt.Errorf("unknown billing kind %q", order.Kind)
	}
}

func (s *Service) applyTopUp(order *models.PaymentOrder) error {
	rec, err := s.currentRecordModel(order.BranchID)
	if err != nil {
		return err
	}
	if rec.MaxOrders <= 0 {
		// Seed the record-level allowance before topping it up.
		if rec.Plan != nil && rec.Plan.MaxOrders > 0 {
			rec.MaxOrders = rec.Plan.MaxOrders
		} else {
			rec.MaxOrders = subscription.DefaultMaxOrders
		}
	}
	rec.MaxOrders += order.AdditionalOrders
	return s.repo.SaveRecord(rec)
}

func (s *Service) applyRenew(order *models.PaymentOrder) error {
	rec, err := s.currentRecordModel(order.BranchID)
	if err != nil {
		return err
	}
	plan, err := s.repo.GetPlan(rec.PlanID)
	if err != nil {
		return err
	}
	rec.Status = models.SubscriptionStatusExpired
	if err := s.repo.SaveRecord(rec); err != nil {
		return err
	}
	return s.openWindow(order.BranchID, plan)
}

func (s *Service) applyPlanChange(order *models.PaymentOrder) error {
	rec, err := s.currentRecordModel(order.BranchID)
	if err != nil {
		return err
	}
	plan, err := s.repo.GetPlan(order.TargetPlanID)
	if err != nil {
		return err
	}
	rec.Status = models.SubscriptionStatusExpired
	if err := s.repo.SaveRecord(rec); err != nil {
		return err
	}
	return s.openWindow(order.BranchID, plan)
}

func (s *Service) applyPurchase(order *models.PaymentOrder) error {
	plan, err := s.repo.GetPlan(order.TargetPlanID)
	if err != nil {
		return err
	}
	return s.openWindow(order.BranchID, plan)
}

// openWindow creates a fresh active subscription record for the branch
// on the given plan.
func (s *Service) openWindow(branchID uint, plan *models.SubscriptionPlan) error {
	days := plan.DurationInDays
	if days <= 0 {
		days = 30
	}
	maxOrders := plan.MaxOrders
	if maxOrders <= 0 {
		maxOrders = subscription.DefaultMaxOrders
	}
	now := time.Now()
	return s.repo.CreateRecord(&models.SubscriptionRecord{
		BranchID:  branchID,
		PlanID:    plan.ID,
		StartDate: now,
		EndDate:   now.AddDate(0, 0, days),
		MaxOrders: maxOrders,
		Price:     plan.Price,
		Status:    models.SubscriptionStatusActive,
	})
}

// currentRecordModel resolves the branch's current record via the
// reconciler and loads the backing row.
func (s *Service) currentRecordModel(branchID uint) (*models.SubscriptionRecord, error) {
	reconciled, ok, err := s.CurrentSubscription(context.Background(), branchID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoCurrentSubscription
	}
	id, err := strconv.ParseUint(reconciled.Record.ID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("unparsable record id %q: %w", reconciled.Record.ID, err)
	}
	return s.repo.GetRecord(uint(id))
}

// ConsumeOrderCredit counts one placed order against the branch's
// current subscription window. Branches without a subscription are not
// blocked from taking orders; the dashboard warning flags carry that
// policy.
func (s *Service) ConsumeOrderCredit(ctx context.Context, branchID uint) error {
	_ = ctx
	rec, err := s.currentRecordModel(branchID)
	if err != nil {
		if errors.Is(err, ErrNoCurrentSubscription) {
			return nil
		}
		return err
	}
	rec.OrderCount++
	return s.repo.SaveRecord(rec)
}

// CancelPayment marks a created checkout as dismissed by the user. No
// subscription state changes; the gateway order is abandoned.
func (s *Service) CancelPayment(ctx context.Context, razorpayOrderID string) error {
	_ = ctx
	order, err := s.repo.GetPaymentOrderByGatewayID(razorpayOrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnknownPaymentOrder
		}
		return err
	}
	if err := Transition(order, models.PaymentOrderStatusCancelled); err != nil {
		return err
	}
	return s.repo.SavePaymentOrder(order)
}

// SweepAbandoned marks stale, non-final payment orders as abandoned and
// returns how many were swept. Interrupted checkouts otherwise linger as
// dangling unpaid intents.
func (s *Service) SweepAbandoned(ctx context.Context, maxAge time.Duration) (int, error) {
	_ = ctx
	stale, err := s.repo.ListStalePaymentOrders(time.Now().Add(-maxAge))
	if err != nil {
		return 0, err
	}
	swept := 0
	for i := range stale {
		order := &stale[i]
		if err := Transition(order, models.PaymentOrderStatusAbandoned); err != nil {
			continue
		}
		if err := s.repo.SavePaymentOrder(order); err != nil {
			return swept, err
		}
		swept++
	}
	return swept, nil
}
