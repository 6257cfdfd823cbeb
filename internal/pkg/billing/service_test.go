package billing

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/roll2bowl/partner-api/app/models"
	"github.com/roll2bowl/partner-api/internal/pkg/payments"
)

type fakeRepo struct {
	branches map[uint]*models.Branch
	plans    map[uint]*models.SubscriptionPlan
	records  map[uint]*models.SubscriptionRecord
	orders   map[string]*models.PaymentOrder
	config   map[string]float64

	nextRecordID     uint
	failCreateRecord bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		branches:     map[uint]*models.Branch{},
		plans:        map[uint]*models.SubscriptionPlan{},
		records:      map[uint]*models.SubscriptionRecord{},
		orders:       map[string]*models.PaymentOrder{},
		config:       map[string]float64{},
		nextRecordID: 1,
	}
}

// Transact mimics gorm's transaction semantics: mutations made by fn
// are rolled back when it returns an error.
func (f *fakeRepo) Transact(fn func(Repository) error) error {
	savedRecords := make(map[uint]*models.SubscriptionRecord, len(f.records))
	for id, rec := range f.records {
		copy := *rec
		savedRecords[id] = &copy
	}
	savedOrders := make(map[string]*models.PaymentOrder, len(f.orders))
	for id, o := range f.orders {
		copy := *o
		savedOrders[id] = &copy
	}
	savedNextID := f.nextRecordID

	if err := fn(f); err != nil {
		f.records = savedRecords
		f.orders = savedOrders
		f.nextRecordID = savedNextID
		return err
	}
	return nil
}

func (f *fakeRepo) GetBranch(id uint) (*models.Branch, error) {
	if b, ok := f.branches[id]; ok {
		return b, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) GetPlan(id uint) (*models.SubscriptionPlan, error) {
	if p, ok := f.plans[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) ListStatusRecords(branchID uint) ([]models.SubscriptionRecord, error) {
	var out []models.SubscriptionRecord
	for id := uint(1); id < f.nextRecordID; id++ {
		rec, ok := f.records[id]
		if !ok {
			continue
		}
		if branchID != 0 && rec.BranchID != branchID {
			continue
		}
		copy := *rec
		if plan, ok := f.plans[rec.PlanID]; ok {
			copy.Plan = plan
		}
		if branch, ok := f.branches[rec.BranchID]; ok {
			copy.Branch = branch
		}
		out = append(out, copy)
	}
	return out, nil
}

func (f *fakeRepo) GetRecord(id uint) (*models.SubscriptionRecord, error) {
	if rec, ok := f.records[id]; ok {
		copy := *rec
		if plan, ok := f.plans[rec.PlanID]; ok {
			copy.Plan = plan
		}
		return &copy, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) CreateRecord(rec *models.SubscriptionRecord) error {
	if f.failCreateRecord {
		return errors.New("create record failed")
	}
	rec.ID = f.nextRecordID
	f.nextRecordID++
	stored := *rec
	f.records[rec.ID] = &stored
	return nil
}

func (f *fakeRepo) SaveRecord(rec *models.SubscriptionRecord) error {
	stored := *rec
	stored.Plan = nil
	stored.Branch = nil
	f.records[rec.ID] = &stored
	return nil
}

func (f *fakeRepo) CreatePaymentOrder(order *models.PaymentOrder) error {
	order.CreatedAt = time.Now()
	stored := *order
	f.orders[order.RazorpayOrderID] = &stored
	return nil
}

func (f *fakeRepo) GetPaymentOrderByGatewayID(id string) (*models.PaymentOrder, error) {
	if o, ok := f.orders[id]; ok {
		copy := *o
		return &copy, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) SavePaymentOrder(order *models.PaymentOrder) error {
	stored := *order
	f.orders[order.RazorpayOrderID] = &stored
	return nil
}

func (f *fakeRepo) ListStalePaymentOrders(cutoff time.Time) ([]models.PaymentOrder, error) {
	var out []models.PaymentOrder
	for _, o := range f.orders {
		if !o.IsFinal() && o.CreatedAt.Before(cutoff) {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetConfigurationValue(name string) (float64, error) {
	if v, ok := f.config[name]; ok {
		return v, nil
	}
	return 0, ErrConfigurationMissing
}

type fakeGateway struct {
	calls   int
	lastAmt float64
	fail    bool
}

func (g *fakeGateway) CreateOrder(_ context.Context, amount float64, currency, receipt string, _ map[string]string) (*payments.CheckoutOrder, error) {
	if g.fail {
		return nil, errors.New("gateway unavailable")
	}
	g.calls++
	g.lastAmt = amount
	return &payments.CheckoutOrder{
		OrderID:     fmt.Sprintf("order_fake%d", g.calls),
		AmountPaise: int64(amount * 100),
		Currency:    currency,
		Receipt:     receipt,
		Status:      "created",
	}, nil
}

const testKeySecret = "test-key-secret"

func newTestService(repo *fakeRepo, gw *fakeGateway) *Service {
	return NewService(repo, gw, testKeySecret)
}

func seedBranchAndPlan(repo *fakeRepo) {
	repo.branches[1] = &models.Branch{ID: 1, RestaurantID: 1, Name: "Indiranagar"}
	repo.plans[10] = &models.SubscriptionPlan{
		ID: 10, PlanName: "Starter", Price: 499, MaxOrders: 100, DurationInDays: 30, IsActive: true,
	}
	repo.plans[20] = &models.SubscriptionPlan{
		ID: 20, PlanName: "Growth", Price: 999, MaxOrders: 250, DurationInDays: 30, IsActive: true,
	}
}

func seedActiveRecord(repo *fakeRepo) *models.SubscriptionRecord {
	now := time.Now()
	rec := &models.SubscriptionRecord{
		BranchID:  1,
		PlanID:    10,
		StartDate: now.AddDate(0, 0, -5),
		EndDate:   now.AddDate(0, 0, 25),
		MaxOrders: 100,
		Price:     499,
		Status:    models.SubscriptionStatusActive,
	}
	_ = repo.CreateRecord(rec)
	return rec
}

func signedReceipt(orderID, paymentID string) payments.Receipt {
	mac := hmac.New(sha256.New, []byte(testKeySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return payments.Receipt{
		RazorpayOrderID:   orderID,
		RazorpayPaymentID: paymentID,
		RazorpaySignature: hex.EncodeToString(mac.Sum(nil)),
	}
}

func TestPerOrderValue(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeGateway{})
	ctx := context.Background()

	if got := svc.PerOrderValue(ctx); got != models.DefaultPerOrderValue {
		t.Fatalf("missing config: per order value = %v, want default %v", got, models.DefaultPerOrderValue)
	}

	repo.config[models.ConfigPerOrderValue] = 5
	if got := svc.PerOrderValue(ctx); got != 5 {
		t.Fatalf("per order value = %v, want 5", got)
	}

	repo.config[models.ConfigPerOrderValue] = -1
	if got := svc.PerOrderValue(ctx); got != models.DefaultPerOrderValue {
		t.Fatalf("non-positive config: per order value = %v, want default", got)
	}
}

func TestCreateTopUpIntent_PricesQuantityTimesPerOrderValue(t *testing.T) {
	repo := newFakeRepo()
	seedBranchAndPlan(repo)
	gw := &fakeGateway{}
	svc := newTestService(repo, gw)

	res, err := svc.CreateTopUpIntent(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Amount != 10*models.DefaultPerOrderValue {
		t.Fatalf("amount = %v, want %v", res.Amount, 10*models.DefaultPerOrderValue)
	}
	if gw.lastAmt != res.Amount {
		t.Fatalf("gateway charged %v, intent says %v", gw.lastAmt, res.Amount)
	}
	if res.Kind != models.PaymentKindTopUp {
		t.Fatalf("kind = %s, want %s", res.Kind, models.PaymentKindTopUp)
	}

	order, err := repo.GetPaymentOrderByGatewayID(res.RazorpayOrderID)
	if err != nil {
		t.Fatalf("payment order not persisted: %v", err)
	}
	if order.Status != models.PaymentOrderStatusCreated {
		t.Fatalf("order status = %s, want created", order.Status)
	}
	if order.AdditionalOrders != 10 {
		t.Fatalf("additional orders = %d, want 10", order.AdditionalOrders)
	}
}

func TestCreateTopUpIntent_Validation(t *testing.T) {
	repo := newFakeRepo()
	seedBranchAndPlan(repo)
	gw := &fakeGateway{}
	svc := newTestService(repo, gw)
	ctx := context.Background()

	if _, err := svc.CreateTopUpIntent(ctx, 0, 10); !errors.Is(err, ErrBranchRequired) {
		t.Fatalf("missing branch: err = %v, want ErrBranchRequired", err)
	}
	if _, err := svc.CreateTopUpIntent(ctx, 1, 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("zero quantity: err = %v, want ErrInvalidQuantity", err)
	}
	if _, err := svc.CreateTopUpIntent(ctx, 1, -3); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("negative quantity: err = %v, want ErrInvalidQuantity", err)
	}
	if _, err := svc.CreateTopUpIntent(ctx, 99, 10); !errors.Is(err, ErrBranchRequired) {
		t.Fatalf("unknown branch: err = %v, want ErrBranchRequired", err)
	}
	if gw.calls != 0 {
		t.Fatalf("validation failures must not reach the gateway, got %d calls", gw.calls)
	}
}

func TestCreateRenewIntent(t *testing.T) {
	repo := newFakeRepo()
	seedBranchAndPlan(repo)
	svc := newTestService(repo, &fakeGateway{})
	ctx := context.Background()

	if _, err := svc.CreateRenewIntent(ctx, 1); !errors.Is(err, ErrNoCurrentSubscription) {
		t.Fatalf("no subscription: err = %v, want ErrNoCurrentSubscription", err)
	}

	seedActiveRecord(repo)
	res, err := svc.CreateRenewIntent(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Amount != 499 {
		t.Fatalf("renew amount = %v, want resolved plan price 499", res.Amount)
	}
	if res.Kind != models.PaymentKindRenew {
		t.Fatalf("kind = %s, want renew", res.Kind)
	}
}

func TestCreateUpgradeIntent_RequiresCurrentSubscription(t *testing.T) {
	repo := newFakeRepo()
	seedBranchAndPlan(repo)
	svc := newTestService(repo, &fakeGateway{})
	ctx := context.Background()

	if _, err := svc.CreateUpgradeIntent(ctx, 1, 20); !errors.Is(err, ErrNoCurrentSubscription) {
		t.Fatalf("err = %v, want ErrNoCurrentSubscription", err)
	}

	seedActiveRecord(repo)
	res, err := svc.CreateUpgradeIntent(ctx, 1, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Amount != 999 {
		t.Fatalf("upgrade amount = %v, want target plan price 999", res.Amount)
	}
}

func TestCreatePurchaseIntent(t *testing.T) {
	repo := newFakeRepo()
	seedBranchAndPlan(repo)
	svc := newTestService(repo, &fakeGateway{})

	res, err := svc.CreatePurchaseIntent(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Amount != 499 || res.Kind != models.PaymentKindPurchase {
		t.Fatalf("got amount=%v kind=%s, want 499/purchase", res.Amount, res.Kind)
	}
}

func TestCreateIntent_GatewayFailure(t *testing.T) {
	repo := newFakeRepo()
	seedBranchAndPlan(repo)
	svc := newTestService(repo, &fakeGateway{fail: true})

	if _, err := svc.CreatePurchaseIntent(context.Background(), 1, 10); err == nil {
		t.Fatalf("expected gateway failure to propagate")
	}
	if len(repo.orders) != 0 {
		t.Fatalf("no payment order must be persisted when the gateway fails")
	}
}

func TestVerifyPayment_TopUpAddsToAllowance(t *testing.T) {
	repo := newFakeRepo()
	seedBranchAndPlan(repo)
	rec := seedActiveRecord(repo)
	svc := newTestService(repo, &fakeGateway{})
	ctx := context.Background()

	res, err := svc.CreateTopUpIntent(ctx, 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	vr, err := svc.VerifyPayment(ctx, models.PaymentKindTopUp, signedReceipt(res.RazorpayOrderID, "pay_1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vr.Order.Status != models.PaymentOrderStatusPaid {
		t.Fatalf("order status = %s, want paid", vr.Order.Status)
	}
	if vr.Order.VerifiedAt == nil {
		t.Fatalf("verified timestamp not set")
	}
	if vr.Notice == "" {
		t.Fatalf("expected a success notice")
	}

	updated, err := repo.GetRecord(rec.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.MaxOrders != 110 {
		t.Fatalf("allowance = %d, want 100 + 10", updated.MaxOrders)
	}
	if updated.OrderCount != rec.OrderCount {
		t.Fatalf("top-up must not touch consumed order count")
	}
}

func TestVerifyPayment_RenewOpensNewWindow(t *testing.T) {
	repo := newFakeRepo()
	seedBranchAndPlan(repo)
	old := seedActiveRecord(repo)
	svc := newTestService(repo, &fakeGateway{})
	ctx := context.Background()

	res, err := svc.CreateRenewIntent(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.VerifyPayment(ctx, models.PaymentKindRenew, signedReceipt(res.RazorpayOrderID, "pay_2")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expired, _ := repo.GetRecord(old.ID)
	if expired.Status != models.SubscriptionStatusExpired {
		t.Fatalf("old record status = %s, want expired", expired.Status)
	}

	records, _ := repo.ListStatusRecords(1)
	if len(records) != 2 {
		t.Fatalf("records = %d, want old + renewed", len(records))
	}
	fresh := records[len(records)-1]
	if fresh.Status != models.SubscriptionStatusActive || fresh.PlanID != old.PlanID {
		t.Fatalf("renewed record = %+v, want active on same plan", fresh)
	}
	if fresh.OrderCount != 0 {
		t.Fatalf("renewed window must start with zero consumed orders")
	}
}

func TestVerifyPayment_UpgradeSwitchesPlan(t *testing.T) {
	repo := newFakeRepo()
	seedBranchAndPlan(repo)
	old := seedActiveRecord(repo)
	svc := newTestService(repo, &fakeGateway{})
	ctx := context.Background()

	res, err := svc.CreateUpgradeIntent(ctx, 1, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.VerifyPayment(ctx, models.PaymentKindUpgrade, signedReceipt(res.RazorpayOrderID, "pay_3")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expired, _ := repo.GetRecord(old.ID)
	if expired.Status != models.SubscriptionStatusExpired {
		t.Fatalf("old record status = %s, want expired", expired.Status)
	}
	records, _ := repo.ListStatusRecords(1)
	fresh := records[len(records)-1]
	if fresh.PlanID != 20 || fresh.MaxOrders != 250 {
		t.Fatalf("upgraded record plan=%d max=%d, want 20/250", fresh.PlanID, fresh.MaxOrders)
	}
}

func TestVerifyPayment_PurchaseCreatesFirstRecord(t *testing.T) {
	repo := newFakeRepo()
	seedBranchAndPlan(repo)
	svc := newTestService(repo, &fakeGateway{})
	ctx := context.Background()

	res, err := svc.CreatePurchaseIntent(ctx, 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.VerifyPayment(ctx, models.PaymentKindPurchase, signedReceipt(res.RazorpayOrderID, "pay_4")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reconciled, ok, err := svc.CurrentSubscription(ctx, 1)
	if err != nil || !ok {
		t.Fatalf("expected a current subscription after purchase, ok=%v err=%v", ok, err)
	}
	if reconciled.MaxOrders != 100 || reconciled.RemainingOrders != 100 {
		t.Fatalf("fresh subscription max=%d remaining=%d, want 100/100", reconciled.MaxOrders, reconciled.RemainingOrders)
	}
}

func TestVerifyPayment_BadSignatureMarksFailed(t *testing.T) {
	repo := newFakeRepo()
	seedBranchAndPlan(repo)
	rec := seedActiveRecord(repo)
	svc := newTestService(repo, &fakeGateway{})
	ctx := context.Background()

	res, err := svc.CreateTopUpIntent(ctx, 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := payments.Receipt{
		RazorpayOrderID:   res.RazorpayOrderID,
		RazorpayPaymentID: "pay_bad",
		RazorpaySignature: "deadbeef",
	}
	if _, err := svc.VerifyPayment(ctx, models.PaymentKindTopUp, bad); !errors.Is(err, ErrVerificationFailed) {
		t.Fatalf("err = %v, want ErrVerificationFailed", err)
	}

	order, _ := repo.GetPaymentOrderByGatewayID(res.RazorpayOrderID)
	if order.Status != models.PaymentOrderStatusFailed {
		t.Fatalf("order status = %s, want failed", order.Status)
	}
	if order.FailureReason == "" {
		t.Fatalf("failure reason must be recorded")
	}

	untouched, _ := repo.GetRecord(rec.ID)
	if untouched.MaxOrders != 100 {
		t.Fatalf("failed verification must not change the allowance, got %d", untouched.MaxOrders)
	}
}

func TestVerifyPayment_KindMismatchMarksFailed(t *testing.T) {
	repo := newFakeRepo()
	seedBranchAndPlan(repo)
	seedActiveRecord(repo)
	svc := newTestService(repo, &fakeGateway{})
	ctx := context.Background()

	res, err := svc.CreateTopUpIntent(ctx, 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.VerifyPayment(ctx, models.PaymentKindRenew, signedReceipt(res.RazorpayOrderID, "pay_5")); !errors.Is(err, ErrKindMismatch) {
		t.Fatalf("err = %v, want ErrKindMismatch", err)
	}
	order, _ := repo.GetPaymentOrderByGatewayID(res.RazorpayOrderID)
	if order.Status != models.PaymentOrderStatusFailed {
		t.Fatalf("order status = %s, want failed", order.Status)
	}
}

func TestVerifyPayment_FailedRenewApplyLeavesWindowIntact(t *testing.T) {
	repo := newFakeRepo()
	seedBranchAndPlan(repo)
	old := seedActiveRecord(repo)
	svc := newTestService(repo, &fakeGateway{})
	ctx := context.Background()

	res, err := svc.CreateRenewIntent(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	repo.failCreateRecord = true
	if _, err := svc.VerifyPayment(ctx, models.PaymentKindRenew, signedReceipt(res.RazorpayOrderID, "pay_rb")); !errors.Is(err, ErrVerificationFailed) {
		t.Fatalf("err = %v, want ErrVerificationFailed", err)
	}

	// The expire write must roll back with the rest of the apply step;
	// a charged branch keeps its current window.
	current, err := repo.GetRecord(old.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if current.Status != models.SubscriptionStatusActive {
		t.Fatalf("old record status = %s, want still active", current.Status)
	}
	if _, ok, _ := svc.CurrentSubscription(ctx, 1); !ok {
		t.Fatalf("branch must still have its current subscription")
	}

	order, _ := repo.GetPaymentOrderByGatewayID(res.RazorpayOrderID)
	if order.Status != models.PaymentOrderStatusFailed {
		t.Fatalf("order status = %s, want failed", order.Status)
	}
	if order.FailureReason == "" {
		t.Fatalf("failure reason must be recorded")
	}
}

func TestConsumeOrderCredit_MovesReconciledUsage(t *testing.T) {
	repo := newFakeRepo()
	seedBranchAndPlan(repo)
	seedActiveRecord(repo)
	svc := newTestService(repo, &fakeGateway{})
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		if err := svc.ConsumeOrderCredit(ctx, 1); err != nil {
			t.Fatalf("unexpected error on order %d: %v", i+1, err)
		}
	}

	reconciled, ok, err := svc.CurrentSubscription(ctx, 1)
	if err != nil || !ok {
		t.Fatalf("expected a current subscription, ok=%v err=%v", ok, err)
	}
	if reconciled.RemainingOrders != 75 {
		t.Fatalf("remaining = %d, want 75 after 25 of 100", reconciled.RemainingOrders)
	}
	if reconciled.UsagePercentage != 25 {
		t.Fatalf("usage = %d%%, want 25%%", reconciled.UsagePercentage)
	}

	// A branch without a subscription still takes orders.
	if err := svc.ConsumeOrderCredit(ctx, 42); err != nil {
		t.Fatalf("no subscription must not be an error, got %v", err)
	}
}

func TestVerifyPayment_UnknownOrder(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeGateway{})
	_, err := svc.VerifyPayment(context.Background(), models.PaymentKindTopUp, signedReceipt("order_missing", "pay_x"))
	if !errors.Is(err, ErrUnknownPaymentOrder) {
		t.Fatalf("err = %v, want ErrUnknownPaymentOrder", err)
	}
}

func TestCancelPayment_LeavesSubscriptionUntouched(t *testing.T) {
	repo := newFakeRepo()
	seedBranchAndPlan(repo)
	rec := seedActiveRecord(repo)
	svc := newTestService(repo, &fakeGateway{})
	ctx := context.Background()

	res, err := svc.CreateTopUpIntent(ctx, 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.CancelPayment(ctx, res.RazorpayOrderID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	order, _ := repo.GetPaymentOrderByGatewayID(res.RazorpayOrderID)
	if order.Status != models.PaymentOrderStatusCancelled {
		t.Fatalf("order status = %s, want cancelled", order.Status)
	}
	untouched, _ := repo.GetRecord(rec.ID)
	if untouched.MaxOrders != 100 {
		t.Fatalf("cancellation must not change the allowance")
	}

	// A cancelled checkout cannot be verified afterwards.
	if _, err := svc.VerifyPayment(ctx, models.PaymentKindTopUp, signedReceipt(res.RazorpayOrderID, "pay_late")); err == nil {
		t.Fatalf("expected verification after cancel to fail")
	}
}

func TestSweepAbandoned(t *testing.T) {
	repo := newFakeRepo()
	seedBranchAndPlan(repo)
	svc := newTestService(repo, &fakeGateway{})
	ctx := context.Background()

	res, err := svc.CreateTopUpIntent(ctx, 1, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stale := repo.orders[res.RazorpayOrderID]
	stale.CreatedAt = time.Now().Add(-48 * time.Hour)

	swept, err := svc.SweepAbandoned(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if swept != 1 {
		t.Fatalf("swept = %d, want 1", swept)
	}
	order, _ := repo.GetPaymentOrderByGatewayID(res.RazorpayOrderID)
	if order.Status != models.PaymentOrderStatusAbandoned {
		t.Fatalf("order status = %s, want abandoned", order.Status)
	}

	// A second sweep finds nothing.
	swept, err = svc.SweepAbandoned(ctx, 24*time.Hour)
	if err != nil || swept != 0 {
		t.Fatalf("second sweep = %d, %v; want 0, nil", swept, err)
	}
}

func TestWireRecord_EmbedsLoadedAssociations(t *testing.T) {
	now := time.Now()
	rec := models.SubscriptionRecord{
		ID:       7,
		BranchID: 1,
		Branch:   &models.Branch{ID: 1, Name: "Indiranagar"},
		PlanID:   10,
		Plan: &models.SubscriptionPlan{
			ID: 10, PlanName: "Starter", Price: 499, MaxOrders: 100, DurationInDays: 30,
		},
		StartDate: now,
		EndDate:   now.AddDate(0, 0, 30),
		MaxOrders: 100,
		Status:    "Active",
	}

	wire := WireRecord(rec)
	if wire.ID != "7" {
		t.Fatalf("id = %q, want \"7\"", wire.ID)
	}
	if wire.Branch.CanonicalID() != "1" || wire.Plan.CanonicalID() != "10" {
		t.Fatalf("refs = %q/%q, want 1/10", wire.Branch.CanonicalID(), wire.Plan.CanonicalID())
	}
	if !wire.Plan.HasDetail() {
		t.Fatalf("loaded plan must produce an embedded ref")
	}
	if wire.Status != models.SubscriptionStatusActive {
		t.Fatalf("status = %q, want normalized active", wire.Status)
	}

	bare := models.SubscriptionRecord{ID: 8, BranchID: 2, PlanID: 3}
	if WireRecord(bare).Plan.HasDetail() {
		t.Fatalf("unloaded plan must produce a bare id ref")
	}
}
