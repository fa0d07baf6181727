package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cinema-checkout/internal/data/entity"
	"cinema-checkout/internal/data/repository"
	"cinema-checkout/internal/gateway"
	"cinema-checkout/internal/usecase"
	"cinema-checkout/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// In-memory repository fakes. All of them guard state with a mutex so the
// concurrency tests exercise the same compare-and-set semantics the SQL
// implementations rely on.

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*entity.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uuid.UUID]*entity.Booking)}
}

func (r *fakeBookingRepo) Create(ctx context.Context, booking *entity.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *booking
	r.bookings[booking.ID] = &cp
	return nil
}

func (r *fakeBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) FindByCode(ctx context.Context, code string) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.BookingCode == code {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeBookingRepo) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Booking
	for _, b := range r.bookings {
		if b.UserID == userID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, b := range r.bookings {
		if b.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *fakeBookingRepo) Update(ctx context.Context, booking *entity.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[booking.ID]; !ok {
		return fmt.Errorf("booking %s not found", booking.ID)
	}
	cp := *booking
	r.bookings[booking.ID] = &cp
	return nil
}

func (r *fakeBookingRepo) UpdateStatusIf(ctx context.Context, id uuid.UUID, expected, next entity.BookingStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || b.Status != expected {
		return false, nil
	}
	b.Status = next
	b.UpdatedAt = time.Now()
	return true, nil
}

func (r *fakeBookingRepo) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status entity.PaymentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return fmt.Errorf("booking %s not found", id)
	}
	b.PaymentStatus = status
	return nil
}

func (r *fakeBookingRepo) FindExpiredPending(ctx context.Context, asOf time.Time, limit int) ([]*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Booking
	for _, b := range r.bookings {
		if b.Status == entity.BookingStatusPending && !b.ExpiresAt.After(asOf) {
			cp := *b
			out = append(out, &cp)
			if len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

type fakeBookingSeatRepo struct {
	mu    sync.Mutex
	seats []*entity.BookingSeat
}

func (r *fakeBookingSeatRepo) CreateBatch(ctx context.Context, seats []*entity.BookingSeat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seats = append(r.seats, seats...)
	return nil
}

func (r *fakeBookingSeatRepo) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.BookingSeat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.BookingSeat
	for _, s := range r.seats {
		if s.BookingID == bookingID {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeTicketRepo struct {
	mu      sync.Mutex
	tickets []*entity.Ticket
}

func (r *fakeTicketRepo) CreateBatch(ctx context.Context, tickets []*entity.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range tickets {
		cp := *t
		r.tickets = append(r.tickets, &cp)
	}
	return nil
}

func (r *fakeTicketRepo) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Ticket
	for _, t := range r.tickets {
		if t.BookingID == bookingID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeTicketRepo) FindByCode(ctx context.Context, code string) (*entity.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tickets {
		if t.TicketCode == code {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeTicketRepo) UpdateStatusByBookingID(ctx context.Context, bookingID uuid.UUID, status entity.TicketStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tickets {
		if t.BookingID == bookingID {
			t.Status = status
		}
	}
	return nil
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments map[uuid.UUID]*entity.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[uuid.UUID]*entity.Payment)}
}

func (r *fakePaymentRepo) Create(ctx context.Context, payment *entity.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *payment
	r.payments[payment.ID] = &cp
	return nil
}

func (r *fakePaymentRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakePaymentRepo) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Payment
	for _, p := range r.payments {
		if p.BookingID == bookingID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) FindByProviderTransactionID(ctx context.Context, providerTxnID string) (*entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.payments {
		if p.ProviderTransactionID != nil && *p.ProviderTransactionID == providerTxnID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakePaymentRepo) Update(ctx context.Context, payment *entity.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev, ok := r.payments[payment.ID]
	if !ok {
		return fmt.Errorf("payment %s not found", payment.ID)
	}
	cp := *payment
	// Only ReserveRefund and ReleaseRefund move the refunded total, same as
	// the SQL update.
	cp.RefundedAmount = prev.RefundedAmount
	r.payments[payment.ID] = &cp
	return nil
}

func (r *fakePaymentRepo) ReserveRefund(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (decimal.Decimal, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok || p.Status != entity.PaymentStatusCompleted {
		return decimal.Zero, false, nil
	}
	total := p.RefundedAmount.Add(amount)
	if total.GreaterThan(p.Amount) {
		return decimal.Zero, false, nil
	}
	p.RefundedAmount = total
	p.UpdatedAt = time.Now()
	return total, true, nil
}

func (r *fakePaymentRepo) ReleaseRefund(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok {
		return fmt.Errorf("payment %s not found", id)
	}
	p.RefundedAmount = p.RefundedAmount.Sub(amount)
	p.UpdatedAt = time.Now()
	return nil
}

type fakeRefundRepo struct {
	mu      sync.Mutex
	refunds map[uuid.UUID]*entity.Refund
}

func newFakeRefundRepo() *fakeRefundRepo {
	return &fakeRefundRepo{refunds: make(map[uuid.UUID]*entity.Refund)}
}

func (r *fakeRefundRepo) Create(ctx context.Context, refund *entity.Refund) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *refund
	r.refunds[refund.ID] = &cp
	return nil
}

func (r *fakeRefundRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Refund, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rf, ok := r.refunds[id]
	if !ok {
		return nil, nil
	}
	cp := *rf
	return &cp, nil
}

func (r *fakeRefundRepo) FindByPaymentID(ctx context.Context, paymentID uuid.UUID) ([]*entity.Refund, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Refund
	for _, rf := range r.refunds {
		if rf.PaymentID == paymentID {
			cp := *rf
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeRefundRepo) SumCompletedByPaymentID(ctx context.Context, paymentID uuid.UUID) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := decimal.Zero
	for _, rf := range r.refunds {
		if rf.PaymentID == paymentID && rf.Status == entity.RefundStatusCompleted {
			sum = sum.Add(rf.Amount)
		}
	}
	return sum, nil
}

func (r *fakeRefundRepo) Update(ctx context.Context, refund *entity.Refund) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.refunds[refund.ID]; !ok {
		return fmt.Errorf("refund %s not found", refund.ID)
	}
	cp := *refund
	r.refunds[refund.ID] = &cp
	return nil
}

type fakeConcessionRepo struct {
	mu          sync.Mutex
	concessions map[uuid.UUID]*entity.Concession
}

func newFakeConcessionRepo() *fakeConcessionRepo {
	return &fakeConcessionRepo{concessions: make(map[uuid.UUID]*entity.Concession)}
}

func (r *fakeConcessionRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Concession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.concessions[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeConcessionRepo) FindAllAvailable(ctx context.Context) ([]*entity.Concession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Concession
	for _, c := range r.concessions {
		if c.Available {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeBookingConcessionRepo struct {
	mu    sync.Mutex
	items []*entity.BookingConcession
}

func (r *fakeBookingConcessionRepo) CreateBatch(ctx context.Context, items []*entity.BookingConcession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, items...)
	return nil
}

func (r *fakeBookingConcessionRepo) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.BookingConcession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.BookingConcession
	for _, item := range r.items {
		if item.BookingID == bookingID {
			out = append(out, item)
		}
	}
	return out, nil
}

type fakePromotionRepo struct {
	mu         sync.Mutex
	promotions map[string]*entity.Promotion
	usages     []*entity.PromotionUsage
}

func newFakePromotionRepo() *fakePromotionRepo {
	return &fakePromotionRepo{promotions: make(map[string]*entity.Promotion)}
}

func (r *fakePromotionRepo) FindByCode(ctx context.Context, code string) (*entity.Promotion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.promotions[code]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakePromotionRepo) IncrementUsage(ctx context.Context, code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.promotions[code]
	if !ok || !p.Active {
		return false, nil
	}
	if p.UsageLimit > 0 && p.CurrentUsage >= p.UsageLimit {
		return false, nil
	}
	p.CurrentUsage++
	return true, nil
}

func (r *fakePromotionRepo) CreateUsage(ctx context.Context, usage *entity.PromotionUsage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.usages = append(r.usages, usage)
	return nil
}

func (r *fakePromotionRepo) CountUsageByUser(ctx context.Context, promotionID, userID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int
	for _, u := range r.usages {
		if u.PromotionID == promotionID && u.UserID == userID {
			n++
		}
	}
	return n, nil
}

type fakeLoyaltyAccountRepo struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*entity.LoyaltyAccount
}

func newFakeLoyaltyAccountRepo() *fakeLoyaltyAccountRepo {
	return &fakeLoyaltyAccountRepo{accounts: make(map[uuid.UUID]*entity.LoyaltyAccount)}
}

func (r *fakeLoyaltyAccountRepo) Create(ctx context.Context, account *entity.LoyaltyAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *account
	r.accounts[account.ID] = &cp
	return nil
}

func (r *fakeLoyaltyAccountRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.LoyaltyAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *fakeLoyaltyAccountRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.LoyaltyAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.UserID == userID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeLoyaltyAccountRepo) Update(ctx context.Context, account *entity.LoyaltyAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[account.ID]; !ok {
		return fmt.Errorf("loyalty account %s not found", account.ID)
	}
	cp := *account
	r.accounts[account.ID] = &cp
	return nil
}

type fakeLoyaltyTxRepo struct {
	mu  sync.Mutex
	txs []*entity.LoyaltyTransaction
}

func (r *fakeLoyaltyTxRepo) Create(ctx context.Context, tx *entity.LoyaltyTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *tx
	r.txs = append(r.txs, &cp)
	return nil
}

func (r *fakeLoyaltyTxRepo) FindByAccountID(ctx context.Context, accountID uuid.UUID) ([]*entity.LoyaltyTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.LoyaltyTransaction
	for _, tx := range r.txs {
		if tx.AccountID == accountID {
			cp := *tx
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeLoyaltyTxRepo) FindByBookingID(ctx context.Context, accountID, bookingID uuid.UUID) ([]*entity.LoyaltyTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.LoyaltyTransaction
	for _, tx := range r.txs {
		if tx.AccountID == accountID && tx.TransactionID != nil && *tx.TransactionID == bookingID {
			cp := *tx
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeLoyaltyTxRepo) FindExpirable(ctx context.Context, accountID uuid.UUID, asOf time.Time) ([]*entity.LoyaltyTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	compensated := make(map[uuid.UUID]bool)
	for _, tx := range r.txs {
		if tx.AccountID == accountID && tx.Type == entity.LoyaltyTxExpire && tx.TransactionID != nil {
			compensated[*tx.TransactionID] = true
		}
	}

	var out []*entity.LoyaltyTransaction
	for _, tx := range r.txs {
		if tx.AccountID != accountID || tx.Type != entity.LoyaltyTxEarn || tx.Points <= 0 {
			continue
		}
		if tx.ExpiresAt == nil || tx.ExpiresAt.After(asOf) {
			continue
		}
		if compensated[tx.ID] {
			continue
		}
		cp := *tx
		out = append(out, &cp)
	}
	return out, nil
}

// Gateway fakes.

type fakeCatalog struct {
	mu       sync.Mutex
	held     map[string]string // showtime:seat -> token
	byToken  map[string][]string
	released []string
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		held:    make(map[string]string),
		byToken: make(map[string][]string),
	}
}

func (c *fakeCatalog) HoldSeats(ctx context.Context, showtimeID uuid.UUID, seatIDs []uuid.UUID, ttl time.Duration) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	token := uuid.New().String()
	var keys []string
	for _, seatID := range seatIDs {
		key := showtimeID.String() + ":" + seatID.String()
		if _, taken := c.held[key]; taken {
			for _, k := range keys {
				delete(c.held, k)
			}
			return "", fmt.Errorf("seat %s already held: %w", seatID, entity.ErrSeatUnavailable)
		}
		c.held[key] = token
		keys = append(keys, key)
	}
	c.byToken[token] = keys
	return token, nil
}

func (c *fakeCatalog) ReleaseSeats(ctx context.Context, holdToken string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range c.byToken[holdToken] {
		delete(c.held, key)
	}
	delete(c.byToken, holdToken)
	c.released = append(c.released, holdToken)
	return nil
}

type fakeProvider struct {
	mu        sync.Mutex
	chargeErr error
	refundErr error
	charges   int
	refunds   int
}

func (p *fakeProvider) CreateCharge(ctx context.Context, amount decimal.Decimal, method, reference string) (*gateway.ChargeResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.charges++
	if p.chargeErr != nil {
		return nil, p.chargeErr
	}
	txnID := "fake-" + uuid.New().String()
	return &gateway.ChargeResult{
		PaymentURL:    "https://pay.test/" + txnID,
		ProviderTxnID: txnID,
	}, nil
}

func (p *fakeProvider) CreateRefund(ctx context.Context, providerTxnID string, amount decimal.Decimal) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.refunds++
	if p.refundErr != nil {
		return "", p.refundErr
	}
	return "fake-rf-" + uuid.New().String(), nil
}

type publishedEvent struct {
	queue string
	event any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *fakePublisher) Publish(ctx context.Context, queue string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{queue: queue, event: event})
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func (p *fakePublisher) byQueue(queue string) []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []publishedEvent
	for _, e := range p.events {
		if e.queue == queue {
			out = append(out, e)
		}
	}
	return out
}

// testEnv bundles the service under test with its fakes.
type testEnv struct {
	service     *usecase.Service
	bookings    *fakeBookingRepo
	seats       *fakeBookingSeatRepo
	tickets     *fakeTicketRepo
	payments    *fakePaymentRepo
	refunds     *fakeRefundRepo
	promotions  *fakePromotionRepo
	accounts    *fakeLoyaltyAccountRepo
	ledger      *fakeLoyaltyTxRepo
	concessions *fakeConcessionRepo
	catalog     *fakeCatalog
	provider    *fakeProvider
	publisher   *fakePublisher
}

func newTestEnv() *testEnv {
	env := &testEnv{
		bookings:    newFakeBookingRepo(),
		seats:       &fakeBookingSeatRepo{},
		tickets:     &fakeTicketRepo{},
		payments:    newFakePaymentRepo(),
		refunds:     newFakeRefundRepo(),
		promotions:  newFakePromotionRepo(),
		accounts:    newFakeLoyaltyAccountRepo(),
		ledger:      &fakeLoyaltyTxRepo{},
		catalog:     newFakeCatalog(),
		provider:    &fakeProvider{},
		publisher:   &fakePublisher{},
		concessions: newFakeConcessionRepo(),
	}

	repo := &repository.Repository{
		Booking:            env.bookings,
		BookingSeat:        env.seats,
		Ticket:             env.tickets,
		Payment:            env.payments,
		Refund:             env.refunds,
		Concession:         env.concessions,
		BookingConcession:  &fakeBookingConcessionRepo{},
		Promotion:          env.promotions,
		LoyaltyAccount:     env.accounts,
		LoyaltyTransaction: env.ledger,
	}

	config := &utils.Config{
		Booking: utils.BookingConfig{
			HoldMinutes:          15,
			SweepIntervalSeconds: 60,
			SweepBatchSize:       100,
		},
		Loyalty: utils.LoyaltyConfig{
			EarnRate:          "0.01",
			RedeemRate:        "10",
			SilverThreshold:   "1000000",
			GoldThreshold:     "5000000",
			PlatinumThreshold: "20000000",
			PointsExpiryDays:  365,
		},
		Payment: utils.PaymentConfig{ProviderRetries: 3, RetryBaseDelayMs: 1},
	}

	env.service = usecase.NewService(repo, config, zap.NewNop(), env.catalog, env.provider, env.publisher)
	return env
}

// seedAccount creates a loyalty account holding the given balance.
func (env *testEnv) seedAccount(userID uuid.UUID, points int64) *entity.LoyaltyAccount {
	now := time.Now()
	account := &entity.LoyaltyAccount{
		Base:          entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		UserID:        userID,
		CurrentPoints: points,
		Tier:          entity.LoyaltyTierBronze,
		TotalSpent:    decimal.Zero,
	}
	env.accounts.Create(context.Background(), account)
	if points > 0 {
		env.ledger.Create(context.Background(), &entity.LoyaltyTransaction{
			BaseSimple:  entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
			AccountID:   account.ID,
			Points:      points,
			Type:        entity.LoyaltyTxEarn,
			Description: "seed",
		})
	}
	return account
}

// ledgerSum adds up every ledger row of an account.
func (env *testEnv) ledgerSum(accountID uuid.UUID) int64 {
	txs, _ := env.ledger.FindByAccountID(context.Background(), accountID)
	var sum int64
	for _, tx := range txs {
		sum += tx.Points
	}
	return sum
}
