package escrow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	bookingRepo "guidely/database/repository/booking"
	"guidely/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// ---- in-memory fakes -------------------------------------------------------

type fakeBookingStore struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{bookings: map[string]*models.Booking{}}
}

func (f *fakeBookingStore) clone(b *models.Booking) *models.Booking {
	cp := *b
	return &cp
}

func (f *fakeBookingStore) Create(_ context.Context, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.bookings[b.ID]; exists {
		return errors.New("duplicate booking id")
	}
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt
	f.bookings[b.ID] = f.clone(b)
	return nil
}

func (f *fakeBookingStore) GetByID(_ context.Context, id string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	return f.clone(b), nil
}

func (f *fakeBookingStore) ListByParticipant(_ context.Context, userID string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.TravelerID == userID || b.GuideID == userID {
			out = append(out, *f.clone(b))
		}
	}
	return out, nil
}

func (f *fakeBookingStore) ListByStatus(_ context.Context, status models.BookingStatus) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.Status == status {
			out = append(out, *f.clone(b))
		}
	}
	return out, nil
}

func (f *fakeBookingStore) MarkEscrowed(_ context.Context, bookingID, authorizationID, otpForTraveler, otpForGuide string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[bookingID]
	if !ok || b.PaymentIntentID != authorizationID || b.Status != models.StatusPendingPayment {
		return nil, bookingRepo.ErrNoTransition
	}
	now := time.Now().UTC()
	b.Status = models.StatusPaidEscrowed
	b.OTPForTraveler = otpForTraveler
	b.OTPForGuide = otpForGuide
	b.EscrowedAt = &now
	b.UpdatedAt = now
	return f.clone(b), nil
}

func (f *fakeBookingStore) SetConfirmation(_ context.Context, bookingID string, role models.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[bookingID]
	if !ok || b.Status != models.StatusPaidEscrowed {
		return bookingRepo.ErrNoTransition
	}
	if role == models.RoleTraveler {
		b.OTPVerifiedByTraveler = true
	} else {
		b.OTPVerifiedByGuide = true
	}
	b.UpdatedAt = time.Now().UTC()
	return nil
}

func (f *fakeBookingStore) ClaimCapture(_ context.Context, bookingID string) (*models.Booking, error) {
	return f.claim(bookingID, models.StatusPaidEscrowed)
}

func (f *fakeBookingStore) ReclaimCapture(_ context.Context, bookingID string) (*models.Booking, error) {
	return f.claim(bookingID, models.StatusDisputed)
}

func (f *fakeBookingStore) claim(bookingID string, from models.BookingStatus) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[bookingID]
	if !ok || b.Status != from || !b.OTPVerifiedByTraveler || !b.OTPVerifiedByGuide {
		return nil, bookingRepo.ErrNoTransition
	}
	b.Status = models.StatusOtpVerified
	b.UpdatedAt = time.Now().UTC()
	return f.clone(b), nil
}

func (f *fakeBookingStore) Finalize(_ context.Context, bookingID string, outcome models.BookingStatus) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[bookingID]
	if !ok || b.Status != models.StatusOtpVerified {
		return nil, bookingRepo.ErrNoTransition
	}
	b.Status = outcome
	b.UpdatedAt = time.Now().UTC()
	return f.clone(b), nil
}

func (f *fakeBookingStore) Cancel(_ context.Context, bookingID string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[bookingID]
	if !ok || (b.Status != models.StatusPendingPayment && b.Status != models.StatusPaidEscrowed) {
		return nil, bookingRepo.ErrNoTransition
	}
	prev := f.clone(b)
	b.Status = models.StatusCancelled
	b.UpdatedAt = time.Now().UTC()
	return prev, nil
}

type fakeLedger struct {
	mu   sync.Mutex
	rows []models.Transaction
}

func (f *fakeLedger) Append(_ context.Context, tx *models.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.rows {
		if existing.BookingID == tx.BookingID && existing.Type == tx.Type && existing.Reference == tx.Reference {
			return errors.New("duplicate ledger row")
		}
	}
	tx.CreatedAt = time.Now().UTC()
	f.rows = append(f.rows, *tx)
	return nil
}

func (f *fakeLedger) ListByBooking(_ context.Context, bookingID string) ([]models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Transaction
	for _, tx := range f.rows {
		if tx.BookingID == bookingID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (f *fakeLedger) byType(t models.TransactionType) []models.Transaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Transaction
	for _, tx := range f.rows {
		if tx.Type == t {
			out = append(out, tx)
		}
	}
	return out
}

type fakeUserStore struct {
	users map[string]*models.User
}

func (f *fakeUserStore) GetByID(id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, errors.New("user not found")
	}
	return u, nil
}
func (f *fakeUserStore) GetByEmail(string) (*models.User, error)              { return nil, nil }
func (f *fakeUserStore) Create(*models.User) error                            { return nil }
func (f *fakeUserStore) Update(*models.User) error                            { return nil }
func (f *fakeUserStore) Delete(string) error                                  { return nil }
func (f *fakeUserStore) GetByIDWithProjection(id string, _ bson.M) (*models.User, error) {
	return f.GetByID(id)
}
func (f *fakeUserStore) ListGuides() ([]models.User, error)   { return nil, nil }
func (f *fakeUserStore) SetTokenHash(string, string) error    { return nil }

type fakeGateway struct {
	mu           sync.Mutex
	authorized   int
	captured     int
	released     int
	failCapture  bool
	lastIntentID string
}

func (f *fakeGateway) Authorize(_ context.Context, amountMinor int64, currency, customerRef, bookingID string) (*models.Authorization, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.authorized++
	f.lastIntentID = "pi_" + bookingID
	return &models.Authorization{ID: f.lastIntentID, ClientSecret: f.lastIntentID + "_secret"}, nil
}

func (f *fakeGateway) Capture(_ context.Context, authorizationID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCapture {
		return "", errors.New("card issuer declined capture")
	}
	f.captured++
	return fmt.Sprintf("cap_%s_%d", authorizationID, f.captured), nil
}

func (f *fakeGateway) Release(_ context.Context, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released++
	return nil
}

type fakeNotifier struct {
	mu         sync.Mutex
	dispatched int
	completed  int
}

func (f *fakeNotifier) DispatchMeetupCodes(_ context.Context, _ *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dispatched++
	return nil
}

func (f *fakeNotifier) NotifyCompleted(_ context.Context, _ *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completed++
	return nil
}

// ---- harness ---------------------------------------------------------------

type escrowFixture struct {
	svc      *DefaultEscrowService
	bookings *fakeBookingStore
	ledger   *fakeLedger
	gateway  *fakeGateway
	notifier *fakeNotifier
}

func newFixture() *escrowFixture {
	bookings := newFakeBookingStore()
	ledger := &fakeLedger{}
	gateway := &fakeGateway{}
	notifier := &fakeNotifier{}
	users := &fakeUserStore{users: map[string]*models.User{
		"traveler-1": {ID: "traveler-1", Role: models.RoleTraveler},
		"guide-1":    {ID: "guide-1", Role: models.RoleGuide},
		"traveler-2": {ID: "traveler-2", Role: models.RoleTraveler},
	}}
	return &escrowFixture{
		svc: &DefaultEscrowService{
			Bookings:     bookings,
			Ledger:       ledger,
			Users:        users,
			Gateway:      gateway,
			Notification: notifier,
			Logger:       zap.NewNop(),
		},
		bookings: bookings,
		ledger:   ledger,
		gateway:  gateway,
		notifier: notifier,
	}
}

func validRequest() models.BookingRequest {
	return models.BookingRequest{
		GuideID:     "guide-1",
		Destination: "Kyoto",
		StartDate:   "2026-09-10T09:00:00Z",
		EndDate:     "2026-09-12T18:00:00Z",
		Amount:      "250.00",
		Currency:    "USD",
	}
}

// createEscrowed books a trip and drives it to PaidEscrowed via the payment
// confirmation path.
func createEscrowed(t *testing.T, fx *escrowFixture) *models.Booking {
	t.Helper()
	ctx := context.Background()

	resp, err := fx.svc.CreateBooking(ctx, "traveler-1", validRequest())
	require.NoError(t, err)
	require.Equal(t, models.StatusPendingPayment, resp.Booking.Status)
	require.NotEmpty(t, resp.ClientSecret)

	booking, err := fx.svc.HandlePaymentAuthorized(ctx, resp.Booking.ID, resp.Booking.PaymentIntentID)
	require.NoError(t, err)
	require.Equal(t, models.StatusPaidEscrowed, booking.Status)
	return booking
}

// ---- tests -----------------------------------------------------------------

func TestParseAmountMinor(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "250.00", want: 25000},
		{in: "250", want: 25000},
		{in: "0.01", want: 1},
		{in: "99.9", want: 9990},
		{in: " 10.50 ", want: 1050},
		{in: "10.005", wantErr: true},
		{in: "0", wantErr: true},
		{in: "-5.00", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range cases {
		got, err := parseAmountMinor(tc.in)
		if tc.wantErr {
			var vErr *ValidationError
			assert.ErrorAs(t, err, &vErr, "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*models.BookingRequest)
	}{
		{"missing guide", func(r *models.BookingRequest) { r.GuideID = "" }},
		{"self booking", func(r *models.BookingRequest) { r.GuideID = "traveler-1" }},
		{"missing destination", func(r *models.BookingRequest) { r.Destination = "" }},
		{"bad start date", func(r *models.BookingRequest) { r.StartDate = "tomorrow" }},
		{"end before start", func(r *models.BookingRequest) { r.EndDate = "2026-09-01T00:00:00Z" }},
		{"bad amount", func(r *models.BookingRequest) { r.Amount = "12.345" }},
		{"guide role mismatch", func(r *models.BookingRequest) { r.GuideID = "traveler-2" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)
			_, err := fx.svc.CreateBooking(ctx, "traveler-1", req)
			var vErr *ValidationError
			assert.ErrorAs(t, err, &vErr)
		})
	}

	t.Run("unknown guide", func(t *testing.T) {
		req := validRequest()
		req.GuideID = "nobody"
		_, err := fx.svc.CreateBooking(ctx, "traveler-1", req)
		assert.ErrorIs(t, err, ErrGuideNotFound)
	})

	// No holds should have been placed for rejected requests.
	assert.Zero(t, fx.gateway.authorized)
}

func TestCreateBookingPlacesHold(t *testing.T) {
	fx := newFixture()

	resp, err := fx.svc.CreateBooking(context.Background(), "traveler-1", validRequest())
	require.NoError(t, err)

	assert.Equal(t, 1, fx.gateway.authorized)
	assert.Equal(t, int64(25000), resp.Booking.Amount)
	assert.Equal(t, "usd", resp.Booking.Currency)
	assert.Equal(t, models.StatusPendingPayment, resp.Booking.Status)
	assert.Empty(t, resp.Booking.OTPForTraveler)
	assert.Empty(t, resp.Booking.OTPForGuide)
}

func TestPaymentAuthorizedEscrowsAndDispatchesCodes(t *testing.T) {
	fx := newFixture()
	booking := createEscrowed(t, fx)

	assert.NotEmpty(t, booking.OTPForTraveler)
	assert.NotEmpty(t, booking.OTPForGuide)
	assert.NotEqual(t, booking.OTPForTraveler, booking.OTPForGuide)
	assert.NotNil(t, booking.EscrowedAt)

	charges := fx.ledger.byType(models.TxCharge)
	require.Len(t, charges, 1)
	assert.Equal(t, int64(25000), charges[0].Amount)
	assert.Equal(t, booking.PaymentIntentID, charges[0].Reference)
	assert.Equal(t, 1, fx.notifier.dispatched)
}

func TestPaymentAuthorizedRedeliveryIsNoOp(t *testing.T) {
	fx := newFixture()
	booking := createEscrowed(t, fx)

	again, err := fx.svc.HandlePaymentAuthorized(context.Background(), booking.ID, booking.PaymentIntentID)
	require.NoError(t, err)

	assert.Equal(t, models.StatusPaidEscrowed, again.Status)
	assert.Equal(t, booking.OTPForTraveler, again.OTPForTraveler, "codes must not rotate on re-delivery")
	assert.Equal(t, booking.OTPForGuide, again.OTPForGuide)
	assert.Len(t, fx.ledger.byType(models.TxCharge), 1, "no duplicate charge row")
	assert.Equal(t, 1, fx.notifier.dispatched, "no duplicate code dispatch")
}

func TestPaymentAuthorizedUnknownBooking(t *testing.T) {
	fx := newFixture()
	_, err := fx.svc.HandlePaymentAuthorized(context.Background(), "missing", "pi_missing")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestSubmitConfirmationHappyPath(t *testing.T) {
	fx := newFixture()
	booking := createEscrowed(t, fx)
	ctx := context.Background()

	// Traveler presents the guide's code: partial confirmation.
	partial, err := fx.svc.SubmitConfirmation(ctx, "traveler-1", booking.ID, booking.OTPForGuide)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaidEscrowed, partial.Status)
	assert.True(t, partial.OTPVerifiedByTraveler)
	assert.False(t, partial.OTPVerifiedByGuide)
	assert.Zero(t, fx.gateway.captured, "no capture before both sides confirm")

	// Guide presents the traveler's code: capture and completion.
	done, err := fx.svc.SubmitConfirmation(ctx, "guide-1", booking.ID, booking.OTPForTraveler)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, done.Status)
	assert.Equal(t, 1, fx.gateway.captured)
	assert.Equal(t, 1, fx.notifier.completed)

	payouts := fx.ledger.byType(models.TxPayout)
	require.Len(t, payouts, 1)
	assert.Equal(t, int64(25000), payouts[0].Amount)
}

func TestSubmitConfirmationRejectsOwnCode(t *testing.T) {
	fx := newFixture()
	booking := createEscrowed(t, fx)

	// A party's own code must never count as proof of the meet-up.
	_, err := fx.svc.SubmitConfirmation(context.Background(), "traveler-1", booking.ID, booking.OTPForTraveler)
	assert.ErrorIs(t, err, ErrWrongCode)

	_, err = fx.svc.SubmitConfirmation(context.Background(), "guide-1", booking.ID, booking.OTPForGuide)
	assert.ErrorIs(t, err, ErrWrongCode)

	assert.Zero(t, fx.gateway.captured)
}

func TestSubmitConfirmationGuards(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	resp, err := fx.svc.CreateBooking(ctx, "traveler-1", validRequest())
	require.NoError(t, err)

	t.Run("before escrow", func(t *testing.T) {
		_, err := fx.svc.SubmitConfirmation(ctx, "traveler-1", resp.Booking.ID, "123456")
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	booking, err := fx.svc.HandlePaymentAuthorized(ctx, resp.Booking.ID, resp.Booking.PaymentIntentID)
	require.NoError(t, err)

	t.Run("outsider", func(t *testing.T) {
		_, err := fx.svc.SubmitConfirmation(ctx, "stranger", booking.ID, booking.OTPForGuide)
		assert.ErrorIs(t, err, ErrNotParticipant)
	})

	t.Run("empty code", func(t *testing.T) {
		var vErr *ValidationError
		_, err := fx.svc.SubmitConfirmation(ctx, "traveler-1", booking.ID, "")
		assert.ErrorAs(t, err, &vErr)
	})

	t.Run("unknown booking", func(t *testing.T) {
		_, err := fx.svc.SubmitConfirmation(ctx, "traveler-1", "missing", "123456")
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestResubmissionBeforeCounterpartyIsNoOp(t *testing.T) {
	fx := newFixture()
	booking := createEscrowed(t, fx)
	ctx := context.Background()

	first, err := fx.svc.SubmitConfirmation(ctx, "traveler-1", booking.ID, booking.OTPForGuide)
	require.NoError(t, err)
	assert.True(t, first.OTPVerifiedByTraveler)

	// Submitting the same correct code again while the counterparty has not
	// confirmed must succeed without changing anything.
	second, err := fx.svc.SubmitConfirmation(ctx, "traveler-1", booking.ID, booking.OTPForGuide)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaidEscrowed, second.Status)
	assert.True(t, second.OTPVerifiedByTraveler)
	assert.False(t, second.OTPVerifiedByGuide)
	assert.Zero(t, fx.gateway.captured)

	// The booking still completes normally afterwards.
	done, err := fx.svc.SubmitConfirmation(ctx, "guide-1", booking.ID, booking.OTPForTraveler)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, done.Status)
	assert.Equal(t, 1, fx.gateway.captured)
}

func TestResubmissionAfterCompletionIsRejected(t *testing.T) {
	fx := newFixture()
	booking := createEscrowed(t, fx)
	ctx := context.Background()

	_, err := fx.svc.SubmitConfirmation(ctx, "traveler-1", booking.ID, booking.OTPForGuide)
	require.NoError(t, err)
	_, err = fx.svc.SubmitConfirmation(ctx, "guide-1", booking.ID, booking.OTPForTraveler)
	require.NoError(t, err)

	// The booking is Completed; a late duplicate submission must not
	// re-capture or change state.
	_, err = fx.svc.SubmitConfirmation(ctx, "guide-1", booking.ID, booking.OTPForTraveler)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, 1, fx.gateway.captured)
	assert.Len(t, fx.ledger.byType(models.TxPayout), 1)
}

func TestConcurrentFinalConfirmationCapturesOnce(t *testing.T) {
	fx := newFixture()
	booking := createEscrowed(t, fx)
	ctx := context.Background()

	_, err := fx.svc.SubmitConfirmation(ctx, "traveler-1", booking.ID, booking.OTPForGuide)
	require.NoError(t, err)

	// Fire the guide's final confirmation from several goroutines at once.
	// Only the claim winner may invoke capture.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = fx.svc.SubmitConfirmation(ctx, "guide-1", booking.ID, booking.OTPForTraveler)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, fx.gateway.captured, "capture must run at most once")
	assert.Len(t, fx.ledger.byType(models.TxPayout), 1)

	final, err := fx.svc.GetBooking(ctx, "guide-1", booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, final.Status)
}

func TestCaptureFailureMovesToDisputed(t *testing.T) {
	fx := newFixture()
	booking := createEscrowed(t, fx)
	ctx := context.Background()

	_, err := fx.svc.SubmitConfirmation(ctx, "traveler-1", booking.ID, booking.OTPForGuide)
	require.NoError(t, err)

	fx.gateway.failCapture = true
	_, err = fx.svc.SubmitConfirmation(ctx, "guide-1", booking.ID, booking.OTPForTraveler)

	var capErr *CaptureError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, booking.ID, capErr.BookingID)

	disputed, err := fx.svc.GetBooking(ctx, "guide-1", booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDisputed, disputed.Status)
	assert.True(t, disputed.OTPVerifiedByTraveler, "confirmation evidence survives the dispute")
	assert.True(t, disputed.OTPVerifiedByGuide)
	assert.Empty(t, fx.ledger.byType(models.TxPayout), "no payout row without a successful capture")

	listed, err := fx.svc.ListDisputed(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, booking.ID, listed[0].ID)
}

func TestRetryCaptureRecoversDispute(t *testing.T) {
	fx := newFixture()
	booking := createEscrowed(t, fx)
	ctx := context.Background()

	_, err := fx.svc.SubmitConfirmation(ctx, "traveler-1", booking.ID, booking.OTPForGuide)
	require.NoError(t, err)
	fx.gateway.failCapture = true
	_, err = fx.svc.SubmitConfirmation(ctx, "guide-1", booking.ID, booking.OTPForTraveler)
	var capErr *CaptureError
	require.ErrorAs(t, err, &capErr)

	fx.gateway.failCapture = false
	recovered, err := fx.svc.RetryCapture(ctx, booking.ID)
	require.NoError(t, err)

	assert.Equal(t, models.StatusCompleted, recovered.Status)
	assert.Equal(t, 1, fx.gateway.captured)
	assert.Len(t, fx.ledger.byType(models.TxPayout), 1)
	assert.Equal(t, 1, fx.notifier.completed)
}

func TestRetryCaptureRequiresDispute(t *testing.T) {
	fx := newFixture()
	booking := createEscrowed(t, fx)

	_, err := fx.svc.RetryCapture(context.Background(), booking.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Zero(t, fx.gateway.captured)
}

func TestCancelEscrowedReleasesHoldAndRecordsRefund(t *testing.T) {
	fx := newFixture()
	booking := createEscrowed(t, fx)
	ctx := context.Background()

	cancelled, err := fx.svc.CancelBooking(ctx, "traveler-1", booking.ID)
	require.NoError(t, err)

	assert.Equal(t, models.StatusCancelled, cancelled.Status)
	assert.Equal(t, 1, fx.gateway.released)

	refunds := fx.ledger.byType(models.TxRefund)
	require.Len(t, refunds, 1)
	assert.Equal(t, int64(25000), refunds[0].Amount)
}

func TestCancelPendingLeavesNoRefundRow(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	resp, err := fx.svc.CreateBooking(ctx, "traveler-1", validRequest())
	require.NoError(t, err)

	cancelled, err := fx.svc.CancelBooking(ctx, "traveler-1", resp.Booking.ID)
	require.NoError(t, err)

	assert.Equal(t, models.StatusCancelled, cancelled.Status)
	assert.Empty(t, fx.ledger.byType(models.TxRefund), "nothing was held yet")
}

func TestCancelCompletedIsRejected(t *testing.T) {
	fx := newFixture()
	booking := createEscrowed(t, fx)
	ctx := context.Background()

	_, err := fx.svc.SubmitConfirmation(ctx, "traveler-1", booking.ID, booking.OTPForGuide)
	require.NoError(t, err)
	_, err = fx.svc.SubmitConfirmation(ctx, "guide-1", booking.ID, booking.OTPForTraveler)
	require.NoError(t, err)

	_, err = fx.svc.CancelBooking(ctx, "guide-1", booking.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestGetBookingParticipantScope(t *testing.T) {
	fx := newFixture()
	booking := createEscrowed(t, fx)
	ctx := context.Background()

	for _, caller := range []string{"traveler-1", "guide-1"} {
		got, err := fx.svc.GetBooking(ctx, caller, booking.ID)
		require.NoError(t, err)
		assert.Equal(t, booking.ID, got.ID)
	}

	_, err := fx.svc.GetBooking(ctx, "stranger", booking.ID)
	assert.ErrorIs(t, err, ErrNotParticipant)

	_, err = fx.svc.GetBooking(ctx, "traveler-1", "missing")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestTransactionsParticipantScope(t *testing.T) {
	fx := newFixture()
	booking := createEscrowed(t, fx)
	ctx := context.Background()

	txs, err := fx.svc.Transactions(ctx, "guide-1", booking.ID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, models.TxCharge, txs[0].Type)

	_, err = fx.svc.Transactions(ctx, "stranger", booking.ID)
	assert.ErrorIs(t, err, ErrNotParticipant)
}
