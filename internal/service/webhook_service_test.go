package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lshigami/Learnhub/config"
	"github.com/lshigami/Learnhub/internal/dto"
	"github.com/lshigami/Learnhub/internal/gateway"
	"github.com/lshigami/Learnhub/internal/mailer"
	"github.com/lshigami/Learnhub/internal/model"
	"github.com/lshigami/Learnhub/internal/repository"
	"github.com/lshigami/Learnhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const webhookSecret = "whsec_test"

var webhookNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type recordingMailer struct {
	sent []mailer.Email
}

func (m *recordingMailer) Send(_ context.Context, email mailer.Email) error {
	m.sent = append(m.sent, email)
	return nil
}

type webhookEnv struct {
	db      *gorm.DB
	fixture testutil.Fixture
	svc     *webhookService
	mail    *recordingMailer
}

func newWebhookEnv(t *testing.T) webhookEnv {
	t.Helper()
	db := testutil.NewDB(t)
	fx := testutil.SeedCourse(t, db, testutil.ThreeQuestionQuiz)

	cfg := &config.Config{AppURL: "https://learn.example"}
	cfg.Stripe.WebhookSecret = webhookSecret
	cfg.Stripe.WebhookTolerance = 5 * time.Minute

	m := &recordingMailer{}
	svc := NewWebhookService(
		db,
		repository.NewCourseRepository(db),
		repository.NewEnrollmentRepository(db),
		repository.NewPaymentRepository(db),
		repository.NewPaymentEventRepository(db),
		m,
		cfg,
	).(*webhookService)
	svc.now = func() time.Time { return webhookNow }
	return webhookEnv{db: db, fixture: fx, svc: svc, mail: m}
}

func eventPayload(t *testing.T, id, eventType string, object any) []byte {
	t.Helper()
	payload, err := json.Marshal(map[string]any{
		"id":      id,
		"type":    eventType,
		"created": webhookNow.Unix(),
		"data":    map[string]any{"object": object},
	})
	require.NoError(t, err)
	return payload
}

func (e webhookEnv) deliver(payload []byte) (*dto.WebhookAckDTO, error) {
	sig := gateway.SignatureHeaderValue(payload, webhookSecret, webhookNow)
	return e.svc.HandleEvent(context.Background(), payload, sig)
}

func (e webhookEnv) pendingPayment(t *testing.T, sessionID string) *model.Payment {
	t.Helper()
	p := &model.Payment{
		UserID: "u1", CourseID: e.fixture.Course.ID, StripeSessionID: sessionID,
		AmountCents: 4900, Currency: "usd", Status: model.PaymentPending,
	}
	require.NoError(t, e.db.Create(p).Error)
	return p
}

func (e webhookEnv) completedPayload(t *testing.T, eventID, sessionID string) []byte {
	return eventPayload(t, eventID, gateway.EventCheckoutCompleted, map[string]any{
		"id":               sessionID,
		"payment_intent":   "pi_" + sessionID,
		"payment_status":   "paid",
		"amount_total":     4900,
		"currency":         "usd",
		"metadata":         map[string]string{"userId": "u1", "courseId": e.fixture.Course.ID},
		"customer_details": map[string]string{"email": "u1@example.com"},
	})
}

func TestHandleEvent_RejectsBadSignature(t *testing.T) {
	env := newWebhookEnv(t)
	payload := env.completedPayload(t, "evt_1", "cs_1")

	_, err := env.svc.HandleEvent(context.Background(), payload, "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.svc.HandleEvent(context.Background(), payload, gateway.SignatureHeaderValue(payload, "wrong", webhookNow))
	assert.ErrorIs(t, err, ErrValidation)

	stale := gateway.SignatureHeaderValue(payload, webhookSecret, webhookNow.Add(-time.Hour))
	_, err = env.svc.HandleEvent(context.Background(), payload, stale)
	assert.ErrorIs(t, err, ErrValidation)

	var n int64
	require.NoError(t, env.db.Model(&model.PaymentEvent{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestHandleEvent_CheckoutCompletedIsIdempotent(t *testing.T) {
	env := newWebhookEnv(t)
	env.pendingPayment(t, "cs_1")
	payload := env.completedPayload(t, "evt_1", "cs_1")

	ack, err := env.deliver(payload)
	require.NoError(t, err)
	assert.False(t, ack.Duplicate)
	assert.Equal(t, model.EventProcessed, ack.Status)

	ack, err = env.deliver(payload)
	require.NoError(t, err)
	assert.True(t, ack.Duplicate)

	var enrollments []model.Enrollment
	require.NoError(t, env.db.Find(&enrollments).Error)
	require.Len(t, enrollments, 1)
	assert.Equal(t, model.EnrollmentActive, enrollments[0].Status)
	assert.Equal(t, model.PaymentPaid, enrollments[0].PaymentStatus)

	payment, err := repository.NewPaymentRepository(env.db).FindBySessionID(context.Background(), "cs_1")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPaid, payment.Status)
	require.NotNil(t, payment.StripePaymentIntent)
	assert.Equal(t, "pi_cs_1", *payment.StripePaymentIntent)

	require.Len(t, env.mail.sent, 1)
	assert.Equal(t, "u1@example.com", env.mail.sent[0].ToAddress)
	assert.Contains(t, env.mail.sent[0].Subject, "Go Basics")
}

func TestHandleEvent_CheckoutWithoutMetadataIsIgnored(t *testing.T) {
	env := newWebhookEnv(t)
	payload := eventPayload(t, "evt_2", gateway.EventCheckoutCompleted, map[string]any{"id": "cs_2", "payment_status": "paid"})

	ack, err := env.deliver(payload)
	require.NoError(t, err)
	assert.Equal(t, model.EventIgnored, ack.Status)

	var n int64
	require.NoError(t, env.db.Model(&model.Enrollment{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestHandleEvent_RefundRevokesEnrollment(t *testing.T) {
	env := newWebhookEnv(t)
	env.pendingPayment(t, "cs_1")
	_, err := env.deliver(env.completedPayload(t, "evt_1", "cs_1"))
	require.NoError(t, err)

	refund := eventPayload(t, "evt_3", gateway.EventChargeRefunded, map[string]any{
		"id": "ch_1", "payment_intent": "pi_cs_1", "refunded": true, "amount_refunded": 4900,
	})
	ack, err := env.deliver(refund)
	require.NoError(t, err)
	assert.Equal(t, model.EventProcessed, ack.Status)

	payment, err := repository.NewPaymentRepository(env.db).FindBySessionID(context.Background(), "cs_1")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentRefunded, payment.Status)
	assert.NotNil(t, payment.RefundedAt)

	_, err = repository.NewEnrollmentRepository(env.db).FindByUserCourse(context.Background(), "u1", env.fixture.Course.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestHandleEvent_PartialRefundKeepsAccess(t *testing.T) {
	env := newWebhookEnv(t)
	env.pendingPayment(t, "cs_1")
	_, err := env.deliver(env.completedPayload(t, "evt_1", "cs_1"))
	require.NoError(t, err)

	partial := eventPayload(t, "evt_4", gateway.EventChargeRefunded, map[string]any{
		"id": "ch_1", "payment_intent": "pi_cs_1", "refunded": false, "amount_refunded": 100,
	})
	ack, err := env.deliver(partial)
	require.NoError(t, err)
	assert.Equal(t, model.EventIgnored, ack.Status)

	_, err = repository.NewEnrollmentRepository(env.db).FindByUserCourse(context.Background(), "u1", env.fixture.Course.ID)
	assert.NoError(t, err)
}

func TestHandleEvent_AsyncFailureOnlyFromPending(t *testing.T) {
	env := newWebhookEnv(t)
	env.pendingPayment(t, "cs_pending")
	paid := env.pendingPayment(t, "cs_paid")
	require.NoError(t, env.db.Model(paid).Update("status", model.PaymentPaid).Error)
	payments := repository.NewPaymentRepository(env.db)

	for i, session := range []string{"cs_pending", "cs_paid"} {
		payload := eventPayload(t, fmt.Sprintf("evt_fail_%d", i), gateway.EventCheckoutAsyncFailed, map[string]any{"id": session})
		_, err := env.deliver(payload)
		require.NoError(t, err)
	}

	got, err := payments.FindBySessionID(context.Background(), "cs_pending")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentFailed, got.Status)
	got, err = payments.FindBySessionID(context.Background(), "cs_paid")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPaid, got.Status)
}

func TestHandleEvent_DisputeMarksPayment(t *testing.T) {
	env := newWebhookEnv(t)
	env.pendingPayment(t, "cs_1")
	_, err := env.deliver(env.completedPayload(t, "evt_1", "cs_1"))
	require.NoError(t, err)

	_, err = env.deliver(eventPayload(t, "evt_5", gateway.EventDisputeCreated, map[string]any{
		"id": "dp_1", "charge": "ch_1", "payment_intent": "pi_cs_1",
	}))
	require.NoError(t, err)

	got, err := repository.NewPaymentRepository(env.db).FindBySessionID(context.Background(), "cs_1")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentDisputed, got.Status)
}

func TestHandleEvent_UnknownTypeIgnored(t *testing.T) {
	env := newWebhookEnv(t)
	ack, err := env.deliver(eventPayload(t, "evt_6", "customer.created", map[string]any{"id": "cus_1"}))
	require.NoError(t, err)
	assert.Equal(t, model.EventIgnored, ack.Status)
}

type brokenPaymentRepo struct {
	repository.PaymentRepository
}

func (b brokenPaymentRepo) WithTx(*gorm.DB) repository.PaymentRepository { return b }

func (brokenPaymentRepo) FindBySessionID(context.Context, string) (*model.Payment, error) {
	return nil, errors.New("connection reset")
}

func TestHandleEvent_FailedEventIsReprocessed(t *testing.T) {
	env := newWebhookEnv(t)
	env.pendingPayment(t, "cs_1")
	payload := env.completedPayload(t, "evt_1", "cs_1")

	realRepo := env.svc.paymentRepo
	env.svc.paymentRepo = brokenPaymentRepo{}
	_, err := env.deliver(payload)
	assert.ErrorIs(t, err, ErrPersistence)

	events := repository.NewPaymentEventRepository(env.db)
	record, err := events.FindByEventID(context.Background(), "evt_1")
	require.NoError(t, err)
	assert.Equal(t, model.EventFailed, record.Status)
	require.NotNil(t, record.Error)
	assert.Empty(t, env.mail.sent)

	env.svc.paymentRepo = realRepo
	ack, err := env.deliver(payload)
	require.NoError(t, err)
	assert.False(t, ack.Duplicate)
	assert.Equal(t, model.EventProcessed, ack.Status)

	record, err = events.FindByEventID(context.Background(), "evt_1")
	require.NoError(t, err)
	assert.Equal(t, model.EventProcessed, record.Status)
	assert.Nil(t, record.Error)
	assert.Equal(t, 2, record.TryCount)
	assert.Len(t, env.mail.sent, 1)
}

func (e webhookEnv) seedEvent(t *testing.T, eventID, status string, claimedAt time.Time) {
	t.Helper()
	require.NoError(t, e.db.Create(&model.PaymentEvent{
		EventID:    eventID,
		Type:       gateway.EventCheckoutCompleted,
		Status:     status,
		TryCount:   1,
		ReceivedAt: claimedAt,
		ClaimedAt:  &claimedAt,
	}).Error)
}

func TestHandleEvent_InFlightEventIsNotReapplied(t *testing.T) {
	for _, status := range []string{model.EventReceived, model.EventProcessing} {
		t.Run(status, func(t *testing.T) {
			env := newWebhookEnv(t)
			env.pendingPayment(t, "cs_1")
			env.seedEvent(t, "evt_1", status, webhookNow.Add(-time.Second))

			ack, err := env.deliver(env.completedPayload(t, "evt_1", "cs_1"))
			require.NoError(t, err)
			assert.True(t, ack.Duplicate)
			assert.Empty(t, env.mail.sent)

			var n int64
			require.NoError(t, env.db.Model(&model.Enrollment{}).Count(&n).Error)
			assert.Zero(t, n)

			payment, err := repository.NewPaymentRepository(env.db).FindBySessionID(context.Background(), "cs_1")
			require.NoError(t, err)
			assert.Equal(t, model.PaymentPending, payment.Status)
		})
	}
}

func TestHandleEvent_ExpiredClaimIsTakenOver(t *testing.T) {
	env := newWebhookEnv(t)
	env.pendingPayment(t, "cs_1")
	env.seedEvent(t, "evt_1", model.EventProcessing, webhookNow.Add(-time.Hour))

	ack, err := env.deliver(env.completedPayload(t, "evt_1", "cs_1"))
	require.NoError(t, err)
	assert.False(t, ack.Duplicate)
	assert.Equal(t, model.EventProcessed, ack.Status)
	assert.Len(t, env.mail.sent, 1)

	record, err := repository.NewPaymentEventRepository(env.db).FindByEventID(context.Background(), "evt_1")
	require.NoError(t, err)
	assert.Equal(t, 2, record.TryCount)
	assert.NotNil(t, record.ProcessedAt)
}

type failingTxEventRepo struct {
	repository.PaymentEventRepository
}

func (f failingTxEventRepo) WithTx(*gorm.DB) repository.PaymentEventRepository {
	return rejectingUpdateEventRepo{}
}

type rejectingUpdateEventRepo struct {
	repository.PaymentEventRepository
}

func (rejectingUpdateEventRepo) Update(context.Context, *model.PaymentEvent) error {
	return errors.New("disk full")
}

func TestHandleEvent_FailedCommitLeavesEventUnprocessed(t *testing.T) {
	env := newWebhookEnv(t)
	env.pendingPayment(t, "cs_1")
	events := repository.NewPaymentEventRepository(env.db)
	env.svc.eventRepo = failingTxEventRepo{events}

	_, err := env.deliver(env.completedPayload(t, "evt_1", "cs_1"))
	assert.ErrorIs(t, err, ErrPersistence)

	record, err := events.FindByEventID(context.Background(), "evt_1")
	require.NoError(t, err)
	assert.Equal(t, model.EventFailed, record.Status)
	assert.Nil(t, record.ProcessedAt)
	assert.Empty(t, env.mail.sent)

	var n int64
	require.NoError(t, env.db.Model(&model.Enrollment{}).Count(&n).Error)
	assert.Zero(t, n)
}
