package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lshigami/Learnhub/config"
	"github.com/lshigami/Learnhub/internal/dto"
	"github.com/lshigami/Learnhub/internal/gateway"
	"github.com/lshigami/Learnhub/internal/mailer"
	"github.com/lshigami/Learnhub/internal/model"
	"github.com/lshigami/Learnhub/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// WebhookService verifies and reconciles payment provider events. Each event id
// takes effect at most once.
type WebhookService interface {
	HandleEvent(ctx context.Context, payload []byte, signature string) (*dto.WebhookAckDTO, error)
}

type webhookService struct {
	db             *gorm.DB
	courseRepo     repository.CourseRepository
	enrollmentRepo repository.EnrollmentRepository
	paymentRepo    repository.PaymentRepository
	eventRepo      repository.PaymentEventRepository
	mailer         mailer.Mailer
	cfg            *config.Config
	lease          time.Duration
	now            func() time.Time
}

const defaultEventLease = 10 * time.Minute

func NewWebhookService(
	db *gorm.DB,
	courseRepo repository.CourseRepository,
	enrollmentRepo repository.EnrollmentRepository,
	paymentRepo repository.PaymentRepository,
	eventRepo repository.PaymentEventRepository,
	m mailer.Mailer,
	cfg *config.Config,
) WebhookService {
	lease := cfg.Payments.EventLease
	if lease <= 0 {
		lease = defaultEventLease
	}
	return &webhookService{
		db:             db,
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		paymentRepo:    paymentRepo,
		eventRepo:      eventRepo,
		mailer:         m,
		cfg:            cfg,
		lease:          lease,
		now:            time.Now,
	}
}

// txRepos are the repositories bound to one reconciliation transaction.
type txRepos struct {
	enrollments repository.EnrollmentRepository
	payments    repository.PaymentRepository
	events      repository.PaymentEventRepository
}

func (s *webhookService) HandleEvent(ctx context.Context, payload []byte, signature string) (*dto.WebhookAckDTO, error) {
	now := s.now().UTC()
	if err := gateway.VerifySignature(payload, signature, s.cfg.Stripe.WebhookSecret, s.cfg.Stripe.WebhookTolerance, now); err != nil {
		log.Warn().Err(err).Msg("HandleEvent: rejected webhook signature")
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	event, err := gateway.ParseEvent(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	record, duplicate, err := s.recordEvent(ctx, event, payload, now)
	if err != nil {
		return nil, err
	}
	if duplicate {
		log.Info().Str("eventID", event.ID).Str("type", event.Type).Msg("HandleEvent: duplicate delivery acknowledged")
		return &dto.WebhookAckDTO{Received: true, Duplicate: true, Status: record.Status}, nil
	}

	var notice *enrollmentNotice
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := txRepos{
			enrollments: s.enrollmentRepo.WithTx(tx),
			payments:    s.paymentRepo.WithTx(tx),
			events:      s.eventRepo.WithTx(tx),
		}
		status, n, err := s.apply(ctx, repos, event, now)
		if err != nil {
			return err
		}
		notice = n
		record.Status = status
		record.Error = nil
		record.ProcessedAt = &now
		return repos.events.Update(ctx, record)
	})
	if err != nil {
		msg := err.Error()
		record.Status = model.EventFailed
		record.Error = &msg
		record.ProcessedAt = nil
		if uerr := s.eventRepo.Update(ctx, record); uerr != nil {
			log.Error().Err(uerr).Str("eventID", event.ID).Msg("HandleEvent: failed to mark event as failed")
		}
		log.Error().Err(err).Str("eventID", event.ID).Str("type", event.Type).Msg("HandleEvent: reconciliation failed")
		return nil, fmt.Errorf("%w: reconcile event %s", ErrPersistence, event.ID)
	}

	if notice != nil {
		s.sendConfirmation(ctx, *notice)
	}

	log.Info().Str("eventID", event.ID).Str("type", event.Type).Str("status", record.Status).Msg("Webhook event reconciled")
	return &dto.WebhookAckDTO{Received: true, Status: record.Status}, nil
}

// recordEvent claims the event for this delivery. It reports a duplicate when
// the event is already done or another delivery holds an unexpired claim on it.
func (s *webhookService) recordEvent(ctx context.Context, event *gateway.Event, payload []byte, now time.Time) (*model.PaymentEvent, bool, error) {
	existing, err := s.eventRepo.FindByEventID(ctx, event.ID)
	switch {
	case err == nil:
		return s.reclaim(ctx, existing, now)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		log.Error().Err(err).Str("eventID", event.ID).Msg("recordEvent: lookup failed")
		return nil, false, fmt.Errorf("%w: load payment event", ErrPersistence)
	}

	record := &model.PaymentEvent{
		EventID:    event.ID,
		Type:       event.Type,
		Status:     model.EventProcessing,
		Payload:    datatypes.JSON(payload),
		TryCount:   1,
		ReceivedAt: now,
		ClaimedAt:  &now,
	}
	if err := s.eventRepo.Create(ctx, record); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return record, true, nil
		}
		log.Error().Err(err).Str("eventID", event.ID).Msg("recordEvent: insert failed")
		return nil, false, fmt.Errorf("%w: record payment event", ErrPersistence)
	}
	return record, false, nil
}

func (s *webhookService) reclaim(ctx context.Context, existing *model.PaymentEvent, now time.Time) (*model.PaymentEvent, bool, error) {
	if existing.Done() {
		return existing, true, nil
	}
	claimed, err := s.eventRepo.Claim(ctx, existing.EventID, now, now.Add(-s.lease))
	if err != nil {
		log.Error().Err(err).Str("eventID", existing.EventID).Msg("recordEvent: claim failed")
		return nil, false, fmt.Errorf("%w: claim payment event", ErrPersistence)
	}
	if !claimed {
		log.Info().Str("eventID", existing.EventID).Str("status", existing.Status).Msg("recordEvent: event held by another delivery")
		return existing, true, nil
	}
	record, err := s.eventRepo.FindByEventID(ctx, existing.EventID)
	if err != nil {
		log.Error().Err(err).Str("eventID", existing.EventID).Msg("recordEvent: reload failed")
		return nil, false, fmt.Errorf("%w: load payment event", ErrPersistence)
	}
	return record, false, nil
}

// enrollmentNotice is the confirmation to send once the transaction commits.
type enrollmentNotice struct {
	to       string
	courseID string
}

func (s *webhookService) sendConfirmation(ctx context.Context, n enrollmentNotice) {
	title := "your course"
	if course, err := s.courseRepo.FindByID(ctx, n.courseID); err == nil {
		title = course.Title
	}
	email := mailer.EnrollmentConfirmation(n.to, title, fmt.Sprintf("%s/courses/%s", s.cfg.AppURL, n.courseID))
	if err := s.mailer.Send(ctx, email); err != nil {
		log.Warn().Err(err).Str("courseID", n.courseID).Msg("sendConfirmation: failed to send enrollment confirmation")
	}
}

// apply performs the effects of one event and returns the event status to store.
func (s *webhookService) apply(ctx context.Context, repos txRepos, event *gateway.Event, now time.Time) (string, *enrollmentNotice, error) {
	switch event.Type {
	case gateway.EventCheckoutCompleted, gateway.EventCheckoutAsyncSucceeded:
		var session gateway.CheckoutSessionObject
		if err := event.DecodeObject(&session); err != nil {
			return "", nil, err
		}
		return s.completeCheckout(ctx, repos, event.Type, session, now)

	case gateway.EventCheckoutAsyncFailed:
		var session gateway.CheckoutSessionObject
		if err := event.DecodeObject(&session); err != nil {
			return "", nil, err
		}
		payment, err := repos.payments.FindBySessionID(ctx, session.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.EventIgnored, nil, nil
		} else if err != nil {
			return "", nil, err
		}
		if payment.Status != model.PaymentPending {
			return model.EventProcessed, nil, nil
		}
		payment.Status = model.PaymentFailed
		return model.EventProcessed, nil, repos.payments.Update(ctx, payment)

	case gateway.EventChargeRefunded:
		var charge gateway.ChargeObject
		if err := event.DecodeObject(&charge); err != nil {
			return "", nil, err
		}
		if !charge.Refunded || charge.PaymentIntent == "" {
			// partial refunds keep access
			return model.EventIgnored, nil, nil
		}
		payment, err := repos.payments.FindByPaymentIntent(ctx, charge.PaymentIntent)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.EventIgnored, nil, nil
		} else if err != nil {
			return "", nil, err
		}
		if payment.Status != model.PaymentPaid && payment.Status != model.PaymentDisputed {
			return model.EventProcessed, nil, nil
		}
		payment.Status = model.PaymentRefunded
		payment.RefundedAt = &now
		if err := repos.payments.Update(ctx, payment); err != nil {
			return "", nil, err
		}
		if _, err := repos.enrollments.DeleteByUserCourse(ctx, payment.UserID, payment.CourseID); err != nil {
			return "", nil, err
		}
		log.Info().Str("userID", payment.UserID).Str("courseID", payment.CourseID).Msg("Enrollment revoked after refund")
		return model.EventProcessed, nil, nil

	case gateway.EventDisputeCreated:
		var dispute gateway.DisputeObject
		if err := event.DecodeObject(&dispute); err != nil {
			return "", nil, err
		}
		if dispute.PaymentIntent == "" {
			return model.EventIgnored, nil, nil
		}
		payment, err := repos.payments.FindByPaymentIntent(ctx, dispute.PaymentIntent)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.EventIgnored, nil, nil
		} else if err != nil {
			return "", nil, err
		}
		if payment.Status != model.PaymentPaid {
			return model.EventProcessed, nil, nil
		}
		payment.Status = model.PaymentDisputed
		return model.EventProcessed, nil, repos.payments.Update(ctx, payment)

	default:
		return model.EventIgnored, nil, nil
	}
}

func (s *webhookService) completeCheckout(ctx context.Context, repos txRepos, eventType string, session gateway.CheckoutSessionObject, now time.Time) (string, *enrollmentNotice, error) {
	userID, courseID := session.Metadata["userId"], session.Metadata["courseId"]
	if userID == "" || courseID == "" {
		log.Warn().Str("sessionID", session.ID).Msg("completeCheckout: session metadata missing userId or courseId")
		return model.EventIgnored, nil, nil
	}
	// delayed payment methods complete unpaid; the async_payment_succeeded event follows
	if eventType == gateway.EventCheckoutCompleted && session.PaymentStatus == "unpaid" {
		return model.EventIgnored, nil, nil
	}

	payment, err := repos.payments.FindBySessionID(ctx, session.ID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		payment = &model.Payment{
			UserID:          userID,
			CourseID:        courseID,
			StripeSessionID: session.ID,
			AmountCents:     session.AmountTotal,
			Currency:        session.Currency,
			Status:          model.PaymentPending,
		}
		if err := repos.payments.Create(ctx, payment); err != nil {
			return "", nil, err
		}
	case err != nil:
		return "", nil, err
	}

	if payment.Status == model.PaymentRefunded || payment.Status == model.PaymentDisputed {
		return model.EventProcessed, nil, nil
	}
	payment.Status = model.PaymentPaid
	if session.PaymentIntent != "" {
		intent := session.PaymentIntent
		payment.StripePaymentIntent = &intent
	}
	if err := repos.payments.Update(ctx, payment); err != nil {
		return "", nil, err
	}

	if _, _, err := repos.enrollments.EnsureActive(ctx, userID, courseID, payment.AmountCents, now); err != nil {
		return "", nil, err
	}
	log.Info().Str("userID", userID).Str("courseID", courseID).Str("sessionID", session.ID).Msg("Enrollment activated after payment")

	if to := session.Email(); to != "" {
		return model.EventProcessed, &enrollmentNotice{to: to, courseID: courseID}, nil
	}
	return model.EventProcessed, nil, nil
}
