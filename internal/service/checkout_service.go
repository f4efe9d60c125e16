package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lshigami/Learnhub/config"
	"github.com/lshigami/Learnhub/internal/dto"
	"github.com/lshigami/Learnhub/internal/gateway"
	"github.com/lshigami/Learnhub/internal/model"
	"github.com/lshigami/Learnhub/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type CheckoutService interface {
	// CreateCheckout starts a paid enrollment. The amount always comes from the
	// stored course price.
	CreateCheckout(ctx context.Context, caller Caller, courseID string) (*dto.CheckoutResponseDTO, error)
}

type checkoutService struct {
	courseRepo     repository.CourseRepository
	enrollmentRepo repository.EnrollmentRepository
	paymentRepo    repository.PaymentRepository
	gateway        gateway.PaymentGateway
	cfg            *config.Config
	now            func() time.Time
}

func NewCheckoutService(
	courseRepo repository.CourseRepository,
	enrollmentRepo repository.EnrollmentRepository,
	paymentRepo repository.PaymentRepository,
	paymentGateway gateway.PaymentGateway,
	cfg *config.Config,
) CheckoutService {
	return &checkoutService{
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		paymentRepo:    paymentRepo,
		gateway:        paymentGateway,
		cfg:            cfg,
		now:            time.Now,
	}
}

func (s *checkoutService) CreateCheckout(ctx context.Context, caller Caller, courseID string) (*dto.CheckoutResponseDTO, error) {
	course, err := s.courseRepo.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: course %s", ErrNotFound, courseID)
		}
		log.Error().Err(err).Str("courseID", courseID).Msg("CreateCheckout: course lookup failed")
		return nil, fmt.Errorf("%w: load course", ErrPersistence)
	}
	if !course.IsActive {
		return nil, fmt.Errorf("%w: course %s is not available", ErrNotFound, courseID)
	}

	existing, err := s.enrollmentRepo.FindByUserCourse(ctx, caller.UserID, courseID)
	switch {
	case err == nil && existing.GrantsAccess():
		return nil, fmt.Errorf("%w: already enrolled in course %s", ErrValidation, courseID)
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		log.Error().Err(err).Str("userID", caller.UserID).Str("courseID", courseID).Msg("CreateCheckout: enrollment lookup failed")
		return nil, fmt.Errorf("%w: check enrollment", ErrPersistence)
	}

	if course.PriceCents <= 0 {
		if _, _, err := s.enrollmentRepo.EnsureActive(ctx, caller.UserID, courseID, 0, s.now().UTC()); err != nil {
			log.Error().Err(err).Str("userID", caller.UserID).Str("courseID", courseID).Msg("CreateCheckout: free enrollment failed")
			return nil, fmt.Errorf("%w: create enrollment", ErrPersistence)
		}
		log.Info().Str("userID", caller.UserID).Str("courseID", courseID).Msg("Enrolled in free course")
		return &dto.CheckoutResponseDTO{Message: "Enrolled in free course"}, nil
	}

	courseURL := fmt.Sprintf("%s/courses/%s", s.cfg.AppURL, course.ID)
	session, err := s.gateway.CreateCheckoutSession(ctx, gateway.CheckoutSessionParams{
		UserID:        caller.UserID,
		CourseID:      course.ID,
		CourseTitle:   course.Title,
		AmountCents:   course.PriceCents,
		Currency:      s.cfg.Stripe.Currency,
		CustomerEmail: caller.Email,
		SuccessURL:    courseURL + "?checkout=success&session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     courseURL + "?checkout=cancelled",
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	payment := &model.Payment{
		UserID:          caller.UserID,
		CourseID:        course.ID,
		StripeSessionID: session.ID,
		AmountCents:     course.PriceCents,
		Currency:        s.cfg.Stripe.Currency,
		Status:          model.PaymentPending,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		log.Error().Err(err).Str("sessionID", session.ID).Msg("CreateCheckout: failed to record payment")
		return nil, fmt.Errorf("%w: record payment", ErrPersistence)
	}

	log.Info().
		Str("paymentID", payment.ID).
		Str("sessionID", session.ID).
		Str("userID", caller.UserID).
		Int64("amountCents", course.PriceCents).
		Msg("Checkout session created")
	return &dto.CheckoutResponseDTO{
		Message:   "Checkout session created",
		SessionID: session.ID,
		URL:       session.URL,
	}, nil
}
