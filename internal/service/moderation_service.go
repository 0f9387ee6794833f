package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/anonrelay/internal/domain"
	"github.com/spec-kit/anonrelay/internal/events"
	"github.com/spec-kit/anonrelay/internal/observability"
	"github.com/spec-kit/anonrelay/internal/repository"
	apperrors "github.com/spec-kit/anonrelay/pkg/util"
)

// ModerationService tracks media awaiting admin review and transitions each
// submission to a terminal state exactly once.
type ModerationService struct {
	pending    repository.PendingRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
	clock      Clock
}

// ModerationDependencies bundles collaborators for the moderation service.
type ModerationDependencies struct {
	PendingRepo repository.PendingRepository
	UserRepo    repository.UserRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
	Metrics     *observability.Metrics
	Clock       Clock
}

// DecisionResult reports what a decide call did and carries what the caller
// needs to publish or discard.
type DecisionResult struct {
	Outcome    domain.DecisionOutcome
	OwnerID    int64
	OwnerAlias string
	ContentRef string
	Kind       domain.MediaKind
	Caption    string
}

// NewModerationService constructs the service.
func NewModerationService(deps ModerationDependencies) *ModerationService {
	clock := deps.Clock
	if clock == nil {
		clock = SystemClock
	}
	return &ModerationService{
		pending:    deps.PendingRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		metrics:    deps.Metrics,
		clock:      clock,
	}
}

// EnqueueMedia appends a media submission to the pending set and announces it
// to the admin chat. The id is sequence-assigned by the store.
func (s *ModerationService) EnqueueMedia(ctx context.Context, userID int64, contentRef string, kind domain.MediaKind, caption string) (int64, error) {
	if !kind.Valid() {
		return 0, apperrors.NewValidationError("unsupported media kind", map[string]any{"kind": string(kind)})
	}

	sub := &domain.PendingSubmission{
		UserID:     userID,
		ContentRef: contentRef,
		Kind:       kind,
		Caption:    caption,
	}
	if err := s.pending.Insert(ctx, sub); err != nil {
		return 0, err
	}

	alias := s.aliasFor(ctx, userID)
	s.publishEvent(ctx, events.Event{
		Type:   events.EventMediaQueued,
		UserID: userID,
		Payload: events.MediaQueuedPayload{
			SubmissionID: sub.ID,
			Alias:        alias,
			ContentRef:   contentRef,
			Kind:         kind,
			Caption:      caption,
		},
	})
	return sub.ID, nil
}

// DecideMedia resolves one pending submission. Lookup and removal are a
// single atomic statement, so of two concurrent decisions on the same id
// exactly one wins; the loser gets OutcomeAlreadyHandled, which is a normal
// outcome, not an error.
func (s *ModerationService) DecideMedia(ctx context.Context, id int64, decision domain.Decision) (DecisionResult, error) {
	sub, err := s.pending.DeleteReturning(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		s.metrics.RecordDecision(string(domain.OutcomeAlreadyHandled))
		return DecisionResult{Outcome: domain.OutcomeAlreadyHandled}, nil
	}
	if err != nil {
		return DecisionResult{}, err
	}

	outcome := domain.OutcomeRejected
	if decision == domain.DecisionApprove {
		outcome = domain.OutcomeApproved
	}
	s.metrics.RecordDecision(string(outcome))

	alias := s.aliasFor(ctx, sub.UserID)
	s.publishEvent(ctx, events.Event{
		Type:   events.EventMediaDecided,
		UserID: sub.UserID,
		Payload: events.MediaDecidedPayload{
			SubmissionID: sub.ID,
			Outcome:      outcome,
			Alias:        alias,
			ContentRef:   sub.ContentRef,
			Kind:         sub.Kind,
			Caption:      sub.Caption,
		},
	})

	return DecisionResult{
		Outcome:    outcome,
		OwnerID:    sub.UserID,
		OwnerAlias: alias,
		ContentRef: sub.ContentRef,
		Kind:       sub.Kind,
		Caption:    sub.Caption,
	}, nil
}

// ListPending returns the queue contents in insertion order.
func (s *ModerationService) ListPending(ctx context.Context) ([]domain.PendingSubmission, error) {
	return s.pending.List(ctx)
}

func (s *ModerationService) aliasFor(ctx context.Context, userID int64) string {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to load owner alias", zap.Int64("user_id", userID), zap.Error(err))
		return "anonymous"
	}
	return user.AliasOrAnonymous()
}

func (s *ModerationService) publishEvent(ctx context.Context, event events.Event) {
	event.ID = uuid.NewString()
	if event.Timestamp.IsZero() {
		event.Timestamp = s.clock.Now()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed", zap.String("type", string(event.Type)), zap.Error(err))
	}
}
