package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/anonrelay/internal/domain"
	"github.com/spec-kit/anonrelay/internal/events"
	"github.com/spec-kit/anonrelay/internal/session"
	apperrors "github.com/spec-kit/anonrelay/pkg/util"
)

// IntakeStatus classifies what HandleMessage did with an inbound message.
type IntakeStatus string

const (
	IntakePublished      IntakeStatus = "published"
	IntakeQueued         IntakeStatus = "queued"
	IntakeBroadcast      IntakeStatus = "broadcast"
	IntakeAliasSet       IntakeStatus = "alias_set"
	IntakeAliasTaken     IntakeStatus = "alias_taken"
	IntakeAliasImmutable IntakeStatus = "alias_immutable"
	IntakeRejected       IntakeStatus = "rejected"
)

// MediaInput carries an inbound media reference.
type MediaInput struct {
	ContentRef string
	Kind       domain.MediaKind
	Caption    string
}

// IntakeMessage is one inbound user message: text, media, or both are absent
// (which is a validation error).
type IntakeMessage struct {
	Text  string
	Media *MediaInput
}

// IntakeResult reports the routing outcome for one inbound message.
type IntakeResult struct {
	Status       IntakeStatus
	SubmissionID int64
	Admission    domain.AdmissionResult
}

// IntakeService routes inbound messages on conversation state: alias capture
// when a user is mid alias flow, otherwise the admission pipeline followed by
// immediate publication (text) or the moderation queue (media).
type IntakeService struct {
	sessions   session.Store
	admission  *AdmissionService
	moderation *ModerationService
	accounts   *AccountService
	dispatcher events.Dispatcher
	logger     *zap.Logger
	clock      Clock
}

// IntakeDependencies bundles collaborators for the intake service.
type IntakeDependencies struct {
	Sessions   session.Store
	Admission  *AdmissionService
	Moderation *ModerationService
	Accounts   *AccountService
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Clock      Clock
}

// NewIntakeService constructs the service.
func NewIntakeService(deps IntakeDependencies) *IntakeService {
	clock := deps.Clock
	if clock == nil {
		clock = SystemClock
	}
	return &IntakeService{
		sessions:   deps.Sessions,
		admission:  deps.Admission,
		moderation: deps.Moderation,
		accounts:   deps.Accounts,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		clock:      clock,
	}
}

// StartAliasFlow marks the user as awaiting an alias message.
func (s *IntakeService) StartAliasFlow(ctx context.Context, userID int64) error {
	unlock := s.sessions.Lock(userID)
	defer unlock()
	return s.sessions.Set(ctx, userID, domain.StateAwaitingAlias)
}

// StartSubmissionFlow runs the admission prechecks (ban, alias, window,
// cooldown) and, when they pass, marks the user as awaiting a submission.
func (s *IntakeService) StartSubmissionFlow(ctx context.Context, userID int64) (domain.AdmissionResult, error) {
	unlock := s.sessions.Lock(userID)
	defer unlock()

	result, err := s.admission.Precheck(ctx, userID)
	if err != nil {
		return domain.AdmissionResult{}, err
	}
	if !result.Admitted {
		return result, nil
	}
	if err := s.sessions.Set(ctx, userID, domain.StateAwaitingSubmission); err != nil {
		return domain.AdmissionResult{}, err
	}
	return result, nil
}

// StartBroadcastFlow marks an administrator as awaiting a direct broadcast.
func (s *IntakeService) StartBroadcastFlow(ctx context.Context, userID int64) error {
	isAdmin, err := s.accounts.IsAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !isAdmin {
		return apperrors.NewForbidden("broadcast is restricted to administrators")
	}

	unlock := s.sessions.Lock(userID)
	defer unlock()
	return s.sessions.Set(ctx, userID, domain.StateAwaitingBroadcast)
}

// CancelFlow clears any in-progress conversation state.
func (s *IntakeService) CancelFlow(ctx context.Context, userID int64) error {
	unlock := s.sessions.Lock(userID)
	defer unlock()
	return s.sessions.Clear(ctx, userID)
}

// HandleMessage processes one inbound message under the per-user lock so
// overlapping retries from the same user cannot interleave state transitions.
func (s *IntakeService) HandleMessage(ctx context.Context, userID int64, msg IntakeMessage) (IntakeResult, error) {
	if msg.Text == "" && msg.Media == nil {
		return IntakeResult{}, apperrors.NewValidationError("message must carry text or media", nil)
	}

	unlock := s.sessions.Lock(userID)
	defer unlock()

	state, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return IntakeResult{}, err
	}

	switch state {
	case domain.StateAwaitingAlias:
		if msg.Text != "" {
			return s.captureAlias(ctx, userID, msg.Text)
		}
	case domain.StateAwaitingBroadcast:
		if msg.Text != "" {
			return s.broadcast(ctx, userID, msg.Text)
		}
	}

	return s.submit(ctx, userID, msg)
}

func (s *IntakeService) captureAlias(ctx context.Context, userID int64, alias string) (IntakeResult, error) {
	status, err := s.accounts.SetAlias(ctx, userID, alias)
	if err != nil {
		return IntakeResult{}, err
	}
	switch status {
	case AliasOK:
		if err := s.sessions.Clear(ctx, userID); err != nil {
			return IntakeResult{}, err
		}
		return IntakeResult{Status: IntakeAliasSet}, nil
	case AliasImmutable:
		if err := s.sessions.Clear(ctx, userID); err != nil {
			return IntakeResult{}, err
		}
		return IntakeResult{Status: IntakeAliasImmutable}, nil
	default:
		// Alias taken: keep the flow open so the user can try another name.
		return IntakeResult{Status: IntakeAliasTaken}, nil
	}
}

func (s *IntakeService) broadcast(ctx context.Context, userID int64, text string) (IntakeResult, error) {
	isAdmin, err := s.accounts.IsAdmin(ctx, userID)
	if err != nil {
		return IntakeResult{}, err
	}
	if !isAdmin {
		return IntakeResult{}, apperrors.NewForbidden("broadcast is restricted to administrators")
	}

	user, err := s.accounts.UserInfo(ctx, userID)
	if err != nil {
		return IntakeResult{}, err
	}

	s.publishEvent(ctx, events.Event{
		Type:   events.EventSubmissionPublished,
		UserID: userID,
		Payload: events.SubmissionPublishedPayload{
			Alias: user.AliasOrAnonymous(),
			Text:  text,
		},
	})
	if err := s.sessions.Clear(ctx, userID); err != nil {
		return IntakeResult{}, err
	}
	return IntakeResult{Status: IntakeBroadcast}, nil
}

func (s *IntakeService) submit(ctx context.Context, userID int64, msg IntakeMessage) (IntakeResult, error) {
	kind := domain.SubmissionKindText
	body := msg.Text
	if msg.Media != nil {
		kind = domain.SubmissionKindMedia
		body = msg.Media.Caption
	}

	result, err := s.admission.AdmitSubmission(ctx, userID, kind, body)
	if err != nil {
		return IntakeResult{}, err
	}
	if !result.Admitted {
		// Policy rejection ends the flow.
		if clearErr := s.sessions.Clear(ctx, userID); clearErr != nil {
			s.logger.Warn("failed to clear session", zap.Int64("user_id", userID), zap.Error(clearErr))
		}
		return IntakeResult{Status: IntakeRejected, Admission: result}, nil
	}

	if msg.Media != nil {
		id, err := s.moderation.EnqueueMedia(ctx, userID, msg.Media.ContentRef, msg.Media.Kind, msg.Media.Caption)
		if err != nil {
			return IntakeResult{}, err
		}
		if err := s.sessions.Clear(ctx, userID); err != nil {
			s.logger.Warn("failed to clear session", zap.Int64("user_id", userID), zap.Error(err))
		}
		return IntakeResult{Status: IntakeQueued, SubmissionID: id, Admission: result}, nil
	}

	user, err := s.accounts.UserInfo(ctx, userID)
	if err != nil {
		return IntakeResult{}, err
	}
	s.publishEvent(ctx, events.Event{
		Type:   events.EventSubmissionPublished,
		UserID: userID,
		Payload: events.SubmissionPublishedPayload{
			Alias: user.AliasOrAnonymous(),
			Text:  msg.Text,
		},
	})
	if err := s.sessions.Clear(ctx, userID); err != nil {
		s.logger.Warn("failed to clear session", zap.Int64("user_id", userID), zap.Error(err))
	}
	return IntakeResult{Status: IntakePublished, Admission: result}, nil
}

func (s *IntakeService) publishEvent(ctx context.Context, event events.Event) {
	event.ID = uuid.NewString()
	event.Timestamp = s.clock.Now()
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed", zap.String("type", string(event.Type)), zap.Error(err))
	}
}
