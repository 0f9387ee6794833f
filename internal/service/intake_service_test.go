package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/anonrelay/internal/domain"
	"github.com/spec-kit/anonrelay/internal/events"
	"github.com/spec-kit/anonrelay/internal/filter"
	"github.com/spec-kit/anonrelay/internal/observability"
	"github.com/spec-kit/anonrelay/internal/policy"
	"github.com/spec-kit/anonrelay/internal/session"
)

type intakeFixture struct {
	users    *fakeUserRepo
	admins   *fakeAdminRepo
	pending  *fakePendingRepo
	sessions session.Store
	service  *IntakeService
	events   *eventRecorder
}

type eventRecorder struct {
	published []events.Event
}

func (r *eventRecorder) record(ctx context.Context, event events.Event) error {
	r.published = append(r.published, event)
	return nil
}

func newIntakeFixture(t *testing.T) *intakeFixture {
	t.Helper()
	fx := &intakeFixture{
		users:    newFakeUserRepo(),
		admins:   newFakeAdminRepo(),
		pending:  newFakePendingRepo(),
		sessions: session.NewMemoryStore(time.Minute),
		events:   &eventRecorder{},
	}

	dispatcher := events.NewInMemoryDispatcher()
	dispatcher.Subscribe(events.EventSubmissionPublished, fx.events.record)

	metrics := observability.NewMetrics()
	logger := zap.NewNop()
	clock := ClockFunc(func() time.Time { return testNow })

	admission := NewAdmissionService(AdmissionDependencies{
		UserRepo:  fx.users,
		AdminRepo: fx.admins,
		Filter:    filter.New([]string{"badword"}, filter.ModeWholeWord),
		Window:    policy.Window{},
		Cooldown:  2 * time.Minute,
		Clock:     clock,
		Metrics:   metrics,
	})
	moderation := NewModerationService(ModerationDependencies{
		PendingRepo: fx.pending,
		UserRepo:    fx.users,
		Dispatcher:  dispatcher,
		Logger:      logger,
		Metrics:     metrics,
		Clock:       clock,
	})
	accounts := NewAccountService(AccountDependencies{
		UserRepo:   fx.users,
		AdminRepo:  fx.admins,
		Dispatcher: dispatcher,
		Logger:     logger,
		BcryptCost: 4,
		Clock:      clock,
	})
	fx.service = NewIntakeService(IntakeDependencies{
		Sessions:   fx.sessions,
		Admission:  admission,
		Moderation: moderation,
		Accounts:   accounts,
		Dispatcher: dispatcher,
		Logger:     logger,
		Clock:      clock,
	})
	return fx
}

func (fx *intakeFixture) state(t *testing.T, userID int64) domain.ConversationState {
	t.Helper()
	state, err := fx.sessions.Get(context.Background(), userID)
	require.NoError(t, err)
	return state
}

func TestAliasFlowCapturesNextMessage(t *testing.T) {
	fx := newIntakeFixture(t)
	ctx := context.Background()

	require.NoError(t, fx.service.StartAliasFlow(ctx, 1))
	assert.Equal(t, domain.StateAwaitingAlias, fx.state(t, 1))

	result, err := fx.service.HandleMessage(ctx, 1, IntakeMessage{Text: "ghost"})
	require.NoError(t, err)
	assert.Equal(t, IntakeAliasSet, result.Status)
	assert.Equal(t, domain.StateNone, fx.state(t, 1), "flow completes and clears the session")

	user, err := fx.users.Get(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, user.Alias)
	assert.Equal(t, "ghost", *user.Alias)
}

func TestAliasTakenKeepsFlowOpen(t *testing.T) {
	fx := newIntakeFixture(t)
	ctx := context.Background()
	fx.users.seed(domain.User{ID: 2, Alias: alias("ghost")})

	require.NoError(t, fx.service.StartAliasFlow(ctx, 1))
	result, err := fx.service.HandleMessage(ctx, 1, IntakeMessage{Text: "ghost"})
	require.NoError(t, err)
	assert.Equal(t, IntakeAliasTaken, result.Status)
	assert.Equal(t, domain.StateAwaitingAlias, fx.state(t, 1), "user may retry with another name")
}

func TestTextPublishesImmediately(t *testing.T) {
	fx := newIntakeFixture(t)
	ctx := context.Background()
	fx.users.seed(domain.User{ID: 3, Alias: alias("ghost")})

	result, err := fx.service.HandleMessage(ctx, 3, IntakeMessage{Text: "hello channel"})
	require.NoError(t, err)
	assert.Equal(t, IntakePublished, result.Status)

	require.Len(t, fx.events.published, 1)
	payload, ok := fx.events.published[0].Payload.(events.SubmissionPublishedPayload)
	require.True(t, ok)
	assert.Equal(t, "ghost", payload.Alias)
	assert.Equal(t, "hello channel", payload.Text)
}

func TestMediaGoesToModerationQueue(t *testing.T) {
	fx := newIntakeFixture(t)
	ctx := context.Background()
	fx.users.seed(domain.User{ID: 4, Alias: alias("ghost")})

	result, err := fx.service.HandleMessage(ctx, 4, IntakeMessage{
		Media: &MediaInput{ContentRef: "file-4", Kind: domain.MediaKindPhoto, Caption: "pic"},
	})
	require.NoError(t, err)
	assert.Equal(t, IntakeQueued, result.Status)
	assert.Equal(t, int64(1), result.SubmissionID)
	assert.Empty(t, fx.events.published, "media is not published before approval")

	sub, err := fx.pending.GetByID(ctx, result.SubmissionID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), sub.UserID)
}

func TestRejectionClearsSession(t *testing.T) {
	fx := newIntakeFixture(t)
	ctx := context.Background()
	fx.users.seed(domain.User{ID: 5, Alias: alias("ghost")})

	_, err := fx.service.StartSubmissionFlow(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, domain.StateAwaitingSubmission, fx.state(t, 5))

	result, err := fx.service.HandleMessage(ctx, 5, IntakeMessage{Text: "a badword slipped in"})
	require.NoError(t, err)
	assert.Equal(t, IntakeRejected, result.Status)
	assert.Equal(t, domain.RejectProfanity, result.Admission.Reason)
	assert.Equal(t, domain.StateNone, fx.state(t, 5))
}

func TestStartSubmissionFlowPrechecks(t *testing.T) {
	fx := newIntakeFixture(t)
	ctx := context.Background()
	fx.users.seed(domain.User{ID: 6, Banned: true})

	result, err := fx.service.StartSubmissionFlow(ctx, 6)
	require.NoError(t, err)
	assert.False(t, result.Admitted)
	assert.Equal(t, domain.RejectBanned, result.Reason)
	assert.Equal(t, domain.StateNone, fx.state(t, 6), "rejected precheck opens no flow")
}

func TestBroadcastRestrictedToAdmins(t *testing.T) {
	fx := newIntakeFixture(t)
	ctx := context.Background()
	fx.users.seed(domain.User{ID: 7, Alias: alias("civilian")})

	err := fx.service.StartBroadcastFlow(ctx, 7)
	assert.Error(t, err)
}

func TestAdminBroadcastPublishesDirectly(t *testing.T) {
	fx := newIntakeFixture(t)
	ctx := context.Background()
	fx.users.seed(domain.User{ID: 8, Alias: alias("mod")})
	require.NoError(t, fx.admins.Add(ctx, &domain.Administrator{ID: 8}))

	require.NoError(t, fx.service.StartBroadcastFlow(ctx, 8))
	result, err := fx.service.HandleMessage(ctx, 8, IntakeMessage{Text: "maintenance tonight"})
	require.NoError(t, err)
	assert.Equal(t, IntakeBroadcast, result.Status)
	require.Len(t, fx.events.published, 1)
	assert.Equal(t, domain.StateNone, fx.state(t, 8))
}

func TestEmptyMessageRejected(t *testing.T) {
	fx := newIntakeFixture(t)

	_, err := fx.service.HandleMessage(context.Background(), 1, IntakeMessage{})
	assert.Error(t, err)
}

func TestCancelFlowClearsState(t *testing.T) {
	fx := newIntakeFixture(t)
	ctx := context.Background()

	require.NoError(t, fx.service.StartAliasFlow(ctx, 9))
	require.NoError(t, fx.service.CancelFlow(ctx, 9))
	assert.Equal(t, domain.StateNone, fx.state(t, 9))
}
