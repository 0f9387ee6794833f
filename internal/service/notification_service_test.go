package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/anonrelay/internal/domain"
	"github.com/spec-kit/anonrelay/internal/events"
	"github.com/spec-kit/anonrelay/internal/observability"
)

type fakeNotifier struct {
	texts       []string
	media       []string
	userNotices map[int64][]string
	adminTexts  []string
	failPublish bool
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{userNotices: make(map[int64][]string)}
}

func (f *fakeNotifier) PublishText(ctx context.Context, text string) error {
	if f.failPublish {
		return errors.New("transport down")
	}
	f.texts = append(f.texts, text)
	return nil
}

func (f *fakeNotifier) PublishMedia(ctx context.Context, contentRef string, kind domain.MediaKind, caption string) error {
	if f.failPublish {
		return errors.New("transport down")
	}
	f.media = append(f.media, contentRef)
	return nil
}

func (f *fakeNotifier) Notify(ctx context.Context, userID int64, text string) error {
	f.userNotices[userID] = append(f.userNotices[userID], text)
	return nil
}

func (f *fakeNotifier) NotifyAdmins(ctx context.Context, text string) error {
	f.adminTexts = append(f.adminTexts, text)
	return nil
}

func newNotificationFixture(t *testing.T, notifier *fakeNotifier) *ModerationService {
	t.Helper()
	dispatcher := events.NewInMemoryDispatcher()
	NewNotificationService(dispatcher, notifier, zap.NewNop()).RegisterHandlers()

	return NewModerationService(ModerationDependencies{
		PendingRepo: newFakePendingRepo(),
		UserRepo:    newFakeUserRepo(),
		Dispatcher:  dispatcher,
		Logger:      zap.NewNop(),
		Metrics:     observability.NewMetrics(),
	})
}

func TestApprovedMediaPublishedAndOwnerNotified(t *testing.T) {
	notifier := newFakeNotifier()
	moderation := newNotificationFixture(t, notifier)
	ctx := context.Background()

	id, err := moderation.EnqueueMedia(ctx, 11, "file-11", domain.MediaKindPhoto, "hi")
	require.NoError(t, err)
	require.Len(t, notifier.adminTexts, 1, "queueing announces the item to admins")

	_, err = moderation.DecideMedia(ctx, id, domain.DecisionApprove)
	require.NoError(t, err)

	assert.Equal(t, []string{"file-11"}, notifier.media)
	assert.Len(t, notifier.userNotices[11], 1)
}

func TestRejectedMediaOnlyNotifiesOwner(t *testing.T) {
	notifier := newFakeNotifier()
	moderation := newNotificationFixture(t, notifier)
	ctx := context.Background()

	id, err := moderation.EnqueueMedia(ctx, 12, "file-12", domain.MediaKindVideo, "")
	require.NoError(t, err)

	_, err = moderation.DecideMedia(ctx, id, domain.DecisionReject)
	require.NoError(t, err)

	assert.Empty(t, notifier.media)
	assert.Len(t, notifier.userNotices[12], 1)
}

func TestDispatchFailureDoesNotUndoDecision(t *testing.T) {
	notifier := newFakeNotifier()
	notifier.failPublish = true
	moderation := newNotificationFixture(t, notifier)
	ctx := context.Background()

	id, err := moderation.EnqueueMedia(ctx, 13, "file-13", domain.MediaKindPhoto, "")
	require.NoError(t, err)

	result, err := moderation.DecideMedia(ctx, id, domain.DecisionApprove)
	require.NoError(t, err, "transport failure never surfaces from a committed decision")
	assert.Equal(t, domain.OutcomeApproved, result.Outcome)

	// The decision stands: a retry is already-handled, so nothing can be
	// published twice once the transport recovers.
	second, err := moderation.DecideMedia(ctx, id, domain.DecisionApprove)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeAlreadyHandled, second.Outcome)
}

func TestPublicationFormatting(t *testing.T) {
	assert.Equal(t, "**ghost**:\n\nhello", formatPublication("ghost", "hello"))
	assert.Equal(t, "**ghost**:\n\n&lt;b&gt;hi&lt;/b&gt;", formatPublication("ghost", "<b>hi</b>"))
}

func TestCooldownMessage(t *testing.T) {
	msg := CooldownMessage(domain.RejectWithRetry(domain.RejectCooldown, 90*time.Second))
	assert.Contains(t, msg, "1m30s")
	assert.Empty(t, CooldownMessage(domain.Reject(domain.RejectBanned)))
}
