package service

import (
	"context"
	"time"

	"github.com/spec-kit/anonrelay/internal/domain"
	"github.com/spec-kit/anonrelay/internal/filter"
	"github.com/spec-kit/anonrelay/internal/observability"
	"github.com/spec-kit/anonrelay/internal/policy"
	"github.com/spec-kit/anonrelay/internal/repository"
)

// AdmissionService decides whether one inbound submission may proceed to
// publication or queuing.
type AdmissionService struct {
	users    repository.UserRepository
	admins   repository.AdminRepository
	filter   *filter.Filter
	window   policy.Window
	cooldown time.Duration
	clock    Clock
	metrics  *observability.Metrics
}

// AdmissionDependencies bundles collaborators for the admission service.
type AdmissionDependencies struct {
	UserRepo  repository.UserRepository
	AdminRepo repository.AdminRepository
	Filter    *filter.Filter
	Window    policy.Window
	Cooldown  time.Duration
	Clock     Clock
	Metrics   *observability.Metrics
}

// NewAdmissionService constructs the service.
func NewAdmissionService(deps AdmissionDependencies) *AdmissionService {
	clock := deps.Clock
	if clock == nil {
		clock = SystemClock
	}
	return &AdmissionService{
		users:    deps.UserRepo,
		admins:   deps.AdminRepo,
		filter:   deps.Filter,
		window:   deps.Window,
		cooldown: deps.Cooldown,
		clock:    clock,
		metrics:  deps.Metrics,
	}
}

// AdmitSubmission runs the admission checks in fixed order, fail-fast:
// ban, alias, working-hours window, cooldown, content filter. Window and
// cooldown are skipped for administrators. On success, and only on success,
// the user's last-submission timestamp is advanced to now.
func (s *AdmissionService) AdmitSubmission(ctx context.Context, userID int64, kind domain.SubmissionKind, text string) (domain.AdmissionResult, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return domain.AdmissionResult{}, err
	}

	result, err := s.check(ctx, user)
	if err != nil {
		return domain.AdmissionResult{}, err
	}
	if !result.Admitted {
		s.record(result)
		return result, nil
	}

	if s.filter.ContainsDenylisted(text) {
		result = domain.Reject(domain.RejectProfanity)
		s.record(result)
		return result, nil
	}

	if err := s.users.UpdateLastSubmission(ctx, userID, s.clock.Now()); err != nil {
		return domain.AdmissionResult{}, err
	}
	s.record(domain.Admit())
	return domain.Admit(), nil
}

// Precheck evaluates ban, alias, window, and cooldown without the content
// filter and without bumping the last-submission timestamp. Used when a user
// opens the submission flow, before any content exists to inspect.
func (s *AdmissionService) Precheck(ctx context.Context, userID int64) (domain.AdmissionResult, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return domain.AdmissionResult{}, err
	}
	return s.check(ctx, user)
}

func (s *AdmissionService) check(ctx context.Context, user *domain.User) (domain.AdmissionResult, error) {
	if user.Banned {
		return domain.Reject(domain.RejectBanned), nil
	}
	if !user.HasAlias() {
		return domain.Reject(domain.RejectNoAlias), nil
	}

	isAdmin, err := s.admins.IsAdmin(ctx, user.ID)
	if err != nil {
		return domain.AdmissionResult{}, err
	}
	if !isAdmin {
		now := s.clock.Now()
		if !s.window.Contains(now) {
			return domain.Reject(domain.RejectOutsideWindow), nil
		}
		if wait, active := policy.CooldownRemaining(now, user.LastSubmissionAt, s.cooldown); active {
			return domain.RejectWithRetry(domain.RejectCooldown, wait), nil
		}
	}
	return domain.Admit(), nil
}

func (s *AdmissionService) record(result domain.AdmissionResult) {
	if result.Admitted {
		s.metrics.RecordAdmission("admitted")
		return
	}
	s.metrics.RecordAdmission(string(result.Reason))
}
