package gate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NikkahFirst/mobile-app-sub000/internal/domain"
	"github.com/NikkahFirst/mobile-app-sub000/internal/repository"
	"github.com/NikkahFirst/mobile-app-sub000/pkg/logger"
)

// Paths classifies application routes for the rule chain.
type Paths struct {
	Public             map[string]struct{}
	OnboardingPrefix   string
	Exemptions         map[string]struct{}
	SignupContinue     string
	IdentityFix        string
	GuardianFix        string
	AffiliateDashboard string
}

// DefaultPaths mirrors the application's route layout.
func DefaultPaths() Paths {
	return Paths{
		Public: map[string]struct{}{
			"/":                  {},
			"/login":             {},
			"/signup":            {},
			"/password-recovery": {},
		},
		OnboardingPrefix: "/onboarding",
		Exemptions: map[string]struct{}{
			"/shop":            {},
			"/checkout/mobile": {},
		},
		SignupContinue:     "/signup/continue",
		IdentityFix:        "/fix/identity",
		GuardianFix:        "/fix/guardian",
		AffiliateDashboard: "/affiliate",
	}
}

func (p Paths) isPublic(path string) bool {
	_, ok := p.Public[path]
	return ok
}

func (p Paths) isOnboarding(path string) bool {
	return path == p.OnboardingPrefix || strings.HasPrefix(path, p.OnboardingPrefix+"/")
}

func (p Paths) isExempt(path string) bool {
	_, ok := p.Exemptions[path]
	return ok
}

// Decision is the outcome of a gate evaluation: either the destination is
// reachable, or the client must navigate to a remediation target first.
type Decision struct {
	Allow        bool                  `json:"allow"`
	Redirect     domain.RedirectTarget `json:"redirect,omitempty"`
	ReferralCode *string               `json:"referral_code,omitempty"`
}

func allow() Decision {
	return Decision{Allow: true}
}

func redirect(target domain.RedirectTarget) Decision {
	return Decision{Redirect: target}
}

// SessionState is the authenticated caller, or nil when unauthenticated.
type SessionState struct {
	SessionID uuid.UUID
	AccountID uuid.UUID
}

// Input is everything a gate decision depends on, fully resolved. Keeping
// the rule chain a pure function of this struct keeps it testable without
// I/O and makes repeated evaluations trivially idempotent.
type Input struct {
	Session  *SessionState
	Path     string
	Snapshot *Snapshot
	// ReferralCode is a pending code found on the request, carried forward
	// into the signup-continue redirect.
	ReferralCode *string
	// IdentityFixDone and GuardianFixDone are the session-scoped remediation
	// markers. They override rules 6 and 7 only, never the onboarding rule.
	IdentityFixDone bool
	GuardianFixDone bool
}

type GateUseCase struct {
	resolver         *ProfileResolver
	remediationStore repository.RemediationStore
	paths            Paths
}

func NewGateUseCase(
	resolver *ProfileResolver,
	remediationStore repository.RemediationStore,
	paths Paths,
) *GateUseCase {
	return &GateUseCase{
		resolver:         resolver,
		remediationStore: remediationStore,
		paths:            paths,
	}
}

// Evaluate resolves the session's profile snapshot and remediation markers,
// then runs the rule chain. The returned error is non-nil only for the two
// recoverable I/O states: an invalid session (re-authenticate) and an
// unavailable profile (retry or force sign-out); both map to
// domain sentinels, never to a silent redirect.
func (uc *GateUseCase) Evaluate(ctx context.Context, session *SessionState, path string, referralCode *string) (Decision, error) {
	in := Input{
		Session:      session,
		Path:         path,
		ReferralCode: referralCode,
	}

	// Unauthenticated and public destinations never need the profile.
	if session == nil || uc.paths.isPublic(path) {
		return uc.decide(in)
	}

	in.Snapshot = uc.resolver.Resolve(ctx, session.AccountID)

	if in.Snapshot.Status == SnapshotOK {
		profile := in.Snapshot.Profile
		if profile.OnboardingComplete && !profile.ComputeOnboardingComplete() {
			logger.Warn("stored onboarding flag disagrees with derived value",
				zap.String("account_id", session.AccountID.String()),
				zap.Bool("stored", profile.OnboardingComplete))
		}

		var err error
		in.IdentityFixDone, err = uc.remediationStore.IsComplete(ctx, session.SessionID, domain.StepIdentityFix)
		if err != nil {
			return Decision{}, fmt.Errorf("failed to read remediation marker: %w", err)
		}
		in.GuardianFixDone, err = uc.remediationStore.IsComplete(ctx, session.SessionID, domain.StepGuardianFix)
		if err != nil {
			return Decision{}, fmt.Errorf("failed to read remediation marker: %w", err)
		}
	}

	return uc.decide(in)
}

// decide runs the rule chain in strict priority order; the first matching
// rule wins.
func (uc *GateUseCase) decide(in Input) (Decision, error) {
	// 1. No active session: everything but public pages redirects to login.
	if in.Session == nil {
		if uc.paths.isPublic(in.Path) {
			return allow(), nil
		}
		return redirect(domain.TargetLogin), nil
	}

	// 2. Public pages never redirect an authenticated user away.
	if uc.paths.isPublic(in.Path) {
		return allow(), nil
	}

	// 3. Fetch failures surface as recoverable error states.
	switch in.Snapshot.Status {
	case SnapshotSessionInvalid:
		return Decision{}, domain.ErrSessionExpired
	case SnapshotUnavailable:
		return Decision{}, domain.ErrProfileUnavailable
	}

	// 4. No profile yet: continue signup, carrying the referral code.
	if in.Snapshot.Status == SnapshotMissing {
		if in.Path == uc.paths.SignupContinue {
			return allow(), nil
		}
		d := redirect(domain.TargetSignupContinue)
		d.ReferralCode = in.ReferralCode
		return d, nil
	}

	profile := in.Snapshot.Profile

	// 5. Affiliates only ever see the affiliate dashboard.
	if profile.Gender == domain.GenderAffiliate {
		if in.Path != uc.paths.AffiliateDashboard {
			return redirect(domain.TargetAffiliateDashboard), nil
		}
		return allow(), nil
	}

	// 6. Incomplete legal name, unless fixed this session or already on the
	// fix screen.
	if !profile.LegalNameComplete() && !in.IdentityFixDone && in.Path != uc.paths.IdentityFix {
		return redirect(domain.TargetIdentityFix), nil
	}

	// 7. Missing guardian contact for female profiles, unless fixed this
	// session or on either fix screen.
	if profile.Gender == domain.GenderFemale && !profile.GuardianContactComplete() &&
		!in.GuardianFixDone &&
		in.Path != uc.paths.IdentityFix && in.Path != uc.paths.GuardianFix {
		return redirect(domain.TargetGuardianFix), nil
	}

	// 8. Incomplete onboarding, recomputed from raw fields. The session
	// markers never override this rule.
	if !profile.ComputeOnboardingComplete() {
		if uc.paths.isOnboarding(in.Path) || uc.paths.isExempt(in.Path) {
			return allow(), nil
		}
		return redirect(domain.TargetOnboardingStart), nil
	}

	// 9. Reachable.
	return allow(), nil
}

// CompleteRemediation records a session-scoped fix-step completion marker so
// the step is not re-prompted before the profile flags propagate.
func (uc *GateUseCase) CompleteRemediation(ctx context.Context, session *SessionState, step domain.RemediationStep, sessionTTL time.Duration) error {
	switch step {
	case domain.StepIdentityFix, domain.StepGuardianFix:
	default:
		return domain.ErrInvalidInput
	}
	return uc.remediationStore.MarkComplete(ctx, session.SessionID, step, sessionTTL)
}
