package gate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NikkahFirst/mobile-app-sub000/internal/domain"
	"github.com/NikkahFirst/mobile-app-sub000/internal/repository"
)

type stubProfileRepo struct {
	profile *domain.Profile
	// errs is consumed one per GetByAccountID call; after it runs out the
	// stored profile is returned.
	errs  []error
	calls int
}

func (s *stubProfileRepo) Create(ctx context.Context, profile *domain.Profile) error { return nil }

func (s *stubProfileRepo) GetByAccountID(ctx context.Context, accountID uuid.UUID) (*domain.Profile, error) {
	s.calls++
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		return nil, err
	}
	if s.profile == nil {
		return nil, domain.ErrProfileNotFound
	}
	return s.profile, nil
}

func (s *stubProfileRepo) Update(ctx context.Context, profile *domain.Profile) error { return nil }

func (s *stubProfileRepo) Search(ctx context.Context, filters repository.SearchFilters, limit, offset int) ([]*domain.Profile, error) {
	return nil, nil
}

type stubRemediationStore struct {
	done map[domain.RemediationStep]bool
}

func (s *stubRemediationStore) MarkComplete(ctx context.Context, sessionID uuid.UUID, step domain.RemediationStep, ttl time.Duration) error {
	if s.done == nil {
		s.done = make(map[domain.RemediationStep]bool)
	}
	s.done[step] = true
	return nil
}

func (s *stubRemediationStore) IsComplete(ctx context.Context, sessionID uuid.UUID, step domain.RemediationStep) (bool, error) {
	return s.done[step], nil
}

func (s *stubRemediationStore) Clear(ctx context.Context, sessionID uuid.UUID) error {
	s.done = nil
	return nil
}

func strPtr(s string) *string { return &s }

func completeProfile(gender domain.Gender) *domain.Profile {
	birth := time.Date(1995, 4, 12, 0, 0, 0, 0, time.UTC)
	p := &domain.Profile{
		ID:                 uuid.New(),
		AccountID:          uuid.New(),
		Gender:             gender,
		FirstName:          strPtr("Amina"),
		LastName:           strPtr("Khan"),
		BirthDate:          &birth,
		SubscriptionTier:   domain.TierFreemium,
		Photos:             []string{"photo-1.jpg"},
		Ethnicity:          []string{"pakistani"},
		PreferredCountries: []string{"GB"},
		Country:            strPtr("GB"),
		OnboardingComplete: true,
	}
	if gender == domain.GenderFemale {
		p.GuardianName = strPtr("Yusuf Khan")
		p.GuardianPhone = strPtr("+441234567890")
	}
	return p
}

func newGateForTest(repo *stubProfileRepo, store repository.RemediationStore) *GateUseCase {
	resolver := &ProfileResolver{
		profileRepo:  repo,
		maxRetries:   2,
		baseInterval: time.Millisecond,
	}
	if store == nil {
		store = &stubRemediationStore{}
	}
	return NewGateUseCase(resolver, store, DefaultPaths())
}

func session() *SessionState {
	return &SessionState{SessionID: uuid.New(), AccountID: uuid.New()}
}

func TestEvaluate_RuleChain(t *testing.T) {
	referral := strPtr("REF123")

	incompleteOnboarding := func(g domain.Gender) *domain.Profile {
		p := completeProfile(g)
		p.Ethnicity = nil
		p.OnboardingComplete = false
		return p
	}

	tests := []struct {
		name         string
		session      *SessionState
		path         string
		profile      *domain.Profile
		referralCode *string
		markers      map[domain.RemediationStep]bool
		want         Decision
	}{
		{
			name:    "anonymous on public page",
			session: nil,
			path:    "/login",
			want:    Decision{Allow: true},
		},
		{
			name:    "anonymous on protected page",
			session: nil,
			path:    "/dashboard",
			want:    Decision{Redirect: domain.TargetLogin},
		},
		{
			name:    "authenticated on public page skips profile entirely",
			session: session(),
			path:    "/password-recovery",
			profile: nil, // would redirect to signup-continue if fetched
			want:    Decision{Allow: true},
		},
		{
			name:         "no profile redirects to signup continue with referral",
			session:      session(),
			path:         "/dashboard",
			profile:      nil,
			referralCode: referral,
			want:         Decision{Redirect: domain.TargetSignupContinue, ReferralCode: referral},
		},
		{
			name:    "no profile already on signup continue",
			session: session(),
			path:    "/signup/continue",
			profile: nil,
			want:    Decision{Allow: true},
		},
		{
			name:    "affiliate redirected off regular pages",
			session: session(),
			path:    "/dashboard",
			profile: completeProfile(domain.GenderAffiliate),
			want:    Decision{Redirect: domain.TargetAffiliateDashboard},
		},
		{
			name:    "affiliate allowed on its dashboard",
			session: session(),
			path:    "/affiliate",
			profile: completeProfile(domain.GenderAffiliate),
			want:    Decision{Allow: true},
		},
		{
			name:    "incomplete legal name",
			session: session(),
			path:    "/dashboard",
			profile: func() *domain.Profile {
				p := completeProfile(domain.GenderMale)
				p.FirstName = strPtr("  ")
				return p
			}(),
			want: Decision{Redirect: domain.TargetIdentityFix},
		},
		{
			name:    "identity fix wins over onboarding",
			session: session(),
			path:    "/dashboard",
			profile: func() *domain.Profile {
				p := incompleteOnboarding(domain.GenderMale)
				p.BirthDate = nil
				return p
			}(),
			want: Decision{Redirect: domain.TargetIdentityFix},
		},
		{
			name:    "identity fix not re-prompted on its own screen",
			session: session(),
			path:    "/fix/identity",
			profile: func() *domain.Profile {
				p := completeProfile(domain.GenderMale)
				p.LastName = nil
				return p
			}(),
			want: Decision{Allow: true},
		},
		{
			name:    "female missing guardian contact",
			session: session(),
			path:    "/dashboard",
			profile: func() *domain.Profile {
				p := completeProfile(domain.GenderFemale)
				p.GuardianPhone = nil
				return p
			}(),
			want: Decision{Redirect: domain.TargetGuardianFix},
		},
		{
			name:    "male never prompted for guardian contact",
			session: session(),
			path:    "/dashboard",
			profile: completeProfile(domain.GenderMale),
			want:    Decision{Allow: true},
		},
		{
			name:    "guardian rule suppressed on identity fix screen",
			session: session(),
			path:    "/fix/identity",
			profile: func() *domain.Profile {
				p := completeProfile(domain.GenderFemale)
				p.GuardianName = nil
				return p
			}(),
			want: Decision{Allow: true},
		},
		{
			name:    "identity marker skips the prompt this session",
			session: session(),
			path:    "/dashboard",
			profile: func() *domain.Profile {
				p := completeProfile(domain.GenderMale)
				p.FirstName = nil
				return p
			}(),
			markers: map[domain.RemediationStep]bool{domain.StepIdentityFix: true},
			want:    Decision{Allow: true},
		},
		{
			name:    "markers never override the onboarding rule",
			session: session(),
			path:    "/dashboard",
			profile: incompleteOnboarding(domain.GenderMale),
			markers: map[domain.RemediationStep]bool{
				domain.StepIdentityFix: true,
				domain.StepGuardianFix: true,
			},
			want: Decision{Redirect: domain.TargetOnboardingStart},
		},
		{
			name:    "incomplete onboarding redirected",
			session: session(),
			path:    "/dashboard",
			profile: incompleteOnboarding(domain.GenderFemale),
			want:    Decision{Redirect: domain.TargetOnboardingStart},
		},
		{
			name:    "incomplete onboarding allowed inside onboarding",
			session: session(),
			path:    "/onboarding/photos",
			profile: incompleteOnboarding(domain.GenderMale),
			want:    Decision{Allow: true},
		},
		{
			name:    "incomplete onboarding allowed on exempt paths",
			session: session(),
			path:    "/shop",
			profile: incompleteOnboarding(domain.GenderMale),
			want:    Decision{Allow: true},
		},
		{
			name:    "opt-out counts as onboarded without photos",
			session: session(),
			path:    "/dashboard",
			profile: func() *domain.Profile {
				p := completeProfile(domain.GenderFemale)
				p.Photos = nil
				p.PhotosOptOut = true
				return p
			}(),
			want: Decision{Allow: true},
		},
		{
			name:    "blank photos do not count as onboarded",
			session: session(),
			path:    "/dashboard",
			profile: func() *domain.Profile {
				p := completeProfile(domain.GenderMale)
				p.Photos = []string{"   ", ""}
				return p
			}(),
			want: Decision{Redirect: domain.TargetOnboardingStart},
		},
		{
			name:    "stale stored flag is ignored",
			session: session(),
			path:    "/dashboard",
			profile: func() *domain.Profile {
				p := incompleteOnboarding(domain.GenderMale)
				p.OnboardingComplete = true
				return p
			}(),
			want: Decision{Redirect: domain.TargetOnboardingStart},
		},
		{
			name:    "complete profile is reachable",
			session: session(),
			path:    "/dashboard",
			profile: completeProfile(domain.GenderFemale),
			want:    Decision{Allow: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &stubProfileRepo{profile: tt.profile}
			store := &stubRemediationStore{done: tt.markers}
			uc := newGateForTest(repo, store)

			got, err := uc.Evaluate(context.Background(), tt.session, tt.path, tt.referralCode)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			// Evaluation is read-only: a second identical call decides the same.
			again, err := uc.Evaluate(context.Background(), tt.session, tt.path, tt.referralCode)
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestEvaluate_SessionInvalidSurfacesError(t *testing.T) {
	repo := &stubProfileRepo{errs: []error{domain.ErrSessionExpired}}
	uc := newGateForTest(repo, nil)

	_, err := uc.Evaluate(context.Background(), session(), "/dashboard", nil)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
	assert.Equal(t, 1, repo.calls, "token errors must not be retried")
}

func TestEvaluate_ProfileUnavailableSurfacesError(t *testing.T) {
	repo := &stubProfileRepo{errs: []error{
		errors.New("connection refused"),
		errors.New("connection refused"),
		errors.New("connection refused"),
	}}
	uc := newGateForTest(repo, nil)

	_, err := uc.Evaluate(context.Background(), session(), "/dashboard", nil)
	assert.ErrorIs(t, err, domain.ErrProfileUnavailable)
	assert.Equal(t, 3, repo.calls)
}

func TestResolver_RecoversAfterTransientFailure(t *testing.T) {
	repo := &stubProfileRepo{
		profile: completeProfile(domain.GenderMale),
		errs:    []error{errors.New("connection refused")},
	}
	resolver := &ProfileResolver{profileRepo: repo, maxRetries: 2, baseInterval: time.Millisecond}

	snapshot := resolver.Resolve(context.Background(), uuid.New())
	assert.Equal(t, SnapshotOK, snapshot.Status)
	require.NotNil(t, snapshot.Profile)
	assert.Equal(t, 2, repo.calls)
}

func TestResolver_MissingProfileIsNotRetried(t *testing.T) {
	repo := &stubProfileRepo{}
	resolver := &ProfileResolver{profileRepo: repo, maxRetries: 2, baseInterval: time.Millisecond}

	snapshot := resolver.Resolve(context.Background(), uuid.New())
	assert.Equal(t, SnapshotMissing, snapshot.Status)
	assert.Equal(t, 1, repo.calls)
}

func TestCompleteRemediation(t *testing.T) {
	store := &stubRemediationStore{}
	uc := newGateForTest(&stubProfileRepo{}, store)
	sess := session()

	err := uc.CompleteRemediation(context.Background(), sess, domain.StepGuardianFix, time.Hour)
	require.NoError(t, err)
	assert.True(t, store.done[domain.StepGuardianFix])

	err = uc.CompleteRemediation(context.Background(), sess, domain.RemediationStep("password-reset"), time.Hour)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
