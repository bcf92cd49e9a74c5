package domain

// RedirectTarget is an opaque route identifier handed back to the client.
// Targets are stable strings, not URLs.
type RedirectTarget string

const (
	TargetLogin              RedirectTarget = "login"
	TargetSignupContinue     RedirectTarget = "signup-continue"
	TargetIdentityFix        RedirectTarget = "identity-fix"
	TargetGuardianFix        RedirectTarget = "guardian-fix"
	TargetOnboardingStart    RedirectTarget = "onboarding-start"
	TargetAffiliateDashboard RedirectTarget = "affiliate-dashboard"
)

// RemediationStep names a per-session fix step that, once completed, must not
// be re-prompted even before the underlying profile flags propagate.
type RemediationStep string

const (
	StepIdentityFix RemediationStep = "identity-fix"
	StepGuardianFix RemediationStep = "guardian-fix"
)
