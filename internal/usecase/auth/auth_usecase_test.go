package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NikkahFirst/mobile-app-sub000/internal/domain"
)

type stubAccountRepo struct {
	accounts map[uuid.UUID]*domain.Account
	byEmail  map[string]*domain.Account
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{
		accounts: make(map[uuid.UUID]*domain.Account),
		byEmail:  make(map[string]*domain.Account),
	}
}

func (r *stubAccountRepo) Create(ctx context.Context, account *domain.Account) error {
	if _, ok := r.byEmail[account.Email]; ok {
		return domain.ErrEmailAlreadyExists
	}
	r.accounts[account.ID] = account
	r.byEmail[account.Email] = account
	return nil
}

func (r *stubAccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	account, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return account, nil
}

func (r *stubAccountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	account, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return account, nil
}

func (r *stubAccountRepo) Delete(ctx context.Context, id uuid.UUID) error {
	account, ok := r.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	delete(r.byEmail, account.Email)
	delete(r.accounts, id)
	return nil
}

type stubSessionRepo struct {
	byToken map[string]*domain.Session
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{byToken: make(map[string]*domain.Session)}
}

func (r *stubSessionRepo) Create(ctx context.Context, session *domain.Session) error {
	r.byToken[session.Token] = session
	return nil
}

func (r *stubSessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	session, ok := r.byToken[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (r *stubSessionRepo) DeleteByToken(ctx context.Context, token string) error {
	delete(r.byToken, token)
	return nil
}

func (r *stubSessionRepo) DeleteByAccountID(ctx context.Context, accountID uuid.UUID) error {
	for token, session := range r.byToken {
		if session.AccountID == accountID {
			delete(r.byToken, token)
		}
	}
	return nil
}

type noopRemediationStore struct {
	cleared []uuid.UUID
}

func (s *noopRemediationStore) MarkComplete(ctx context.Context, sessionID uuid.UUID, step domain.RemediationStep, ttl time.Duration) error {
	return nil
}

func (s *noopRemediationStore) IsComplete(ctx context.Context, sessionID uuid.UUID, step domain.RemediationStep) (bool, error) {
	return false, nil
}

func (s *noopRemediationStore) Clear(ctx context.Context, sessionID uuid.UUID) error {
	s.cleared = append(s.cleared, sessionID)
	return nil
}

const testSecret = "0123456789abcdef0123456789abcdef"

func newAuthForTest(expiry time.Duration) (*AuthUseCase, *stubAccountRepo, *stubSessionRepo, *noopRemediationStore) {
	accounts := newStubAccountRepo()
	sessions := newStubSessionRepo()
	markers := &noopRemediationStore{}
	return NewAuthUseCase(accounts, sessions, markers, testSecret, expiry), accounts, sessions, markers
}

func TestSignupLoginVerify(t *testing.T) {
	ctx := context.Background()
	uc, _, _, _ := newAuthForTest(time.Hour)

	signup, err := uc.Signup(ctx, &SignupRequest{
		Email:    "Amina@Example.com",
		Password: "correct-horse",
	}, "test-device", "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "amina@example.com", signup.Account.Email)

	info, err := uc.VerifyToken(ctx, signup.Token)
	require.NoError(t, err)
	assert.Equal(t, signup.Account.ID, info.AccountID)

	t.Run("wrong password rejected", func(t *testing.T) {
		_, err := uc.Login(ctx, &LoginRequest{
			Email:    "amina@example.com",
			Password: "wrong",
		}, "test-device", "127.0.0.1")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("unknown email rejected", func(t *testing.T) {
		_, err := uc.Login(ctx, &LoginRequest{
			Email:    "nobody@example.com",
			Password: "correct-horse",
		}, "test-device", "127.0.0.1")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	login, err := uc.Login(ctx, &LoginRequest{
		Email:    "amina@example.com",
		Password: "correct-horse",
	}, "test-device", "127.0.0.1")
	require.NoError(t, err)
	assert.NotEqual(t, signup.Token, login.Token)
}

func TestVerifyToken_ExpiredIsDistinct(t *testing.T) {
	ctx := context.Background()
	uc, _, _, _ := newAuthForTest(-time.Minute)

	signup, err := uc.Signup(ctx, &SignupRequest{
		Email:    "amina@example.com",
		Password: "correct-horse",
	}, "test-device", "127.0.0.1")
	require.NoError(t, err)

	_, err = uc.VerifyToken(ctx, signup.Token)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestVerifyToken_GarbageIsInvalid(t *testing.T) {
	uc, _, _, _ := newAuthForTest(time.Hour)

	_, err := uc.VerifyToken(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestLogout_ClearsMarkersAndSession(t *testing.T) {
	ctx := context.Background()
	uc, _, sessions, markers := newAuthForTest(time.Hour)

	signup, err := uc.Signup(ctx, &SignupRequest{
		Email:    "amina@example.com",
		Password: "correct-horse",
	}, "test-device", "127.0.0.1")
	require.NoError(t, err)

	require.NoError(t, uc.Logout(ctx, signup.Token))
	assert.Len(t, markers.cleared, 1)
	assert.Empty(t, sessions.byToken)

	_, err = uc.VerifyToken(ctx, signup.Token)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestDeleteAccount(t *testing.T) {
	ctx := context.Background()
	uc, accounts, sessions, _ := newAuthForTest(time.Hour)

	signup, err := uc.Signup(ctx, &SignupRequest{
		Email:    "amina@example.com",
		Password: "correct-horse",
	}, "test-device", "127.0.0.1")
	require.NoError(t, err)

	// A second device holds its own session; deletion revokes both.
	_, err = uc.Login(ctx, &LoginRequest{
		Email:    "amina@example.com",
		Password: "correct-horse",
	}, "other-device", "10.0.0.2")
	require.NoError(t, err)
	require.Len(t, sessions.byToken, 2)

	require.NoError(t, uc.DeleteAccount(ctx, signup.Account.ID))
	assert.Empty(t, sessions.byToken)
	assert.Empty(t, accounts.accounts)

	_, err = uc.VerifyToken(ctx, signup.Token)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = uc.Account(ctx, signup.Account.ID)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}
