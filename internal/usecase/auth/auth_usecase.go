package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/NikkahFirst/mobile-app-sub000/internal/domain"
	"github.com/NikkahFirst/mobile-app-sub000/internal/repository"
	"github.com/NikkahFirst/mobile-app-sub000/pkg/logger"
)

type AuthUseCase struct {
	accountRepo      repository.AccountRepository
	sessionRepo      repository.SessionRepository
	remediationStore repository.RemediationStore
	jwtSecret        string
	sessionExpiry    time.Duration
}

func NewAuthUseCase(
	accountRepo repository.AccountRepository,
	sessionRepo repository.SessionRepository,
	remediationStore repository.RemediationStore,
	jwtSecret string,
	sessionExpiry time.Duration,
) *AuthUseCase {
	return &AuthUseCase{
		accountRepo:      accountRepo,
		sessionRepo:      sessionRepo,
		remediationStore: remediationStore,
		jwtSecret:        jwtSecret,
		sessionExpiry:    sessionExpiry,
	}
}

// SignupRequest represents an account signup
type SignupRequest struct {
	Email        string  `json:"email" binding:"required,email"`
	Password     string  `json:"password" binding:"required,min=8"`
	ReferralCode *string `json:"referral_code" binding:"omitempty,max=64"`
}

// LoginRequest represents a credential login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Account   *domain.Account `json:"account"`
}

// SessionInfo identifies the authenticated caller for downstream usecases.
type SessionInfo struct {
	SessionID uuid.UUID
	AccountID uuid.UUID
	ExpiresAt time.Time
}

// Signup creates an account and issues a session
func (uc *AuthUseCase) Signup(ctx context.Context, req *SignupRequest, deviceInfo, ipAddress string) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &domain.Account{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleStandard,
		ReferralCode: req.ReferralCode,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	token, expiresAt, err := uc.createSession(ctx, account.ID, deviceInfo, ipAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	logger.Info("account created",
		zap.String("account_id", account.ID.String()))

	return &AuthResponse{Token: token, ExpiresAt: expiresAt, Account: account}, nil
}

// Login verifies credentials and issues a session
func (uc *AuthUseCase) Login(ctx context.Context, req *LoginRequest, deviceInfo, ipAddress string) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	account, err := uc.accountRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, expiresAt, err := uc.createSession(ctx, account.ID, deviceInfo, ipAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &AuthResponse{Token: token, ExpiresAt: expiresAt, Account: account}, nil
}

// createSession creates a new session and returns a JWT token
func (uc *AuthUseCase) createSession(ctx context.Context, accountID uuid.UUID, deviceInfo, ipAddress string) (string, time.Time, error) {
	sessionID := uuid.New()
	expiresAt := time.Now().Add(uc.sessionExpiry)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"session_id": sessionID.String(),
		"account_id": accountID.String(),
		"exp":        expiresAt.Unix(),
		"iat":        time.Now().Unix(),
	})

	tokenString, err := token.SignedString([]byte(uc.jwtSecret))
	if err != nil {
		return "", time.Time{}, err
	}

	session := &domain.Session{
		ID:         sessionID,
		AccountID:  accountID,
		Token:      uc.hashToken(tokenString),
		DeviceInfo: &deviceInfo,
		IPAddress:  &ipAddress,
		ExpiresAt:  expiresAt,
	}

	if err := uc.sessionRepo.Create(ctx, session); err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// VerifyToken verifies a JWT token against the session store. Expired
// sessions are reported distinctly from malformed or revoked tokens because
// the client recovery action differs: re-authenticate versus sign out.
func (uc *AuthUseCase) VerifyToken(ctx context.Context, tokenString string) (*SessionInfo, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return []byte(uc.jwtSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrSessionExpired
		}
		return nil, domain.ErrInvalidToken
	}
	if !token.Valid {
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrInvalidToken
	}

	sessionID, err := uuid.Parse(fmt.Sprint(claims["session_id"]))
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	accountID, err := uuid.Parse(fmt.Sprint(claims["account_id"]))
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	// Verify session exists
	session, err := uc.sessionRepo.GetByToken(ctx, uc.hashToken(tokenString))
	if err != nil {
		return nil, domain.ErrSessionNotFound
	}
	if session.IsExpired() {
		return nil, domain.ErrSessionExpired
	}

	return &SessionInfo{
		SessionID: sessionID,
		AccountID: accountID,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// Account loads the authenticated caller's account record
func (uc *AuthUseCase) Account(ctx context.Context, accountID uuid.UUID) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, accountID)
}

// DeleteAccount removes the account and revokes every session it holds.
// Sessions go first so a concurrent request cannot authenticate against a
// half-deleted account.
func (uc *AuthUseCase) DeleteAccount(ctx context.Context, accountID uuid.UUID) error {
	if err := uc.sessionRepo.DeleteByAccountID(ctx, accountID); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}
	if err := uc.accountRepo.Delete(ctx, accountID); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	logger.Info("account deleted",
		zap.String("account_id", accountID.String()))
	return nil
}

// Logout deletes the session and its remediation markers
func (uc *AuthUseCase) Logout(ctx context.Context, tokenString string) error {
	session, err := uc.sessionRepo.GetByToken(ctx, uc.hashToken(tokenString))
	if err == nil {
		if clearErr := uc.remediationStore.Clear(ctx, session.ID); clearErr != nil {
			logger.Warn("failed to clear remediation markers on logout",
				zap.String("session_id", session.ID.String()),
				zap.Error(clearErr))
		}
	}
	return uc.sessionRepo.DeleteByToken(ctx, uc.hashToken(tokenString))
}

// hashToken creates SHA256 hash of token for storage
func (uc *AuthUseCase) hashToken(token string) string {
	h := sha256.New()
	h.Write([]byte(token))
	return hex.EncodeToString(h.Sum(nil))
}
