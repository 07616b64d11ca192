package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/vncsmyrnk/webapps/internal/core/domain"
	"github.com/vncsmyrnk/webapps/internal/core/ports"
	"golang.org/x/crypto/bcrypt"
)

const DefaultSessionTTL = 24 * time.Hour

type AuthService struct {
	userRepo    ports.UserRepository
	sessionRepo ports.SessionRepository
	secret      []byte
	sessionTTL  time.Duration
	hashCost    int
	now         func() time.Time
}

func NewAuthService(userRepo ports.UserRepository, sessionRepo ports.SessionRepository, secret string, sessionTTL time.Duration) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		secret:      []byte(secret),
		sessionTTL:  sessionTTL,
		hashCost:    bcrypt.DefaultCost,
		now:         time.Now,
	}
}

// WithHashCost lowers the bcrypt cost, which keeps tests fast.
func (s *AuthService) WithHashCost(cost int) *AuthService {
	s.hashCost = cost
	return s
}

func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" {
		return nil, domain.NewValidationError("Username is required.", nil)
	}
	if password == "" {
		return nil, domain.NewValidationError("Password is required.", nil)
	}

	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if existing != nil {
		return nil, usernameTaken(username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC().Truncate(time.Microsecond),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration of the same name.
		if errors.Is(err, domain.ErrUsernameTaken) {
			return nil, usernameTaken(username)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return "", nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return "", nil, domain.NewValidationError("Incorrect username.", domain.ErrUserNotFound)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.NewValidationError("Incorrect password.", domain.ErrInvalidPassword)
	}

	now := s.now()
	session := &domain.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.sessionTTL).UTC().Truncate(time.Microsecond),
		CreatedAt: now.UTC().Truncate(time.Microsecond),
	}
	if err := s.sessionRepo.CreateSession(ctx, session); err != nil {
		return "", nil, fmt.Errorf("failed to store session: %w", err)
	}

	token, err := s.generateSessionToken(session)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	return token, user, nil
}

// CurrentUser resolves the user behind a session token. Every failure is
// reported as domain.ErrInvalidSession.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.parseSessionToken(token)
	if err != nil {
		return nil, err
	}

	sessionID, err := uuid.Parse(claims.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed session id", domain.ErrInvalidSession)
	}

	session, err := s.sessionRepo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil || !session.Active(s.now()) {
		return nil, fmt.Errorf("%w: session expired or revoked", domain.ErrInvalidSession)
	}
	if session.UserID.String() != claims.Subject {
		return nil, fmt.Errorf("%w: subject mismatch", domain.ErrInvalidSession)
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user no longer exists", domain.ErrInvalidSession)
	}
	return user, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.parseSessionToken(token)
	if err != nil {
		// Nothing to revoke.
		return nil
	}

	sessionID, err := uuid.Parse(claims.ID)
	if err != nil {
		return nil
	}
	return s.sessionRepo.RevokeSession(ctx, sessionID)
}

func (s *AuthService) generateSessionToken(session *domain.Session) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        session.ID.String(),
		Subject:   session.UserID.String(),
		IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
		ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *AuthService) parseSessionToken(tokenStr string) (*jwt.RegisteredClaims, error) {
	if tokenStr == "" {
		return nil, fmt.Errorf("%w: empty token", domain.ErrInvalidSession)
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSession, err)
	}
	if !token.Valid {
		return nil, domain.ErrInvalidSession
	}
	return claims, nil
}

func usernameTaken(username string) error {
	return domain.NewValidationError(fmt.Sprintf("User %s is already registered.", username), domain.ErrUsernameTaken)
}
