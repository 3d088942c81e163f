package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"home-flavours/models"
	"home-flavours/repository"
	"home-flavours/utils"

	"github.com/google/uuid"
	"github.com/romana/rlog"
)

type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Phone    string
	Address  string
	Role     models.UserRole
}

type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// Principal is the authenticated caller of a request
type Principal struct {
	SessionID string
	UserID    uint
	Username  string
	Role      models.UserRole
}

type AuthService struct {
	store  *repository.Store
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthService(store *repository.Store, secret []byte, ttl time.Duration) *AuthService {
	return &AuthService{store: store, secret: secret, ttl: ttl, now: time.Now}
}

// Register creates a customer or tiffin maker account
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if in.Role == "" {
		in.Role = models.RoleCustomer
	}
	if in.Role != models.RoleCustomer && in.Role != models.RoleTiffinMaker {
		return nil, invalid("role must be customer or tiffin_maker")
	}
	return s.createUser(ctx, in)
}

// CreateUser creates an account of any role; reserved for admins
func (s *AuthService) CreateUser(ctx context.Context, in RegisterInput) (*models.User, error) {
	if !in.Role.Valid() {
		return nil, invalid("unknown role %q", in.Role)
	}
	return s.createUser(ctx, in)
}

func (s *AuthService) createUser(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	if in.Username == "" || in.FullName == "" {
		return nil, invalid("username and full name are required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, invalid("email address is not valid")
	}
	if len(in.Password) < utils.MinPasswordLength {
		return nil, invalid("password must be at least %d characters long", utils.MinPasswordLength)
	}

	exists, err := s.store.Users.ExistsByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil {
		return nil, fmt.Errorf("check existing account: %w", err)
	}
	if exists {
		return nil, ErrDuplicateAccount
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		FullName:     in.FullName,
		Phone:        in.Phone,
		Address:      in.Address,
		Role:         in.Role,
	}
	if err := s.store.Users.Create(ctx, &user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateAccount
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	rlog.Infof("Registered %s account %q (id %d)", user.Role, user.Username, user.ID)
	return &user, nil
}

// Login checks credentials and opens a server-side session
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.store.Users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	session := models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.store.Sessions.Create(ctx, &session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	token, err := utils.GenerateToken(s.secret, session.ID, user.ID, string(user.Role), now, session.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &LoginResult{Token: token, ExpiresAt: session.ExpiresAt, User: user}, nil
}

// Logout ends the session; its token is rejected from then on
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.store.Sessions.Delete(ctx, sessionID)
}

// Authenticate resolves a bearer token to the caller behind it
func (s *AuthService) Authenticate(ctx context.Context, token string) (*Principal, error) {
	claims, err := utils.ParseToken(s.secret, token)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	session, err := s.store.Sessions.FindActive(ctx, claims.ID, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	user, err := s.store.Users.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	return &Principal{SessionID: session.ID, UserID: user.ID, Username: user.Username, Role: user.Role}, nil
}

func (s *AuthService) Profile(ctx context.Context, userID uint) (*models.User, error) {
	return s.store.Users.FindByID(ctx, userID)
}

// PurgeExpiredSessions drops sessions past their expiry
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return s.store.Sessions.DeleteExpired(ctx, s.now())
}
