// Package session signs users in and resolves bearer tokens back to users.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/crypto/bcrypt"

	"forklift-fleet-backend/internal/model"
	"forklift-fleet-backend/internal/store"
)

var (
	// ErrInvalidCredentials is returned when a login does not match a user.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized is returned for missing, expired or revoked tokens.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUserExists is returned when registering a taken username or email.
	ErrUserExists = errors.New("user already exists")
)

// DefaultCost is the bcrypt cost used for new passwords.
const DefaultCost = 12

const contextKey = "session"

// Session is the signed-in user behind a request.
type Session struct {
	User      model.User `json:"user"`
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
}

// Claims are the JWT claims of a session token.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Registration is the payload to create a user.
type Registration struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role" binding:"omitempty,oneof=operator supervisor admin"`
}

// Users is the part of the store the manager needs.
type Users interface {
	CreateUser(ctx context.Context, user *model.User) error
	UserByLogin(ctx context.Context, login string) (model.User, error)
	UserByID(ctx context.Context, id int64) (model.User, error)
}

// Manager issues and verifies session tokens.
type Manager struct {
	users   Users
	secret  []byte
	ttl     time.Duration
	cost    int
	revoked *cache.Cache
	now     func() time.Time
}

// NewManager creates a manager. An empty secret is replaced by a random one,
// so tokens do not outlive the process.
func NewManager(users Users, secret string, ttl time.Duration) *Manager {
	if secret == "" {
		secret = uuid.NewString()
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Manager{
		users:   users,
		secret:  []byte(secret),
		ttl:     ttl,
		cost:    DefaultCost,
		revoked: cache.New(ttl, 2*ttl),
		now:     time.Now,
	}
}

// SetCost changes the bcrypt cost of passwords hashed from now on.
func (m *Manager) SetCost(cost int) {
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	m.cost = cost
}

// Register creates a user and signs them in.
func (m *Manager) Register(ctx context.Context, r Registration) (Session, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(r.Password), m.cost)
	if err != nil {
		return Session{}, fmt.Errorf("failed to hash password: %w", err)
	}

	role := model.Role(r.Role)
	if role == "" {
		role = model.RoleOperator
	}
	user := model.User{
		Username:     strings.TrimSpace(r.Username),
		Email:        strings.ToLower(strings.TrimSpace(r.Email)),
		PasswordHash: string(hash),
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Role:         role,
	}
	if err := m.users.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, store.ErrDuplicateID) {
			return Session{}, fmt.Errorf("%s: %w", user.Username, ErrUserExists)
		}
		return Session{}, err
	}
	return m.issue(user)
}

// Login checks a username or email against its password.
func (m *Manager) Login(ctx context.Context, login, password string) (Session, error) {
	user, err := m.users.UserByLogin(ctx, strings.TrimSpace(login))
	if errors.Is(err, store.ErrNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return Session{}, ErrInvalidCredentials
	}
	return m.issue(user)
}

// Resolve verifies a token and loads its user.
func (m *Manager) Resolve(ctx context.Context, token string) (Session, error) {
	claims, err := m.parse(token)
	if err != nil {
		return Session{}, err
	}
	if _, revoked := m.revoked.Get(claims.ID); revoked {
		return Session{}, fmt.Errorf("%w: token revoked", ErrUnauthorized)
	}

	user, err := m.users.UserByID(ctx, claims.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return Session{}, fmt.Errorf("%w: user no longer exists", ErrUnauthorized)
	}
	if err != nil {
		return Session{}, err
	}
	return Session{User: user, Token: token, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Logout revokes the session's token until it would have expired anyway.
func (m *Manager) Logout(s Session) error {
	claims, err := m.parse(s.Token)
	if err != nil {
		return err
	}
	ttl := claims.ExpiresAt.Time.Sub(m.now())
	if ttl <= 0 {
		return nil
	}
	m.revoked.Set(claims.ID, struct{}{}, ttl)
	return nil
}

func (m *Manager) issue(user model.User) (Session, error) {
	now := m.now()
	expires := now.Add(m.ttl)
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.Username,
			Issuer:    "fleet-backend",
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return Session{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return Session{User: user, Token: token, ExpiresAt: expires}, nil
}

func (m *Manager) parse(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("%w: invalid token", ErrUnauthorized)
	}
	return claims, nil
}

// WithContext stores s in the request context.
func WithContext(c *gin.Context, s Session) {
	c.Set(contextKey, s)
}

// FromContext returns the session stored by the auth middleware.
func FromContext(c *gin.Context) (Session, bool) {
	v, ok := c.Get(contextKey)
	if !ok {
		return Session{}, false
	}
	s, ok := v.(Session)
	return s, ok
}
