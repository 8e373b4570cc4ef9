// Package auth is the authentication capability. The Manager is constructed
// explicitly and injected wherever it is needed; there is no package-level
// session singleton.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/kensetsu-dev/kensetsu/internal/models"
)

type Event string

const (
	EventSignedIn  Event = "SIGNED_IN"
	EventSignedOut Event = "SIGNED_OUT"
)

type User struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Session struct {
	Token     string    `json:"token"`
	User      User      `json:"user"`
	ExpiresAt time.Time `json:"expires_at"`
}

const tokenTTL = 168 * time.Hour

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already exists")
)

type Manager struct {
	db     *gorm.DB
	secret []byte

	mu      sync.Mutex
	nextSub int
	subs    map[int]func(Event, *Session)
}

func NewManager(db *gorm.DB, secret string) (*Manager, error) {
	if secret == "" {
		return nil, errors.New("JWT secret is not set")
	}
	return &Manager{
		db:     db,
		secret: []byte(secret),
		subs:   make(map[int]func(Event, *Session)),
	}, nil
}

// SignUp registers a new user and signs them in.
func (m *Manager) SignUp(ctx context.Context, name, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var existing models.User
	err := m.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(passwordHash),
	}
	if err := m.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return m.openSession(user)
}

// SignIn authenticates an existing user. A missing user and a wrong password
// are indistinguishable to the caller.
func (m *Manager) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	err := m.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return m.openSession(user)
}

func (m *Manager) SignOut() {
	m.emit(EventSignedOut, nil)
}

// CurrentUser resolves a token to its user, or fails when the token is
// invalid, expired or the user no longer exists.
func (m *Manager) CurrentUser(ctx context.Context, token string) (User, error) {
	claims, err := m.verifyToken(token)
	if err != nil {
		return User{}, err
	}

	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return User{}, errors.New("invalid user ID in token claims")
	}

	var user models.User
	if err := m.db.WithContext(ctx).Where("id = ?", uint(userIDFloat)).First(&user).Error; err != nil {
		return User{}, errors.New("user not found")
	}

	return User{ID: user.ID, Name: user.Name, Email: user.Email}, nil
}

// OnAuthStateChange subscribes to sign-in and sign-out events and returns an
// unsubscribe func.
func (m *Manager) OnAuthStateChange(cb func(Event, *Session)) func() {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = cb
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

func (m *Manager) openSession(user models.User) (*Session, error) {
	token, expiresAt, err := m.generateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	session := &Session{
		Token:     token,
		User:      User{ID: user.ID, Name: user.Name, Email: user.Email},
		ExpiresAt: expiresAt,
	}
	m.emit(EventSignedIn, session)
	return session, nil
}

func (m *Manager) emit(event Event, session *Session) {
	m.mu.Lock()
	cbs := make([]func(Event, *Session), 0, len(m.subs))
	for _, cb := range m.subs {
		cbs = append(cbs, cb)
	}
	m.mu.Unlock()

	for _, cb := range cbs {
		cb(event, session)
	}
}

func (m *Manager) generateToken(userID uint, email string) (string, time.Time, error) {
	expiresAt := time.Now().Add(tokenTTL)
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"exp":     expiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	return signed, expiresAt, err
}

func (m *Manager) verifyToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})

	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}
