package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/garnizeh/chronosflow/internal/roles"
	"github.com/garnizeh/chronosflow/pkg/models"
	"github.com/garnizeh/chronosflow/pkg/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLen = 6
	// bcrypt hashes at most 72 bytes of input.
	maxPasswordBytes = 72
)

// Auth registers accounts, checks credentials and issues session tokens.
type Auth struct {
	accounts repository.AccountRepo
	secret   []byte
	ttl      time.Duration
	cost     int
	now      func() time.Time
}

func NewAuth(accounts repository.AccountRepo, jwtSecret string, tokenDuration time.Duration, bcryptCost int) *Auth {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Auth{
		accounts: accounts,
		secret:   []byte(jwtSecret),
		ttl:      tokenDuration,
		cost:     bcryptCost,
		now:      time.Now,
	}
}

// RegisterInput is the sign-up form.
type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	Roles           []models.Role
}

// Register creates an email account. The first selected role becomes the active one.
func (a *Auth) Register(ctx context.Context, in RegisterInput) (*models.Account, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("Please enter your name")
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if in.Password != in.ConfirmPassword {
		return nil, invalid("Passwords do not match")
	}
	if utf8.RuneCountInString(in.Password) < minPasswordLen {
		return nil, invalid(fmt.Sprintf("Password must be at least %d characters", minPasswordLen))
	}
	if len(in.Password) > maxPasswordBytes {
		return nil, invalid(fmt.Sprintf("Password must be at most %d bytes", maxPasswordBytes))
	}
	if len(in.Roles) == 0 {
		return nil, invalid("Please select at least one role")
	}
	if err := roles.ValidateSet(in.Roles); err != nil {
		return nil, &ValidationError{Message: err.Error(), Err: err}
	}

	existing, err := a.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	if existing != nil {
		return nil, &ValidationError{Message: "This email is already registered. Please sign in.", Err: ErrEmailTaken}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), a.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	available := make([]models.Role, len(in.Roles))
	copy(available, in.Roles)
	acc := &models.Account{
		ID:             uuid.NewString(),
		Email:          email,
		Name:           name,
		Role:           in.Roles[0],
		AvailableRoles: available,
		AuthProvider:   models.AuthProviderEmail,
		PasswordHash:   string(hash),
	}
	if err := a.accounts.CreateAccount(ctx, acc); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, &ValidationError{Message: "This email is already registered. Please sign in.", Err: ErrEmailTaken}
		}
		return nil, fmt.Errorf("create account: %w", err)
	}
	return acc, nil
}

// Login checks an email and password pair.
func (a *Auth) Login(ctx context.Context, email, password string) (*models.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, invalid("Email and password are required")
	}

	acc, err := a.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	if acc == nil {
		return nil, ErrAccountNotFound
	}
	if acc.PasswordHash == "" {
		return nil, ErrWrongPassword
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)) != nil {
		return nil, ErrWrongPassword
	}

	acc.AvailableRoles = roles.Normalize(acc.Role, acc.AvailableRoles)
	return acc, nil
}

// IssueToken signs a session token whose subject is the account id.
func (a *Auth) IssueToken(acc *models.Account) (string, error) {
	now := a.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   acc.ID,
		"email": acc.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(a.ttl).Unix(),
	})
	s, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return s, nil
}

// ParseToken validates a session token and returns its account id.
func (a *Auth) ParseToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithTimeFunc(a.now))
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}

func normalizeEmail(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return "", invalid("Please enter a valid email address")
	}
	return s, nil
}
