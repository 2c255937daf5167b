package remote

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrSessionExpired     = errors.New("session expired or revoked")
)

type Claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// Auth implements the authentication boundary against the remote store:
// sign-up, sign-in, sign-out, and session lookup.
type Auth struct {
	DB     *pgxpool.Pool
	Secret string
	TTL    time.Duration
}

func NewAuth(db *pgxpool.Pool, secret string, ttl time.Duration) *Auth {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Auth{DB: db, Secret: secret, TTL: ttl}
}

func (a *Auth) SignUp(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	userID := uuid.NewString()
	tag, err := a.DB.Exec(ctx, `
    INSERT INTO users (id, email, password_hash)
    VALUES ($1, $2, $3)
    ON CONFLICT (email) DO NOTHING
  `, userID, email, string(hash))
	if err != nil {
		return "", err
	}
	if tag.RowsAffected() == 0 {
		return "", ErrEmailTaken
	}
	return userID, nil
}

// SignIn verifies credentials, records a session row, and returns a signed
// token plus the user id.
func (a *Auth) SignIn(ctx context.Context, email, password string) (string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var userID, passwordHash string
	err := a.DB.QueryRow(ctx, `
    SELECT id, password_hash FROM users WHERE email = $1
  `, email).Scan(&userID, &passwordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", "", ErrInvalidCredentials
	}
	if err != nil {
		return "", "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)) != nil {
		return "", "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(a.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(a.Secret))
	if err != nil {
		return "", "", err
	}

	_, err = a.DB.Exec(ctx, `
    INSERT INTO sessions (token_hash, user_id, expires_at)
    VALUES ($1, $2, $3)
  `, hashToken(token), userID, now.Add(a.TTL).UTC())
	if err != nil {
		return "", "", err
	}
	return token, userID, nil
}

// SignOut revokes the session behind token. Revoking an unknown token is a
// no-op.
func (a *Auth) SignOut(ctx context.Context, token string) error {
	_, err := a.DB.Exec(ctx, `
    UPDATE sessions SET revoked = TRUE WHERE token_hash = $1
  `, hashToken(token))
	return err
}

// Lookup validates token and returns its user id, or an error when no live
// session backs it.
func (a *Auth) Lookup(ctx context.Context, token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(a.Secret), nil
	})
	if err != nil {
		return "", ErrSessionExpired
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return "", ErrSessionExpired
	}

	var revoked bool
	var expiresAt time.Time
	err = a.DB.QueryRow(ctx, `
    SELECT revoked, expires_at FROM sessions WHERE token_hash = $1
  `, hashToken(token)).Scan(&revoked, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrSessionExpired
	}
	if err != nil {
		return "", err
	}
	if revoked || time.Now().After(expiresAt) {
		return "", ErrSessionExpired
	}
	return claims.UserID, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
