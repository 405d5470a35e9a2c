package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"opsdesk_server/database"
	"opsdesk_server/lib"
	"opsdesk_server/structs"
	"opsdesk_server/structs/tables"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"golang.org/x/crypto/argon2"
)

var DefaultParams = &structs.ArgonParams{
	Memory:  64 * 1024, // 64 MB
	Time:    1,
	Threads: 4,
	KeyLen:  32,
	SaltLen: 16,
}

type AuthService struct {
	logger       *gecho.Logger
	cfg          *structs.Config
	db           *database.DB
	cacheService *CacheService
}

func NewAuthService(cfg *structs.Config, logger *gecho.Logger, db *database.DB, cacheService *CacheService) *AuthService {
	return &AuthService{
		logger:       logger,
		cfg:          cfg,
		db:           db,
		cacheService: cacheService,
	}
}

// Login verifies credentials and returns the user on success. Every failure
// mode returns lib.ErrInvalidCredentials so user existence never leaks.
func (as *AuthService) Login(ctx context.Context, authRequest *structs.AuthRequest) (*tables.User, error) {
	startTime := time.Now()

	user, err := database.Query[tables.User](as.db).Where("email", authRequest.Email).First(ctx)
	if err != nil {
		mappedErr := lib.MapPgError(err)
		if !lib.IsNotFound(mappedErr) {
			as.logger.Error("Unexpected database error during login", gecho.Field("error", mappedErr))
		}
		return nil, lib.ErrInvalidCredentials
	}

	if user == nil {
		as.logger.Debug("User not found during login attempt", gecho.Field("identifier", authRequest.Email))
		return nil, lib.ErrInvalidCredentials
	}

	valid, err := as.VerifyPassword(authRequest.Password, user.PasswordHash)
	if err != nil {
		as.logger.Error("Failed to verify password hash",
			gecho.Field("error", err),
			gecho.Field("user_id", user.Id))
		return nil, err
	}
	if !valid {
		as.logger.Debug("Invalid password attempt",
			gecho.Field("identifier", authRequest.Email),
			gecho.Field("user_id", user.Id))
		return nil, lib.ErrInvalidCredentials
	}

	as.logger.Debug("User logged in",
		gecho.Field("user_id", user.Id),
		gecho.Field("elapsed_time_ms", time.Since(startTime).Milliseconds()))

	// Never hand the hash back to callers
	user.PasswordHash = ""

	if cacheErr := as.cacheService.SetUserInCache(user); cacheErr != nil {
		as.logger.Warn("Failed to set user in cache after login",
			gecho.Field("error", cacheErr),
			gecho.Field("user_id", user.Id))
	}

	return user, nil
}

// Register creates a new user account with an argon2id password hash
func (as *AuthService) Register(ctx context.Context, registerRequest *structs.RegisterRequest) (*tables.User, error) {
	passwordHash, err := as.HashPassword(registerRequest.Password, DefaultParams)
	if err != nil {
		as.logger.Error("Failed to hash password", gecho.Field("error", err))
		return nil, err
	}

	now := time.Now()
	user := &tables.User{
		Id:           uuid.New(),
		Username:     registerRequest.Username,
		Email:        registerRequest.Email,
		PasswordHash: passwordHash,
		Role:         "user",
		LastLogin:    now,
		CreatedAt:    now,
	}

	err = database.Query[tables.User](as.db).Insert(ctx, user)
	if err != nil {
		mappedErr := lib.MapPgError(err)

		if lib.IsConflict(mappedErr) {
			as.logger.Warn("Registration failed, duplicate user",
				gecho.Field("username", registerRequest.Username),
				gecho.Field("email", registerRequest.Email))
		} else {
			as.logger.Error("Database error during registration",
				gecho.Field("error", mappedErr),
				gecho.Field("username", registerRequest.Username))
		}

		return nil, mappedErr
	}

	as.logger.Info("User registered", gecho.Field("user_id", user.Id))

	user.PasswordHash = ""
	return user, nil
}

// HashPassword hashes a plain-text password and returns a string and possible error
func (as *AuthService) HashPassword(password string, p *structs.ArgonParams) (string, error) {
	salt, err := generateSalt(p.SaltLen)
	if err != nil {
		return "", err
	}
	hash := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Threads, p.KeyLen)
	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Hash := base64.RawStdEncoding.EncodeToString(hash)
	// format: $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
	params := fmt.Sprintf("m=%d,t=%d,p=%d", p.Memory, p.Time, p.Threads)
	encoded := fmt.Sprintf("$argon2id$v=19$%s$%s$%s", params, b64Salt, b64Hash)
	return encoded, nil
}

func generateSalt(n uint32) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	return b, err
}

// VerifyPassword verifies a plain-text password against a hashed password
func (as *AuthService) VerifyPassword(password, hashedPassword string) (bool, error) {
	parts, err := lib.DecodeArgon2Hash(hashedPassword)
	if err != nil {
		return false, err
	}

	hash := argon2.IDKey([]byte(password), parts.Salt, parts.Time, parts.Memory, parts.Threads, parts.KeyLen)

	return lib.SecureCompare(hash, parts.Hash), nil
}

// GenerateAccessToken generates a JWT access token for the given user
func (as *AuthService) GenerateAccessToken(user *tables.User) (string, error) {
	now := time.Now()
	claims := &structs.AuthClaims{
		Sub:   user.Id,
		Email: user.Email,
		Role:  user.Role,
		Iat:   now,
		Exp:   as.GetAccessTokenExpiration(),
		Jti:   uuid.New(),
	}
	return lib.SignClaims(claims, as.cfg.Auth.AccessTokenSecret)
}

// GetAccessTokenExpiration returns the expiration time for access tokens
func (as *AuthService) GetAccessTokenExpiration() time.Time {
	return time.Now().Add(as.cfg.Auth.AccessTokenExpiry)
}

// GenerateRefreshToken generates a JWT refresh token for the given user
func (as *AuthService) GenerateRefreshToken(user *tables.User) (string, error) {
	now := time.Now()
	claims := &structs.AuthClaims{
		Sub:   user.Id,
		Email: user.Email,
		Role:  user.Role,
		Iat:   now,
		Exp:   as.GetRefreshTokenExpiration(),
		Jti:   uuid.New(),
	}
	return lib.SignClaims(claims, as.cfg.Auth.RefreshTokenSecret)
}

// GetRefreshTokenExpiration returns the expiration time for refresh tokens
func (as *AuthService) GetRefreshTokenExpiration() time.Time {
	return time.Now().Add(as.cfg.Auth.RefreshTokenExpiry)
}

// RefreshAccessToken validates a refresh token and issues a new token pair
func (as *AuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (*tables.AuthResponse, error) {
	claims, err := lib.ParseToken(refreshToken, as.cfg.Auth.RefreshTokenSecret)
	if err != nil {
		as.logger.Error("Failed to parse refresh token", gecho.Field("error", err))
		return nil, lib.ErrInvalidToken
	}

	if time.Now().After(claims.Exp) {
		as.logger.Warn("Refresh token has expired", gecho.Field("exp", claims.Exp))
		return nil, lib.ErrExpiredToken
	}

	isBlacklisted, err := as.cacheService.IsTokenBlacklisted(claims.Jti)
	if err != nil {
		as.logger.Error("Failed to check token blacklist", gecho.Field("error", err), gecho.Field("jti", claims.Jti))
		return nil, err
	}
	if isBlacklisted {
		as.logger.Warn("Refresh token is blacklisted", gecho.Field("jti", claims.Jti))
		return nil, lib.ErrInvalidToken
	}

	user, err := as.GetUserByID(ctx, claims.Sub)
	if err != nil {
		as.logger.Error("Failed to get user during token refresh", gecho.Field("error", err), gecho.Field("user_id", claims.Sub))
		return nil, err
	}
	if user == nil {
		return nil, lib.ErrInvalidToken
	}

	// Rotate: the old refresh token is dead from here on
	if err := as.cacheService.BlacklistToken(claims.Jti, claims.Exp); err != nil {
		as.logger.Warn("Failed to blacklist rotated refresh token", gecho.Field("error", err), gecho.Field("jti", claims.Jti))
	}

	newAccessToken, err := as.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}

	newRefreshToken, err := as.GenerateRefreshToken(user)
	if err != nil {
		return nil, err
	}

	return &tables.AuthResponse{
		User:         user,
		AccessToken:  newAccessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

// GetUserByID retrieves a user, cache first. Returns (nil, nil) on miss.
func (as *AuthService) GetUserByID(ctx context.Context, userId uuid.UUID) (*tables.User, error) {
	cachedUser, err := as.cacheService.GetUserFromCache(userId)
	if err != nil {
		as.logger.Warn("Failed to get user from cache", gecho.Field("error", err), gecho.Field("user_id", userId))
	} else if cachedUser != nil {
		return cachedUser, nil
	}

	user, err := database.Query[tables.User](as.db).Where("id", userId).First(ctx)
	if err != nil {
		as.logger.Error("Failed to find user by ID", gecho.Field("error", err), gecho.Field("user_id", userId))
		return nil, lib.MapPgError(err)
	}

	go func() {
		if err := as.cacheService.SetUserInCache(user); err != nil {
			as.logger.Warn("Failed to cache user", gecho.Field("error", err), gecho.Field("user_id", userId))
		}
	}()

	return user, nil
}

func (as *AuthService) GetAccessTokenSecret() string {
	return as.cfg.Auth.AccessTokenSecret
}

func (as *AuthService) GetRefreshTokenSecret() string {
	return as.cfg.Auth.RefreshTokenSecret
}

// UpdateLastLogin stamps the user's last successful login
func (as *AuthService) UpdateLastLogin(ctx context.Context, userId uuid.UUID) error {
	updates := map[string]any{
		"last_login": time.Now(),
	}
	_, err := database.Query[tables.User](as.db).Where("id", userId).Update(ctx, updates)
	if err != nil {
		return lib.MapPgError(err)
	}
	return nil
}

// BlacklistToken revokes a token until its natural expiry
func (as *AuthService) BlacklistToken(jti uuid.UUID, exp time.Time) error {
	return as.cacheService.BlacklistToken(jti, exp)
}

// IsTokenBlacklisted checks whether a token has been revoked
func (as *AuthService) IsTokenBlacklisted(jti uuid.UUID) (bool, error) {
	return as.cacheService.IsTokenBlacklisted(jti)
}
