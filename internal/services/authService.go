package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/arzan03/PaperBot/internal/apperr"
	"github.com/arzan03/PaperBot/internal/config"
	"github.com/arzan03/PaperBot/internal/constants"
	"github.com/arzan03/PaperBot/internal/dto"
	"github.com/arzan03/PaperBot/internal/models"
	"github.com/arzan03/PaperBot/internal/querybuilder"
	"github.com/arzan03/PaperBot/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// AccessClaims are carried by every access token.
type AccessClaims struct {
	UserID   string `json:"_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// AvatarStorage is the object store used for profile pictures.
type AvatarStorage interface {
	Put(ctx context.Context, userID, filename, contentType string, r io.Reader, size int64) (key, url string, err error)
	Remove(ctx context.Context, key string) error
}

type AuthService struct {
	users   repository.UserRepository
	tokens  TokenStore
	mailer  Mailer
	avatars AvatarStorage
	cfg     *config.Config
	now     func() time.Time
}

// NewAuthService wires the user service. avatars may be nil, which disables uploads.
func NewAuthService(users repository.UserRepository, tokens TokenStore, mailer Mailer, avatars AvatarStorage, cfg *config.Config) *AuthService {
	return &AuthService{
		users:   users,
		tokens:  tokens,
		mailer:  mailer,
		avatars: avatars,
		cfg:     cfg,
		now:     time.Now,
	}
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// VerifyPassword compares a plain password with a hashed password
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func generateSecureToken() (string, error) {
	token := make([]byte, 20)
	if _, err := rand.Read(token); err != nil {
		return "", fmt.Errorf("failed to generate secure token: %w", err)
	}
	return hex.EncodeToString(token), nil
}

// hashToken is what gets stored for emailed tokens and OTPs.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func (s *AuthService) userByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("User does not exist")
	}
	return user, err
}

func (s *AuthService) userBy(ctx context.Context, filter bson.M) (*models.User, error) {
	user, err := s.users.FindOne(ctx, filter)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("User does not exist")
	}
	return user, err
}

// Register creates a USER account and sends the email verification link.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.ToLower(strings.TrimSpace(req.Username))

	_, err := s.users.FindOne(ctx, bson.M{"$or": bson.A{bson.M{"email": email}, bson.M{"username": username}}})
	if err == nil {
		return nil, apperr.New(http.StatusConflict, "User with email or username already exists")
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	token, err := generateSecureToken()
	if err != nil {
		return nil, err
	}
	expiry := s.now().Add(constants.TemporaryTokenExpiry)

	user := &models.User{
		Email:                   email,
		Username:                username,
		Password:                hash,
		Role:                    constants.RoleUser,
		LoginType:               constants.LoginEmailPassword,
		IsActive:                true,
		EmailVerificationToken:  hashToken(token),
		EmailVerificationExpiry: &expiry,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.mailer.SendEmailVerification(ctx, user, s.link("verify-email", token)); err != nil {
		slog.Warn("failed to send verification email", "user_id", user.ID.Hex(), "error", err)
	}
	return user, nil
}

func (s *AuthService) link(route, token string) string {
	return fmt.Sprintf("%s/api/v1/users/%s/%s", strings.TrimRight(s.cfg.ServerURL, "/"), route, token)
}

// Login accepts either the email or the username together with the password.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	var or bson.A
	if req.Email != "" {
		or = append(or, bson.M{"email": strings.ToLower(strings.TrimSpace(req.Email))})
	}
	if req.Username != "" {
		or = append(or, bson.M{"username": strings.ToLower(strings.TrimSpace(req.Username))})
	}
	user, err := s.userBy(ctx, bson.M{"$or": or})
	if err != nil {
		return nil, err
	}
	if !VerifyPassword(req.Password, user.Password) {
		return nil, apperr.Unauthorized("Invalid user credentials")
	}
	if !user.IsActive {
		return nil, apperr.Forbidden("Account is deactivated")
	}
	return s.issueTokens(ctx, user)
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	now := s.now()
	subject := user.ID.Hex()

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		UserID:   subject,
		Email:    user.Email,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTokenExpiry)),
		},
	})
	accessToken, err := access.SignedString([]byte(s.cfg.AccessTokenSecret))
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.RefreshTokenExpiry)),
	})
	refreshToken, err := refresh.SignedString([]byte(s.cfg.RefreshTokenSecret))
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	updated, err := s.users.Update(ctx, user.ID, bson.M{"refreshToken": refreshToken})
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{User: updated, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Logout drops the stored refresh token and revokes the presented access token.
func (s *AuthService) Logout(ctx context.Context, userID primitive.ObjectID, jti string, expiresAt time.Time) error {
	if _, err := s.users.Update(ctx, userID, bson.M{"refreshToken": ""}); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	s.tokens.Revoke(ctx, jti, expiresAt.Sub(s.now()))
	return nil
}

// RefreshAccessToken rotates the token pair. A refresh token is single use:
// presenting an older one fails.
func (s *AuthService) RefreshAccessToken(ctx context.Context, raw string) (*dto.AuthResponse, error) {
	if raw == "" {
		return nil, apperr.Unauthorized("Unauthorized request")
	}
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return []byte(s.cfg.RefreshTokenSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, apperr.Unauthorized("Invalid refresh token")
	}

	id, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid refresh token")
	}
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Unauthorized("Invalid refresh token")
	}
	if err != nil {
		return nil, err
	}
	if user.RefreshToken != raw {
		return nil, apperr.Unauthorized("Refresh token is expired or used")
	}
	if !user.IsActive {
		return nil, apperr.Forbidden("Account is deactivated")
	}
	return s.issueTokens(ctx, user)
}

// Authenticate resolves the user behind a verified access token.
func (s *AuthService) Authenticate(ctx context.Context, userID, jti string) (*models.User, error) {
	if s.tokens.Revoked(ctx, jti) {
		return nil, apperr.Unauthorized("Token has been revoked")
	}
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid access token")
	}
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Unauthorized("Invalid access token")
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperr.Unauthorized("Account is deactivated")
	}
	return user, nil
}

func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*models.User, error) {
	user, err := s.users.FindOne(ctx, bson.M{
		"emailVerificationToken":  hashToken(token),
		"emailVerificationExpiry": bson.M{"$gt": s.now()},
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.BadRequest("Token is invalid or expired")
	}
	if err != nil {
		return nil, err
	}
	return s.users.Update(ctx, user.ID, bson.M{
		"isEmailVerified":         true,
		"emailVerificationToken":  "",
		"emailVerificationExpiry": nil,
	})
}

func (s *AuthService) ResendEmailVerification(ctx context.Context, userID primitive.ObjectID) error {
	user, err := s.userByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsEmailVerified {
		return apperr.New(http.StatusConflict, "Email is already verified")
	}
	token, err := generateSecureToken()
	if err != nil {
		return err
	}
	expiry := s.now().Add(constants.TemporaryTokenExpiry)
	if _, err := s.users.Update(ctx, user.ID, bson.M{
		"emailVerificationToken":  hashToken(token),
		"emailVerificationExpiry": expiry,
	}); err != nil {
		return err
	}
	return s.mailer.SendEmailVerification(ctx, user, s.link("verify-email", token))
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userBy(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
	if err != nil {
		return err
	}
	token, err := generateSecureToken()
	if err != nil {
		return err
	}
	expiry := s.now().Add(constants.TemporaryTokenExpiry)
	if _, err := s.users.Update(ctx, user.ID, bson.M{
		"forgotPasswordToken":  hashToken(token),
		"forgotPasswordExpiry": expiry,
	}); err != nil {
		return err
	}
	return s.mailer.SendPasswordReset(ctx, user, s.link("reset-password", token))
}

// ResetPassword also ends every session by clearing the refresh token.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := s.users.FindOne(ctx, bson.M{
		"forgotPasswordToken":  hashToken(token),
		"forgotPasswordExpiry": bson.M{"$gt": s.now()},
	})
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.BadRequest("Token is invalid or expired")
	}
	if err != nil {
		return err
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	_, err = s.users.Update(ctx, user.ID, bson.M{
		"password":             hash,
		"forgotPasswordToken":  "",
		"forgotPasswordExpiry": nil,
		"refreshToken":         "",
	})
	return err
}

func (s *AuthService) ChangePassword(ctx context.Context, userID primitive.ObjectID, oldPassword, newPassword string) error {
	user, err := s.userByID(ctx, userID)
	if err != nil {
		return err
	}
	if !VerifyPassword(oldPassword, user.Password) {
		return apperr.BadRequest("Invalid old password")
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	_, err = s.users.Update(ctx, user.ID, bson.M{"password": hash})
	return err
}

func (s *AuthService) AssignRole(ctx context.Context, userID primitive.ObjectID, role string) (*models.User, error) {
	if _, err := s.userByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.users.Update(ctx, userID, bson.M{"role": role})
}

func (s *AuthService) CurrentUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	return s.userByID(ctx, userID)
}

func (s *AuthService) GetUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	return s.userByID(ctx, userID)
}

func (s *AuthService) ListUsers(ctx context.Context, params map[string]string) (*models.Page[models.User], error) {
	return s.users.List(ctx, querybuilder.ForUsers(params))
}

// SetUserActive soft-(de)activates an account. Deactivation also ends the
// user's sessions; admins cannot deactivate themselves.
func (s *AuthService) SetUserActive(ctx context.Context, actorID, userID primitive.ObjectID, active bool) (*models.User, error) {
	if actorID == userID && !active {
		return nil, apperr.BadRequest("You cannot deactivate your own account")
	}
	if _, err := s.userByID(ctx, userID); err != nil {
		return nil, err
	}
	set := bson.M{"isActive": active}
	if !active {
		set["refreshToken"] = ""
	}
	return s.users.Update(ctx, userID, set)
}

// RequestOTP emails a six digit login code.
func (s *AuthService) RequestOTP(ctx context.Context, email string) error {
	user, err := s.userBy(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
	if err != nil {
		return err
	}
	if !user.IsActive {
		return apperr.Forbidden("Account is deactivated")
	}
	otp, err := generateOTP()
	if err != nil {
		return err
	}
	expiry := s.now().Add(constants.OTPExpiry)
	if _, err := s.users.Update(ctx, user.ID, bson.M{"otp": hashToken(otp), "otpExpiry": expiry}); err != nil {
		return err
	}
	return s.mailer.SendOTP(ctx, user, otp)
}

// VerifyOTP logs the user in. A correct code also proves the email address.
func (s *AuthService) VerifyOTP(ctx context.Context, email, otp string) (*dto.AuthResponse, error) {
	user, err := s.userBy(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
	if err != nil {
		return nil, err
	}
	if user.OTP == "" || user.OTP != hashToken(otp) || user.OTPExpiry == nil || !s.now().Before(*user.OTPExpiry) {
		return nil, apperr.BadRequest("Invalid or expired OTP")
	}
	if !user.IsActive {
		return nil, apperr.Forbidden("Account is deactivated")
	}
	user, err = s.users.Update(ctx, user.ID, bson.M{"otp": "", "otpExpiry": nil, "isEmailVerified": true})
	if err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, user)
}

// UpdateAvatar stores the new picture, then removes the previous one.
func (s *AuthService) UpdateAvatar(ctx context.Context, userID primitive.ObjectID, filename, contentType string, r io.Reader, size int64) (*models.User, error) {
	if s.avatars == nil {
		return nil, apperr.New(http.StatusServiceUnavailable, "Avatar uploads are disabled")
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, apperr.Validation("avatar must be an image")
	}
	user, err := s.userByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	key, url, err := s.avatars.Put(ctx, userID.Hex(), filename, contentType, r, size)
	if err != nil {
		return nil, err
	}
	updated, err := s.users.Update(ctx, userID, bson.M{"avatar": models.Avatar{URL: url, Key: key}})
	if err != nil {
		return nil, err
	}
	if err := s.avatars.Remove(ctx, user.Avatar.Key); err != nil {
		slog.Warn("failed to remove previous avatar", "user_id", userID.Hex(), "key", user.Avatar.Key, "error", err)
	}
	return updated, nil
}
