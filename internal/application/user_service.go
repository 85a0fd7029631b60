package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Jayasawar1325/backend-series/internal/domain/entity"
	repo "github.com/Jayasawar1325/backend-series/internal/domain/repository"
	"github.com/Jayasawar1325/backend-series/pkg/helpers"
	"github.com/Jayasawar1325/backend-series/pkg/mailer"
)

// emailRe matches the local@domain.tld shape; anything fancier is the mail
// provider's problem.
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Service orchestrates the session lifecycle: registration, login, token
// rotation, logout, and profile mutations. All durable state lives in the
// repository; the service itself holds no cross-request state.
type Service struct {
	Repo            repo.UserRepository
	JWT             *helpers.JWTManager
	Media           helpers.MediaStore
	Logger          *logrus.Logger
	Mail            *helpers.RabbitPublisher
	ES              *elasticsearch.Client
	ESChannelsIndex string
}

func NewService(r repo.UserRepository, jwt *helpers.JWTManager, media helpers.MediaStore, logger *logrus.Logger, mail *helpers.RabbitPublisher, es *elasticsearch.Client, esIndex string) *Service {
	return &Service{
		Repo:            r,
		JWT:             jwt,
		Media:           media,
		Logger:          logger,
		Mail:            mail,
		ES:              es,
		ESChannelsIndex: esIndex,
	}
}

// TokenPair is one issued session: a short-lived access token and the
// refresh token currently mirrored on the user row.
type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

// Upload is an incoming asset to push to the media store.
type Upload struct {
	Filename    string
	ContentType string
	Reader      io.Reader
}

type RegisterInput struct {
	FullName string
	Username string
	Email    string
	Password string
	Avatar   *Upload
	Cover    *Upload
}

// Register validates input, stores the avatar (and optional cover image) on
// the media host, creates the user, and returns the sanitized record re-read
// from the store.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	if in.FullName == "" || in.Username == "" || in.Email == "" || strings.TrimSpace(in.Password) == "" {
		return nil, fmt.Errorf("%w: all fields are required", ErrValidation)
	}
	if !emailRe.MatchString(strings.ToLower(in.Email)) {
		return nil, fmt.Errorf("%w: invalid email format", ErrValidation)
	}
	if in.Avatar == nil {
		return nil, fmt.Errorf("%w: avatar is required", ErrValidation)
	}

	exists, err := s.Repo.ExistsByEmailOrUsername(in.Email, in.Username)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if exists {
		return nil, fmt.Errorf("%w: user with email or username already exists", ErrConflict)
	}

	avatarURL, err := s.uploadImage(ctx, "avatars", in.Avatar)
	if err != nil {
		return nil, fmt.Errorf("%w: avatar upload failed: %v", ErrInternal, err)
	}
	coverURL := ""
	if in.Cover != nil {
		coverURL, err = s.uploadImage(ctx, "covers", in.Cover)
		if err != nil {
			return nil, fmt.Errorf("%w: cover image upload failed: %v", ErrInternal, err)
		}
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	u := &entity.User{
		Username:      strings.ToLower(in.Username),
		Email:         strings.ToLower(in.Email),
		FullName:      in.FullName,
		PasswordHash:  hash,
		AvatarURL:     avatarURL,
		CoverImageURL: coverURL,
	}
	if err := s.Repo.Create(u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, fmt.Errorf("%w: user with email or username already exists", ErrConflict)
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// Re-read: the projection handed back must come from the store, with
	// the password hash and refresh token never leaving this package.
	created, err := s.Repo.GetByID(u.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: user not found after create", ErrInternal)
	}

	s.indexChannel(ctx, created)
	s.sendWelcomeEmail(ctx, created)

	return created, nil
}

type LoginInput struct {
	Username string
	Email    string
	Password string
}

// Login verifies credentials and issues a fresh token pair, persisting the
// refresh token on the user row. Lookup is canonical by email.
func (s *Service) Login(ctx context.Context, in LoginInput) (*entity.User, TokenPair, error) {
	if strings.TrimSpace(in.Email) == "" && strings.TrimSpace(in.Username) == "" {
		return nil, TokenPair{}, fmt.Errorf("%w: username or email is required", ErrValidation)
	}
	u, err := s.Repo.GetByEmail(strings.TrimSpace(in.Email))
	if err != nil {
		return nil, TokenPair{}, fmt.Errorf("%w: user does not exist", ErrNotFound)
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, in.Password) {
		return nil, TokenPair{}, fmt.Errorf("%w: invalid user credentials", ErrUnauthorized)
	}

	pair, err := s.issuePair(u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	if err := s.Repo.SetRefreshToken(u.ID, &pair.RefreshToken); err != nil {
		return nil, TokenPair{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return u, pair, nil
}

// Refresh rotates a token pair. The presented refresh token must verify
// against the refresh secret and must still be the one stored on the user
// row; the compare-and-set in the repository guarantees that of two
// concurrent rotations with the same token at most one wins.
func (s *Service) Refresh(ctx context.Context, presented string) (*entity.User, TokenPair, error) {
	if presented == "" {
		return nil, TokenPair{}, fmt.Errorf("%w: missing refresh token", ErrUnauthorized)
	}
	claims, err := s.JWT.ParseRefreshToken(presented)
	if err != nil {
		// Expired and forged tokens are indistinguishable to the caller.
		return nil, TokenPair{}, fmt.Errorf("%w: invalid refresh token", ErrUnauthorized)
	}
	u, err := s.Repo.GetByID(claims.UserID)
	if err != nil {
		return nil, TokenPair{}, fmt.Errorf("%w: invalid refresh token", ErrUnauthorized)
	}

	pair, err := s.issuePair(u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	ok, err := s.Repo.RotateRefreshToken(u.ID, presented, pair.RefreshToken)
	if err != nil {
		return nil, TokenPair{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if !ok {
		// Already rotated out or cleared by logout: replay.
		return nil, TokenPair{}, fmt.Errorf("%w: refresh token is expired or used", ErrUnauthorized)
	}
	return u, pair, nil
}

// Logout clears the stored refresh token. A still-unexpired access token
// keeps verifying until it runs out; there is no revocation list.
func (s *Service) Logout(ctx context.Context, userID string) error {
	if err := s.Repo.SetRefreshToken(userID, nil); err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return nil
}

// ChangePassword re-hashes and persists the new credential. Existing tokens
// stay valid.
func (s *Service) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if strings.TrimSpace(newPassword) == "" {
		return fmt.Errorf("%w: new password is required", ErrValidation)
	}
	u, err := s.Repo.GetByID(userID)
	if err != nil {
		return fmt.Errorf("%w: user not found", ErrNotFound)
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, oldPassword) {
		return fmt.Errorf("%w: invalid old password", ErrUnauthorized)
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if err := s.Repo.UpdatePassword(userID, hash); err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return nil
}

type UpdateAccountInput struct {
	FullName string
	Email    string
}

// UpdateAccount mutates display name and/or email.
func (s *Service) UpdateAccount(ctx context.Context, userID string, in UpdateAccountInput) (*entity.User, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	if in.FullName == "" && in.Email == "" {
		return nil, fmt.Errorf("%w: at least one field is required", ErrValidation)
	}
	u, err := s.Repo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: user not found", ErrNotFound)
	}
	if in.FullName != "" {
		u.FullName = in.FullName
	}
	if in.Email != "" {
		if !emailRe.MatchString(strings.ToLower(in.Email)) {
			return nil, fmt.Errorf("%w: invalid email format", ErrValidation)
		}
		u.Email = strings.ToLower(in.Email)
	}
	if err := s.Repo.Update(u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, fmt.Errorf("%w: email already in use", ErrConflict)
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	s.indexChannel(ctx, u)
	return u, nil
}

// UpdateAvatar uploads the replacement asset, persists its URL, and deletes
// the previous asset best-effort.
func (s *Service) UpdateAvatar(ctx context.Context, userID string, up *Upload) (*entity.User, error) {
	if up == nil {
		return nil, fmt.Errorf("%w: avatar file is required", ErrValidation)
	}
	u, err := s.Repo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: user not found", ErrNotFound)
	}
	url, err := s.uploadImage(ctx, "avatars", up)
	if err != nil {
		return nil, fmt.Errorf("%w: avatar upload failed: %v", ErrInternal, err)
	}
	old := u.AvatarURL
	u.AvatarURL = url
	if err := s.Repo.Update(u); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if old != "" {
		if derr := s.Media.Delete(ctx, old); derr != nil && s.Logger != nil {
			s.Logger.WithError(derr).WithField("url", old).Warn("old avatar delete failed")
		}
	}
	s.indexChannel(ctx, u)
	return u, nil
}

// UpdateCoverImage uploads and persists a new cover image URL.
func (s *Service) UpdateCoverImage(ctx context.Context, userID string, up *Upload) (*entity.User, error) {
	if up == nil {
		return nil, fmt.Errorf("%w: cover image file is required", ErrValidation)
	}
	u, err := s.Repo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: user not found", ErrNotFound)
	}
	url, err := s.uploadImage(ctx, "covers", up)
	if err != nil {
		return nil, fmt.Errorf("%w: cover image upload failed: %v", ErrInternal, err)
	}
	u.CoverImageURL = url
	if err := s.Repo.Update(u); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return u, nil
}

func (s *Service) issuePair(u *entity.User) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, u.Email, u.FullName, u.Username)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		}
		return TokenPair{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate refresh token failed")
		}
		return TokenPair{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func (s *Service) uploadImage(ctx context.Context, kind string, up *Upload) (string, error) {
	if s.Media == nil {
		return "", fmt.Errorf("media store not configured")
	}
	ext := strings.ToLower(filepath.Ext(up.Filename))
	objectPath := kind + "/" + uuid.NewString() + ext
	return s.Media.Upload(ctx, objectPath, up.ContentType, up.Reader)
}

// indexChannel mirrors the public channel fields into Elasticsearch so the
// search endpoint can find them. Failures are logged and swallowed.
func (s *Service) indexChannel(ctx context.Context, u *entity.User) {
	if s.ES == nil || s.ESChannelsIndex == "" {
		return
	}
	doc := map[string]any{
		"id":        u.ID,
		"username":  u.Username,
		"fullName":  u.FullName,
		"avatarUrl": u.AvatarURL,
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESChannelsIndex, DocumentID: u.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
	}
}

// sendWelcomeEmail enqueues a welcome mail; the worker picks it up. Queue
// failures never fail the registration.
func (s *Service) sendWelcomeEmail(ctx context.Context, u *entity.User) {
	if s.Mail == nil {
		return
	}
	job := mailer.EmailJob{
		To:      u.Email,
		Subject: "Welcome to VideoTube",
		Text:    fmt.Sprintf("Hi %s, your account @%s is ready.", u.FullName, u.Username),
	}
	if err := s.Mail.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("welcome email enqueue failed")
	}
}
