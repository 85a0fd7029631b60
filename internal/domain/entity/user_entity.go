package entity

import (
	"time"
)

// User is the aggregate root for the account domain. PasswordHash holds a
// bcrypt hash, never plaintext. RefreshToken mirrors the single currently
// valid refresh token; nil means no live session.
type User struct {
	ID            string
	Username      string
	Email         string
	FullName      string
	PasswordHash  string
	AvatarURL     string
	CoverImageURL string
	RefreshToken  *string
	WatchHistory  []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// View is the sanitized projection returned to clients. It never carries the
// password hash or the refresh token.
type View struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FullName      string    `json:"fullName"`
	AvatarURL     string    `json:"avatarUrl"`
	CoverImageURL string    `json:"coverImageUrl,omitempty"`
	WatchHistory  []string  `json:"watchHistory,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (u *User) View() View {
	return View{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		FullName:      u.FullName,
		AvatarURL:     u.AvatarURL,
		CoverImageURL: u.CoverImageURL,
		WatchHistory:  u.WatchHistory,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}
