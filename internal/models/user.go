// internal/models/user.go
package models

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrOTPInvalid = errors.New("invalid OTP")
	ErrOTPExpired = errors.New("OTP has expired")
)

type User struct {
	BaseModel
	Name             string     `json:"name" gorm:"size:100"`
	Username         string     `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email            string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Mobile           string     `json:"mobile" gorm:"uniqueIndex;size:15;not null"`
	PasswordHash     string     `json:"-" gorm:"size:255;not null"`
	Avatar           string     `json:"avatar" gorm:"size:500"`
	Gender           string     `json:"gender" gorm:"size:20"`
	Occupation       string     `json:"occupation" gorm:"size:100"`
	AboutMe          string     `json:"about_me" gorm:"type:text"`
	GSTNumber        string     `json:"gst_number,omitempty" gorm:"size:20"`
	IsVerified       bool       `json:"is_verified" gorm:"default:false;index"`
	OTPHash          string     `json:"-" gorm:"size:255"`
	OTPExpiresAt     *time.Time `json:"-"`
	RefreshTokenHash string     `json:"-" gorm:"size:255"`
	HolidayMode      bool       `json:"holiday_mode" gorm:"default:false"`
	IsOnline         bool       `json:"is_online" gorm:"default:false"`
	LastActive       *time.Time `json:"last_active"`
	LastLoginAt      *time.Time `json:"last_login_at"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

// SetOTP stores a hash of the one-time code and when it stops being valid.
func (u *User) SetOTP(code string, expiresAt time.Time) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.OTPHash = string(hashed)
	u.OTPExpiresAt = &expiresAt
	return nil
}

func (u *User) VerifyOTP(code string, now time.Time) error {
	if u.OTPHash == "" || u.OTPExpiresAt == nil {
		return ErrOTPInvalid
	}
	if now.After(*u.OTPExpiresAt) {
		return ErrOTPExpired
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.OTPHash), []byte(code)); err != nil {
		return ErrOTPInvalid
	}
	return nil
}

func (u *User) ClearOTP() {
	u.OTPHash = ""
	u.OTPExpiresAt = nil
}

// UserSummary is the public slice of a user shown next to products, bargains and comments.
type UserSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:       u.ID.String(),
		Name:     u.Name,
		Username: u.Username,
		Avatar:   u.Avatar,
	}
}
