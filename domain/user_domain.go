package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

var (
	MessageSuccessRegister          = "user registered successfully"
	MessageSuccessLogin             = "login successful"
	MessageSuccessMe                = "user profile retrieved successfully"
	MessageSuccessUpdateUser        = "user updated successfully"
	MessageSuccessSendVerifyEmail   = "verification email sent"
	MessageSuccessVerifyEmail       = "email verified successfully"
	MessageSuccessForgotPassword    = "password reset email sent"
	MessageSuccessResetPassword     = "password reset successfully"

	MessageFailedRegister        = "failed to register user"
	MessageFailedLogin           = "failed to login"
	MessageFailedMe              = "failed to retrieve user profile"
	MessageFailedUpdateUser      = "failed to update user"
	MessageFailedSendVerifyEmail = "failed to send verification email"
	MessageFailedVerifyEmail     = "failed to verify email"
	MessageFailedForgotPassword  = "failed to send password reset email"
	MessageFailedResetPassword   = "failed to reset password"

	ErrEmailAlreadyExists  = errors.New("email already registered")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrEmailNotVerified    = errors.New("email not verified")
	ErrEmailAlreadyVerified = errors.New("email already verified")
)

type (
	RegisterRequest struct {
		Name     string `json:"name" validate:"required,min=2"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	}

	RegisterResponse struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Tier  string `json:"tier"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
		Role  string `json:"role"`
		Tier  string `json:"tier"`
	}

	UpdateUserRequest struct {
		Name  string                `json:"name" form:"name" validate:"omitempty,min=2"`
		Image *multipart.FileHeader `json:"-" form:"-" validate:"omitempty"`
	}

	SendVerifyEmailRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	ForgotPasswordRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	ResetPasswordRequest struct {
		Token       string `json:"token" validate:"required"`
		NewPassword string `json:"new_password" validate:"required,min=8"`
	}

	UserResponse struct {
		ID         string     `json:"id"`
		Name       string     `json:"name"`
		Email      string     `json:"email"`
		Tier       string     `json:"tier"`
		ProExpires *time.Time `json:"pro_expires,omitempty"`
		IsVerified bool       `json:"is_verified"`
		ImageURL   string     `json:"image_url,omitempty"`
	}
)
