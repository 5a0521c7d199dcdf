package model

import "github.com/golang-jwt/jwt/v5"

// SessionClaims are the JWT claims carried by a user session token
type SessionClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// RegisterRequest is the request body for account registration
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

// LoginRequest is the request body for login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned after successful registration or login
type AuthResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
	Email  string `json:"email"`
}
