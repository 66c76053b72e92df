package models

// MemberGrade is the loyalty tier attached to a user profile. The backend's
// totals stay authoritative; the grade's discount is display-only.
type MemberGrade string

const (
	GradeBasic  MemberGrade = "BASIC"
	GradeSilver MemberGrade = "SILVER"
	GradeGold   MemberGrade = "GOLD"
)

// UserProfile is the /api/auth/me record.
type UserProfile struct {
	ID              int64       `json:"id"`
	Email           string      `json:"email"`
	Name            string      `json:"name"`
	Address         string      `json:"address,omitempty"`
	Phone           string      `json:"phone,omitempty"`
	Grade           MemberGrade `json:"grade,omitempty"`
	DiscountPercent int         `json:"discountPercent,omitempty"`
	Role            string      `json:"role,omitempty"`
}

// RegisterRequest creates a new customer account.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
}

// LoginRequest authenticates an existing account.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenPair is the unwrapped token response the auth endpoints return.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// RefreshRequest exchanges a refresh token for a new token pair.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}
