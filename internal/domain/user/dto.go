package user

type RegisterInput struct {
	Email    string `json:"email" form:"email" binding:"required,email" example:"user@example.com"`
	Password string `json:"password" form:"password" binding:"required,min=8" example:"password123"`
	Name     string `json:"name" form:"name" binding:"required,max=100" example:"Jane Doe"`
	Company  string `json:"company" form:"company" binding:"omitempty,max=100" example:"Acme Scanning"`
}

type LoginInput struct {
	Email    string `json:"email" form:"email" binding:"required,email" example:"user@example.com"`
	Password string `json:"password" form:"password" binding:"required" example:"password123"`
}

type VerifyEmailInput struct {
	Token string `json:"token" form:"token" binding:"required"`
}

type ForgotPasswordInput struct {
	Email string `json:"email" form:"email" binding:"required,email" example:"user@example.com"`
}

type ResetPasswordInput struct {
	Token       string `json:"token" form:"token" binding:"required"`
	NewPassword string `json:"newPassword" form:"newPassword" binding:"required,min=8" example:"newPass123"`
}

type GrantHoursInput struct {
	Hours float64 `json:"hours" binding:"required" example:"10"`
}

type HoursDTO struct {
	UserID         uint    `json:"userId" example:"12"`
	AvailableHours float64 `json:"availableHours" example:"7.5"`
}

type UserDTO struct {
	ID             uint    `json:"id" example:"12"`
	Email          string  `json:"email" example:"user@example.com"`
	Name           string  `json:"name" example:"Jane Doe"`
	Company        string  `json:"company,omitempty" example:"Acme Scanning"`
	Role           Role    `json:"role" example:"user"`
	Verified       bool    `json:"verified" example:"true"`
	AvailableHours float64 `json:"availableHours" example:"7.5"`
}

type LoginResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}
