package user

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID                uint       `gorm:"primaryKey;autoIncrement"`
	Email             string     `gorm:"size:255;uniqueIndex;not null"`
	Name              string     `gorm:"size:100;not null"`
	Company           string     `gorm:"size:100"`
	Password          string     `gorm:"not null"`
	Role              Role       `gorm:"size:10;not null;default:user"`
	Verified          bool       `gorm:"not null;default:false"`
	VerificationToken string     `gorm:"size:64;index"`
	ResetToken        string     `gorm:"size:64;index"`
	ResetExpiresAt    *time.Time
	AvailableHours    float64    `gorm:"not null;default:0"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u User) DTO() UserDTO {
	return UserDTO{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		Company:        u.Company,
		Role:           u.Role,
		Verified:       u.Verified,
		AvailableHours: u.AvailableHours,
	}
}
