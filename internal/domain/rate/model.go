package rate

import (
	"errors"
	"math"
	"time"
)

var ErrNoActiveRate = errors.New("no active hourly rate configured")

// Config is an hourly price used to sell credit hours.
type Config struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	HourlyRate float64   `gorm:"not null" json:"hourlyRate"`
	Currency   string    `gorm:"size:3;not null;default:BRL" json:"currency"`
	Active     bool      `gorm:"not null;default:false;index" json:"active"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (Config) TableName() string { return "rate_configs" }

// Price returns the cost of hours at this rate, rounded to cents.
func (c Config) Price(hours float64) float64 {
	return math.Round(hours*c.HourlyRate*100) / 100
}

type ConfigInput struct {
	Name       string  `json:"name" binding:"required,max=100"`
	HourlyRate float64 `json:"hourlyRate" binding:"required,gt=0"`
	Currency   string  `json:"currency" binding:"omitempty,len=3"`
	Active     bool    `json:"active"`
}
