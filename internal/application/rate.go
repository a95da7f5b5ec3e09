package application

import (
	"errors"
	"strings"

	"github.com/linskybing/scan2cad/internal/domain/rate"
	"github.com/linskybing/scan2cad/internal/repository"
	"gorm.io/gorm"
)

var ErrRateNotFound = errors.New("rate not found")

const defaultCurrency = "BRL"

type RateService struct {
	Repos *repository.Repos
}

func NewRateService(repos *repository.Repos) *RateService {
	return &RateService{Repos: repos}
}

func (s *RateService) List() ([]rate.Config, error) {
	return s.Repos.Rate.List()
}

func (s *RateService) Get(id uint) (rate.Config, error) {
	c, err := s.Repos.Rate.Get(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return rate.Config{}, ErrRateNotFound
	}
	return c, err
}

func (s *RateService) Active() (rate.Config, error) {
	c, err := s.Repos.Rate.GetActive()
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return rate.Config{}, rate.ErrNoActiveRate
	}
	return c, err
}

// Create stores a rate. Activating it deactivates every other rate.
func (s *RateService) Create(in rate.ConfigInput) (rate.Config, error) {
	c := rate.Config{
		Name:       strings.TrimSpace(in.Name),
		HourlyRate: in.HourlyRate,
		Currency:   currencyOrDefault(in.Currency),
		Active:     in.Active,
	}
	err := s.Repos.ExecTx(func(r *repository.Repos) error {
		if err := r.Rate.Create(&c); err != nil {
			return err
		}
		if c.Active {
			return r.Rate.DeactivateOthers(c.ID)
		}
		return nil
	})
	return c, err
}

func (s *RateService) Update(id uint, in rate.ConfigInput) (rate.Config, error) {
	var out rate.Config
	err := s.Repos.ExecTx(func(r *repository.Repos) error {
		c, err := r.Rate.Get(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRateNotFound
			}
			return err
		}
		c.Name = strings.TrimSpace(in.Name)
		c.HourlyRate = in.HourlyRate
		c.Currency = currencyOrDefault(in.Currency)
		c.Active = in.Active
		if err := r.Rate.Save(&c); err != nil {
			return err
		}
		if c.Active {
			if err := r.Rate.DeactivateOthers(c.ID); err != nil {
				return err
			}
		}
		out = c
		return nil
	})
	return out, err
}

func (s *RateService) Delete(id uint) error {
	err := s.Repos.Rate.Delete(id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrRateNotFound
	}
	return err
}

func currencyOrDefault(c string) string {
	c = strings.ToUpper(strings.TrimSpace(c))
	if c == "" {
		return defaultCurrency
	}
	return c
}
