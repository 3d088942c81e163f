// Package seed loads deploy-time data: demo accounts, maker profiles and
// the weekly tiffin menu.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"home-flavours/models"
	"home-flavours/repository"
	"home-flavours/utils"

	"github.com/go-playground/validator/v10"
	"github.com/romana/rlog"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed data.yaml
var defaultData []byte

type Account struct {
	Username string          `yaml:"username" validate:"required"`
	Email    string          `yaml:"email" validate:"required,email"`
	Password string          `yaml:"password" validate:"required,min=6"`
	FullName string          `yaml:"full_name" validate:"required"`
	Phone    string          `yaml:"phone"`
	Address  string          `yaml:"address"`
	Role     models.UserRole `yaml:"role" validate:"required,oneof=customer tiffin_maker admin"`
}

type Maker struct {
	Username         string  `yaml:"username" validate:"required"`
	BusinessName     string  `yaml:"business_name" validate:"required"`
	Location         string  `yaml:"location" validate:"required"`
	CuisineSpecialty string  `yaml:"cuisine_specialty"`
	Rating           float64 `yaml:"rating" validate:"gte=0,lte=5"`
}

type MenuEntry struct {
	Name        string          `yaml:"name" json:"name" validate:"required"`
	Price       decimal.Decimal `yaml:"price" json:"price"`
	Description string          `yaml:"description" json:"description"`
	Icon        string          `yaml:"icon" json:"icon"`
}

type MenuDay struct {
	Day   string      `yaml:"day" json:"day" validate:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	Items []MenuEntry `yaml:"items" json:"items" validate:"required,min=1,dive"`
}

type Data struct {
	Accounts []Account `yaml:"accounts" validate:"dive"`
	Makers   []Maker   `yaml:"makers" validate:"dive"`
	Menu     []MenuDay `yaml:"menu" validate:"dive"`
}

// Load parses the seed file at path, or the embedded default when path
// is empty.
func Load(path string) (*Data, error) {
	raw := defaultData
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
		raw = b
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Data, error) {
	var data Data
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	if err := validator.New().Struct(&data); err != nil {
		return nil, fmt.Errorf("invalid seed: %w", err)
	}
	seen := map[string]bool{}
	for _, day := range data.Menu {
		if seen[day.Day] {
			return nil, fmt.Errorf("invalid seed: %s listed twice", day.Day)
		}
		seen[day.Day] = true
		for _, item := range day.Items {
			if !item.Price.IsPositive() {
				return nil, fmt.Errorf("invalid seed: %s/%s has non-positive price", day.Day, item.Name)
			}
		}
	}
	return &data, nil
}

// Apply creates every account and maker profile that does not exist yet.
// Existing rows are left untouched so it is safe to run on every start.
func Apply(ctx context.Context, store *repository.Store, data *Data) error {
	for _, acc := range data.Accounts {
		_, err := store.Users.FindByUsername(ctx, acc.Username)
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		hash, err := utils.HashPassword(acc.Password)
		if err != nil {
			return err
		}
		user := models.User{
			Username:     acc.Username,
			Email:        acc.Email,
			PasswordHash: hash,
			FullName:     acc.FullName,
			Phone:        acc.Phone,
			Address:      acc.Address,
			Role:         acc.Role,
		}
		if err := store.Users.Create(ctx, &user); err != nil {
			return fmt.Errorf("seed account %s: %w", acc.Username, err)
		}
		rlog.Infof("Seeded %s account %q", acc.Role, acc.Username)
	}

	for _, m := range data.Makers {
		user, err := store.Users.FindByUsername(ctx, m.Username)
		if err != nil {
			return fmt.Errorf("seed maker %s: %w", m.Username, err)
		}
		if user.Role != models.RoleTiffinMaker {
			return fmt.Errorf("seed maker %s: user has role %s", m.Username, user.Role)
		}
		_, err = store.TiffinMakers.FindByUserID(ctx, user.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		maker := models.TiffinMaker{
			UserID:           user.ID,
			BusinessName:     m.BusinessName,
			Location:         m.Location,
			CuisineSpecialty: m.CuisineSpecialty,
			Rating:           m.Rating,
			IsActive:         true,
		}
		if err := store.TiffinMakers.Create(ctx, &maker); err != nil {
			return fmt.Errorf("seed maker %s: %w", m.Username, err)
		}
		rlog.Infof("Seeded tiffin maker %q", m.BusinessName)
	}
	return nil
}
