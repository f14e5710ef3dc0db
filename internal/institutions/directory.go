// Package institutions is the directory of issuing organizations: account
// sign-up records and the institution profiles resolved during issuance.
package institutions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"gorm.io/gorm"

	"certledger/internal/models"
)

var (
	ErrNotFound   = errors.New("institution not found")
	ErrEmailTaken = errors.New("email is already registered")
)

// Names closer than this Jaro-Winkler similarity to an existing institution
// are treated as duplicates at registration.
const duplicateNameThreshold = 0.95

type Directory struct {
	db *gorm.DB
}

func NewDirectory(gdb *gorm.DB) *Directory {
	return &Directory{db: gdb}
}

// FindByUserID resolves the institution profile for an authenticated
// account id.
func (d *Directory) FindByUserID(ctx context.Context, userID string) (*models.Institution, error) {
	var inst models.Institution
	err := d.db.WithContext(ctx).Where("user_id = ?", userID).First(&inst).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	} else if err != nil {
		return nil, fmt.Errorf("lookup institution: %w", err)
	}
	return &inst, nil
}

// FindAccountByEmail returns the login account for an email address.
func (d *Directory) FindAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	var acc models.Account
	err := d.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&acc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	return &acc, nil
}

// Create stores a new account and its institution profile in one
// transaction.
func (d *Directory) Create(ctx context.Context, acc *models.Account, inst *models.Institution) error {
	acc.Email = strings.ToLower(acc.Email)

	var existing models.Account
	err := d.db.WithContext(ctx).Where("email = ?", acc.Email).First(&existing).Error
	if err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check email: %w", err)
	}

	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(acc).Error; err != nil {
			return translateAccountErr(err)
		}
		inst.UserID = acc.ID
		if err := tx.Create(inst).Error; err != nil {
			return fmt.Errorf("create institution: %w", err)
		}
		return nil
	})
}

// translateAccountErr maps unique-index violations raised by concurrent
// registrations to ErrEmailTaken; the pre-check in Create cannot see a
// competing transaction.
func translateAccountErr(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrEmailTaken
	}
	return fmt.Errorf("create account: %w", err)
}

// SimilarName reports the registered institution name closest to name and
// its Jaro-Winkler similarity, and whether it is close enough to count as a
// duplicate.
func (d *Directory) SimilarName(ctx context.Context, name string) (string, float64, bool, error) {
	var names []string
	if err := d.db.WithContext(ctx).Model(&models.Institution{}).Pluck("name", &names).Error; err != nil {
		return "", 0, false, fmt.Errorf("list institution names: %w", err)
	}

	metric := metrics.NewJaroWinkler()
	best, bestConf := "", 0.0
	for _, n := range names {
		conf := strutil.Similarity(strings.ToLower(strings.TrimSpace(name)), strings.ToLower(strings.TrimSpace(n)), metric)
		if conf > bestConf {
			best, bestConf = n, conf
		}
	}
	return best, bestConf, bestConf >= duplicateNameThreshold, nil
}
