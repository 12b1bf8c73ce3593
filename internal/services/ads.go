package services

import (
	"inkpress/internal/models"

	"gorm.io/gorm"
)

// AdService keeps raw impression/click tallies for placed ad units.
// Revenue accounting happens downstream, not here.
type AdService struct {
	db *gorm.DB
}

func NewAdService(gdb *gorm.DB) *AdService {
	return &AdService{db: gdb}
}

func (s *AdService) ListActive() ([]models.AdUnit, error) {
	var units []models.AdUnit
	if err := s.db.Where("is_active = ?", true).Order("position ASC, id ASC").Find(&units).Error; err != nil {
		return nil, storeErr(err)
	}
	return units, nil
}

func (s *AdService) RecordImpression(id uint) error {
	return s.bump(id, "impressions")
}

func (s *AdService) RecordClick(id uint) error {
	return s.bump(id, "clicks")
}

func (s *AdService) bump(id uint, column string) error {
	res := s.db.Model(&models.AdUnit{}).Where("id = ? AND is_active = ?", id, true).
		UpdateColumn(column, gorm.Expr(column+" + 1"))
	if res.Error != nil {
		return storeErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrAdUnitNotFound
	}
	return nil
}
