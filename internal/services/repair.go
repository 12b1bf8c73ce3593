package services

import (
	"inkpress/internal/models"

	"gorm.io/gorm"
)

// DuplicateGroup is one (post, actor) key that owns more than one ledger row.
// Earlier schema revisions keyed uniqueness differently, so legacy data can
// hold strays that must be reconciled before the unique index is trustworthy.
type DuplicateGroup struct {
	PostID    uint             `json:"post_id"`
	ActorType models.ActorKind `json:"actor_type"`
	ActorKey  string           `json:"actor_key"`
	Count     int64            `json:"count"`
}

// FindDuplicates scans the whole ledger and reports every (post, actor) key
// with more than one row.
func (s *InteractionService) FindDuplicates() ([]DuplicateGroup, error) {
	var groups []DuplicateGroup
	err := s.db.Model(&models.Interaction{}).
		Select("post_id, actor_type, actor_key, COUNT(*) as count").
		Group("post_id, actor_type, actor_key").
		Having("COUNT(*) > 1").
		Scan(&groups).Error
	if err != nil {
		return nil, storeErr(err)
	}
	return groups, nil
}

// Repair deletes every duplicate ledger row, keeping the oldest per (post,
// actor) key, then rebuilds the counters of each affected post. Safe to
// re-run; a clean ledger is a no-op.
func (s *InteractionService) Repair() (groups int, removed int64, err error) {
	dups, err := s.FindDuplicates()
	if err != nil {
		return 0, 0, err
	}
	if len(dups) == 0 {
		return 0, 0, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		touched := map[uint]struct{}{}
		for _, g := range dups {
			var rows []models.Interaction
			if err := tx.Where("post_id = ? AND actor_type = ? AND actor_key = ?", g.PostID, g.ActorType, g.ActorKey).
				Order("created_at ASC, id ASC").
				Find(&rows).Error; err != nil {
				return err
			}
			if len(rows) < 2 {
				continue
			}
			ids := make([]uint, 0, len(rows)-1)
			for _, r := range rows[1:] {
				ids = append(ids, r.ID)
			}
			res := tx.Delete(&models.Interaction{}, ids)
			if res.Error != nil {
				return res.Error
			}
			removed += res.RowsAffected
			touched[g.PostID] = struct{}{}
		}
		for postID := range touched {
			if err := RecountPost(tx, postID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, 0, storeErr(err)
	}
	return len(dups), removed, nil
}
