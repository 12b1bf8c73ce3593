package services

import (
	"errors"

	"inkpress/internal/models"

	"gorm.io/gorm"
)

// Engagement actions accepted by Submit.
const (
	ActionLike    = "like"
	ActionDislike = "dislike"
	ActionShare   = "share"
)

// Counts is a post's aggregate engagement triple.
type Counts struct {
	Like    int `json:"like_count"`
	Dislike int `json:"dislike_count"`
	Share   int `json:"share_count"`
}

// reactionState is the like/dislike pair folded into its three reachable
// states. (true, true) has no representation here, so the transition code
// cannot produce it.
type reactionState int

const (
	reactionNeutral reactionState = iota
	reactionLiked
	reactionDisliked
)

func reactionOf(rec *models.Interaction) reactionState {
	switch {
	case rec.Like:
		return reactionLiked
	case rec.Dislike:
		return reactionDisliked
	default:
		return reactionNeutral
	}
}

type InteractionService struct {
	db *gorm.DB
}

func NewInteractionService(gdb *gorm.DB) *InteractionService {
	return &InteractionService{db: gdb}
}

// Submit applies action to the post on behalf of actor and returns the
// updated counters together with the persisted record.
//
// Like and dislike toggle: repeating the same action undoes it, and each
// clears the other. Share sets once and stays set. Counter deltas derive
// strictly from the record transition and are written in the same
// transaction as the record, so ledger and counters cannot drift apart.
func (s *InteractionService) Submit(postID uint, actor models.Actor, action string) (Counts, *models.Interaction, error) {
	if action != ActionLike && action != ActionDislike && action != ActionShare {
		return Counts{}, nil, ErrInvalidAction
	}

	var counts Counts
	var rec *models.Interaction

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Select("id").First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return storeErr(err)
		}

		var err error
		rec, _, err = getOrCreateInteraction(tx, postID, actor)
		if err != nil {
			return storeErr(err)
		}

		var dLike, dDislike, dShare int
		switch action {
		case ActionLike:
			switch reactionOf(rec) {
			case reactionNeutral:
				rec.Like = true
				dLike = 1
			case reactionLiked:
				rec.Like = false
				dLike = -1
			case reactionDisliked:
				rec.Like, rec.Dislike = true, false
				dLike, dDislike = 1, -1
			}
		case ActionDislike:
			switch reactionOf(rec) {
			case reactionNeutral:
				rec.Dislike = true
				dDislike = 1
			case reactionDisliked:
				rec.Dislike = false
				dDislike = -1
			case reactionLiked:
				rec.Dislike, rec.Like = true, false
				dDislike, dLike = 1, -1
			}
		case ActionShare:
			if !rec.Share {
				rec.Share = true
				dShare = 1
			}
		}

		if err := tx.Save(rec).Error; err != nil {
			return storeErr(err)
		}

		updates := map[string]interface{}{}
		if dLike != 0 {
			updates["like_count"] = gorm.Expr("like_count + ?", dLike)
		}
		if dDislike != 0 {
			updates["dislike_count"] = gorm.Expr("dislike_count + ?", dDislike)
		}
		if dShare != 0 {
			updates["share_count"] = gorm.Expr("share_count + ?", dShare)
		}
		if len(updates) > 0 {
			if err := tx.Model(&models.Post{}).Where("id = ?", postID).UpdateColumns(updates).Error; err != nil {
				return storeErr(err)
			}
		}

		var fresh models.Post
		if err := tx.Select("like_count, dislike_count, share_count").First(&fresh, postID).Error; err != nil {
			return storeErr(err)
		}
		counts = Counts{Like: fresh.LikeCount, Dislike: fresh.DislikeCount, Share: fresh.ShareCount}
		return nil
	})
	if err != nil {
		return Counts{}, nil, err
	}
	return counts, rec, nil
}

// getOrCreateInteraction returns the one ledger row for (post, actor),
// creating it lazily on first use. The insert runs in a savepoint so a
// duplicate-key rejection from a racing caller leaves the outer transaction
// usable; the loser re-reads the winning row.
func getOrCreateInteraction(tx *gorm.DB, postID uint, actor models.Actor) (*models.Interaction, bool, error) {
	var rec models.Interaction
	err := tx.Where("post_id = ? AND actor_type = ? AND actor_key = ?", postID, actor.Kind, actor.Key).
		First(&rec).Error
	if err == nil {
		return &rec, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	rec = models.Interaction{PostID: postID, ActorType: actor.Kind, ActorKey: actor.Key}
	err = tx.Transaction(func(inner *gorm.DB) error {
		return inner.Create(&rec).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err := tx.Where("post_id = ? AND actor_type = ? AND actor_key = ?", postID, actor.Kind, actor.Key).
				First(&rec).Error; err != nil {
				return nil, false, err
			}
			return &rec, false, nil
		}
		return nil, false, err
	}
	return &rec, true, nil
}

// RecountPost rebuilds the post's counters from a full ledger scan. The
// counters are a derived cache; this is the repair path, not a read path.
func RecountPost(tx *gorm.DB, postID uint) error {
	var like, dislike, share int64
	if err := tx.Model(&models.Interaction{}).Where("post_id = ? AND \"like\" = ?", postID, true).Count(&like).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.Interaction{}).Where("post_id = ? AND dislike = ?", postID, true).Count(&dislike).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.Interaction{}).Where("post_id = ? AND share = ?", postID, true).Count(&share).Error; err != nil {
		return err
	}
	return tx.Model(&models.Post{}).Where("id = ?", postID).UpdateColumns(map[string]interface{}{
		"like_count":    like,
		"dislike_count": dislike,
		"share_count":   share,
	}).Error
}

// CountsFor reads the current counter triple for a post.
func (s *InteractionService) CountsFor(postID uint) (Counts, error) {
	var post models.Post
	if err := s.db.Select("like_count, dislike_count, share_count").First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Counts{}, ErrPostNotFound
		}
		return Counts{}, storeErr(err)
	}
	return Counts{Like: post.LikeCount, Dislike: post.DislikeCount, Share: post.ShareCount}, nil
}
