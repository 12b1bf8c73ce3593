package services

import (
	"errors"
	"math"
	"time"

	"inkpress/internal/models"

	"gorm.io/gorm"
)

type PostService struct {
	db *gorm.DB
}

func NewPostService(gdb *gorm.DB) *PostService {
	return &PostService{db: gdb}
}

type PostInput struct {
	Title           string     `json:"title" binding:"required,max=255"`
	Subtitle        string     `json:"subtitle" binding:"max=255"`
	Slug            string     `json:"slug"`
	Body            string     `json:"body"`
	MetaDescription string     `json:"meta_description" binding:"max=150"`
	Published       bool       `json:"published"`
	PublishDate     *time.Time `json:"publish_date"`
	Tags            []string   `json:"tags"`
}

// Create persists a new post with zero counters, allocating a slug from the
// title when none is supplied. Two concurrent creations with the same title
// can compute the same first free slug; the unique index rejects the loser
// and the whole create retries with a fresh allocation.
func (s *PostService) Create(authorID uint, in PostInput) (*models.Post, error) {
	if in.Title == "" {
		return nil, ErrTitleRequired
	}

	for {
		post, err := s.tryCreate(authorID, in)
		if err == nil {
			return post, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			var count int64
			if cerr := s.db.Model(&models.Post{}).Where("title = ?", in.Title).Count(&count).Error; cerr != nil {
				return nil, storeErr(cerr)
			}
			if count > 0 {
				return nil, ErrTitleTaken
			}
			if in.Slug != "" {
				return nil, ErrSlugTaken
			}
			continue // lost the slug race, allocate again
		}
		return nil, err
	}
}

func (s *PostService) tryCreate(authorID uint, in PostInput) (*models.Post, error) {
	var post *models.Post
	err := s.db.Transaction(func(tx *gorm.DB) error {
		slug := in.Slug
		if slug == "" {
			var err error
			slug, err = AllocateSlug(tx, in.Title)
			if err != nil {
				return err
			}
		}

		tags, err := resolveTags(tx, in.Tags)
		if err != nil {
			return err
		}

		post = &models.Post{
			Title:           in.Title,
			Subtitle:        in.Subtitle,
			Slug:            slug,
			Body:            in.Body,
			MetaDescription: in.MetaDescription,
			Published:       in.Published,
			PublishDate:     in.PublishDate,
			AuthorID:        authorID,
			Tags:            tags,
		}
		return tx.Create(post).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		return nil, storeErr(err)
	}
	return post, nil
}

func resolveTags(tx *gorm.DB, names []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		var tag models.Tag
		if err := tx.Where(models.Tag{Name: name}).FirstOrCreate(&tag).Error; err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// Update edits the post's content and metadata. The slug is fixed at
// creation and never recomputed, so published URLs stay stable.
func (s *PostService) Update(id uint, in PostInput) (*models.Post, error) {
	if in.Title == "" {
		return nil, ErrTitleRequired
	}

	var post models.Post
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return storeErr(err)
		}

		post.Title = in.Title
		post.Subtitle = in.Subtitle
		post.Body = in.Body
		post.MetaDescription = in.MetaDescription
		post.Published = in.Published
		post.PublishDate = in.PublishDate

		if in.Tags != nil {
			tags, err := resolveTags(tx, in.Tags)
			if err != nil {
				return storeErr(err)
			}
			if err := tx.Model(&post).Association("Tags").Replace(tags); err != nil {
				return storeErr(err)
			}
		}

		if err := tx.Save(&post).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrTitleTaken
			}
			return storeErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Delete removes the post and every interaction that references it in one
// transaction. The ledger rows go first so no orphan can survive a partial
// failure.
func (s *PostService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return storeErr(err)
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Interaction{}).Error; err != nil {
			return storeErr(err)
		}
		if err := tx.Model(&post).Association("Tags").Clear(); err != nil {
			return storeErr(err)
		}
		if err := tx.Delete(&post).Error; err != nil {
			return storeErr(err)
		}
		return nil
	})
}

func (s *PostService) GetByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := s.db.Preload("Author").Preload("Tags").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, storeErr(err)
	}
	return &post, nil
}

func (s *PostService) GetBySlug(slug string) (*models.Post, error) {
	var post models.Post
	if err := s.db.Preload("Author").Preload("Tags").Where("slug = ?", slug).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, storeErr(err)
	}
	return &post, nil
}

// listOrder sorts newest published first. Posts without a publish date
// (drafts, or legacy rows) sort after every dated post, by explicit NULLS
// LAST rather than whatever the store happens to do.
const listOrder = "posts.publish_date DESC NULLS LAST, posts.id DESC"

// List returns one page of posts in reverse chronological order along with
// the total row and page counts. A page past the end yields an empty slice
// with the totals intact.
func (s *PostService) List(page, pageSize int) ([]models.Post, int64, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	var total int64
	if err := s.db.Model(&models.Post{}).Count(&total).Error; err != nil {
		return nil, 0, 0, storeErr(err)
	}
	totalPages := int(math.Ceil(float64(total) / float64(pageSize)))

	var posts []models.Post
	err := s.db.Preload("Author").Preload("Tags").
		Order(listOrder).
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&posts).Error
	if err != nil {
		return nil, 0, 0, storeErr(err)
	}
	return posts, total, totalPages, nil
}

// ListByTag returns every post carrying the named tag, case-insensitive.
func (s *PostService) ListByTag(tag string) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.Preload("Author").Preload("Tags").
		Joins("JOIN post_tags ON post_tags.post_id = posts.id").
		Joins("JOIN tags ON tags.id = post_tags.tag_id").
		Where("LOWER(tags.name) = LOWER(?)", tag).
		Order(listOrder).
		Find(&posts).Error
	if err != nil {
		return nil, storeErr(err)
	}
	return posts, nil
}

// ListByAuthor returns every post written by the named user.
func (s *PostService) ListByAuthor(username string) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.Preload("Author").Preload("Tags").
		Joins("JOIN users ON users.id = posts.author_id").
		Where("users.username = ?", username).
		Order(listOrder).
		Find(&posts).Error
	if err != nil {
		return nil, storeErr(err)
	}
	return posts, nil
}
