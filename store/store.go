package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"blogcms/common"
	"blogcms/models"
)

// Store is the content store for posts, categories and their join rows.
// It is the sole owner of persisted state and is safe for concurrent use.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// PostsWithCategoryIDs loads join rows only, which is all the categoryIds
// shape needs.
func PostsWithCategoryIDs(db *gorm.DB) *gorm.DB {
	return db.Preload("Categories", func(db *gorm.DB) *gorm.DB {
		return db.Order("category_id")
	})
}

// PostsWithCategories additionally loads each joined category.
func PostsWithCategories(db *gorm.DB) *gorm.DB {
	return db.Preload("Categories.Category")
}

// ListPosts returns every post, newest first. expand selects whether the
// joined categories are loaded with their names.
func (s *Store) ListPosts(ctx context.Context, expand bool) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.WithContext(ctx).
		Scopes(postScope(expand)).
		Order("created_at DESC").
		Order("id").
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	if expand {
		for i := range posts {
			sortCategoriesByName(&posts[i])
		}
	}
	return posts, nil
}

func (s *Store) GetPost(ctx context.Context, id string, expand bool) (*models.Post, error) {
	var post models.Post
	err := s.db.WithContext(ctx).
		Scopes(postScope(expand)).
		Where("id = ?", id).
		First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post %s: %w", id, err)
	}
	if expand {
		sortCategoriesByName(&post)
	}
	return &post, nil
}

func (s *Store) CreatePost(ctx context.Context, in models.PostInput) (*models.Post, error) {
	post := models.Post{
		Title:         in.Title,
		Content:       in.Content,
		CoverImageURL: in.CoverImageURL,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids, err := checkCategories(tx, in.CategoryIDs)
		if err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(&post).Error; err != nil {
			return err
		}
		return linkCategories(tx, post.ID, ids)
	})
	if err != nil {
		return nil, wrapWrite("create post", err)
	}

	return s.GetPost(ctx, post.ID, false)
}

// UpdatePost fully replaces title, content, cover image and the category set
// of an existing post.
func (s *Store) UpdatePost(ctx context.Context, id string, in models.PostInput) (*models.Post, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Where("id = ?", id).First(&post).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return common.ErrPostNotFound
			}
			return err
		}

		ids, err := checkCategories(tx, in.CategoryIDs)
		if err != nil {
			return err
		}

		err = tx.Model(&post).Updates(map[string]any{
			"title":           in.Title,
			"content":         in.Content,
			"cover_image_url": in.CoverImageURL,
		}).Error
		if err != nil {
			return err
		}

		if err := tx.Where("post_id = ?", id).Delete(&models.PostCategory{}).Error; err != nil {
			return err
		}
		return linkCategories(tx, id, ids)
	})
	if err != nil {
		return nil, wrapWrite("update post "+id, err)
	}

	return s.GetPost(ctx, id, false)
}

func (s *Store) DeletePost(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.PostCategory{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.Post{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return common.ErrPostNotFound
		}
		return nil
	})
	return wrapWrite("delete post "+id, err)
}

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id").
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *Store) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get category %s: %w", id, err)
	}
	return &category, nil
}

func (s *Store) CreateCategory(ctx context.Context, in models.CategoryInput) (*models.Category, error) {
	category := models.Category{Name: in.Name}
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &category, nil
}

func (s *Store) UpdateCategory(ctx context.Context, id string, in models.CategoryInput) (*models.Category, error) {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(category).Update("name", in.Name).Error; err != nil {
		return nil, fmt.Errorf("update category %s: %w", id, err)
	}
	return s.GetCategory(ctx, id)
}

// DeleteCategory removes the category and cascades to its join rows. Posts
// that referenced it keep their remaining categories.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", id).Delete(&models.PostCategory{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.Category{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return common.ErrCategoryNotFound
		}
		return nil
	})
	return wrapWrite("delete category "+id, err)
}

func postScope(expand bool) func(*gorm.DB) *gorm.DB {
	if expand {
		return PostsWithCategories
	}
	return PostsWithCategoryIDs
}

// checkCategories drops duplicate ids and fails with ErrUnknownCategory when
// any id does not exist.
func checkCategories(tx *gorm.DB, ids []string) ([]string, error) {
	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return unique, nil
	}

	var count int64
	if err := tx.Model(&models.Category{}).Where("id IN ?", unique).Count(&count).Error; err != nil {
		return nil, err
	}
	if int(count) != len(unique) {
		return nil, common.ErrUnknownCategory
	}
	return unique, nil
}

func linkCategories(tx *gorm.DB, postID string, categoryIDs []string) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	rows := make([]models.PostCategory, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		rows = append(rows, models.PostCategory{PostID: postID, CategoryID: id})
	}
	return tx.Omit(clause.Associations).Create(&rows).Error
}

func sortCategoriesByName(p *models.Post) {
	sort.SliceStable(p.Categories, func(i, j int) bool {
		return p.Categories[i].Category.Name < p.Categories[j].Category.Name
	})
}

// wrapWrite keeps domain sentinels unwrapped-comparable while adding the
// operation to unexpected errors.
func wrapWrite(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, common.ErrPostNotFound),
		errors.Is(err, common.ErrCategoryNotFound),
		errors.Is(err, common.ErrUnknownCategory):
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}
