package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkful/backend/internal/models"
)

// RelationService enforces the write-time invariants of the three
// (subject, object) relations: favorites, shopping-cart entries and
// follows. Every relation kind shares the same rules: the pair must not
// already exist, and deleting an absent pair is reported, not ignored.
// Follows additionally reject subject == object.
type RelationService struct {
	db *gorm.DB
}

func NewRelationService(db *gorm.DB) *RelationService {
	return &RelationService{db: db}
}

func (s *RelationService) AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.addRecipeRelation(ctx, userID, recipeID, &models.Favorite{UserID: userID, RecipeID: recipeID})
}

func (s *RelationService) RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(&models.Favorite{})
	return deleteResult(res)
}

func (s *RelationService) AddToCart(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.addRecipeRelation(ctx, userID, recipeID, &models.ShoppingCart{UserID: userID, RecipeID: recipeID})
}

func (s *RelationService) RemoveFromCart(ctx context.Context, userID, recipeID uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(&models.ShoppingCart{})
	return deleteResult(res)
}

func (s *RelationService) Follow(ctx context.Context, userID, followingID uuid.UUID) error {
	if userID == followingID {
		return ErrSelfRelationNotAllowed
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", followingID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrUserNotFound
	}

	if err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND following_id = ?", userID, followingID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateRelation
	}

	err := s.db.WithContext(ctx).Create(&models.Follow{UserID: userID, FollowingID: followingID}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateRelation
	}
	return err
}

func (s *RelationService) Unfollow(ctx context.Context, userID, followingID uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("user_id = ? AND following_id = ?", userID, followingID).Delete(&models.Follow{})
	return deleteResult(res)
}

// addRecipeRelation holds the shared favorite/cart create path: the recipe
// must exist, the pair must be new, and a racing duplicate insert that
// slips past the pre-check is translated from the storage error.
func (s *RelationService) addRecipeRelation(ctx context.Context, userID, recipeID uuid.UUID, row interface{}) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", recipeID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrRecipeNotFound
	}

	if err := s.db.WithContext(ctx).Model(row).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateRelation
	}

	err := s.db.WithContext(ctx).Create(row).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateRelation
	}
	return err
}

func deleteResult(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRelationNotFound
	}
	return nil
}
