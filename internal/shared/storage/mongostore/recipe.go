package mongostore

import (
	"context"
	"time"

	"kitchen-server/internal/shared/model"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ============================================================================
// RecipeStore
// ============================================================================

func (s *Store) CreateRecipe(ctx context.Context, recipe *model.Recipe) error {
	return insertOne(ctx, s.col(ColRecipes), recipe)
}

func (s *Store) GetRecipe(ctx context.Context, id string) (*model.Recipe, error) {
	return findOne[model.Recipe](ctx, s.col(ColRecipes), bson.D{{Key: "_id", Value: id}})
}

func (s *Store) ListRecipes(ctx context.Context, limit int) ([]*model.Recipe, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	return findMany[model.Recipe](ctx, s.col(ColRecipes), bson.D{}, opts)
}

func (s *Store) ListRecipesByOwner(ctx context.Context, owner string, limit int) ([]*model.Recipe, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	return findMany[model.Recipe](ctx, s.col(ColRecipes), bson.D{{Key: "owner", Value: owner}}, opts)
}

// UpdateRecipe 按 _id 部分更新菜谱，只写入 upd 中非 nil 的字段
func (s *Store) UpdateRecipe(ctx context.Context, id string, upd *model.RecipeUpdate) error {
	set := bson.D{}
	appendStr := func(key string, v *string) {
		if v != nil {
			set = append(set, bson.E{Key: key, Value: *v})
		}
	}
	appendBool := func(key string, v *bool) {
		if v != nil {
			set = append(set, bson.E{Key: key, Value: *v})
		}
	}

	appendStr("food_name", upd.FoodName)
	appendStr("origin", upd.Origin)
	appendStr("eaten_with", upd.EatenWith)
	appendBool("as_appetizer", upd.AsAppetizer)
	appendBool("as_main", upd.AsMain)
	appendBool("as_dessert", upd.AsDessert)
	appendStr("ingredients", upd.Ingredients)
	appendStr("directions", upd.Directions)
	appendStr("nutritional_benefits", upd.NutritionalBenefits)
	appendStr("chef", upd.Chef)
	appendStr("contact", upd.Contact)
	set = append(set, bson.E{Key: "updated_at", Value: time.Now()})

	return updateFields(ctx, s.col(ColRecipes), id, set)
}

func (s *Store) DeleteRecipe(ctx context.Context, id string) error {
	return deleteByID(ctx, s.col(ColRecipes), id)
}
