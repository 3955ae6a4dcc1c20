// Package model 定义核心数据模型
package model

import "time"

// Recipe 菜谱
//
// Owner 在创建时由服务端根据当前认证用户写入，客户端提交的值会被忽略。
type Recipe struct {
	ID                  string    `json:"id" bson:"_id"`
	FoodName            string    `json:"food_name" bson:"food_name"`
	Origin              string    `json:"origin" bson:"origin"`
	EatenWith           string    `json:"eaten_with" bson:"eaten_with"`
	AsAppetizer         bool      `json:"as_appetizer" bson:"as_appetizer"`
	AsMain              bool      `json:"as_main" bson:"as_main"`
	AsDessert           bool      `json:"as_dessert" bson:"as_dessert"`
	Ingredients         string    `json:"ingredients" bson:"ingredients"`
	Directions          string    `json:"directions" bson:"directions"`
	NutritionalBenefits string    `json:"nutritional_benefits" bson:"nutritional_benefits"`
	Chef                string    `json:"chef" bson:"chef"`
	Contact             *string   `json:"contact,omitempty" bson:"contact,omitempty"`
	Owner               string    `json:"owner" bson:"owner"`
	CreatedAt           time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" bson:"updated_at"`
}

// RecipeUpdate 部分更新结构，只提交需要变更的字段
//
// 全部为指针字段：nil 表示不更新，非 nil 的字段通过 $set 写入。
type RecipeUpdate struct {
	FoodName            *string `json:"food_name,omitempty" bson:"food_name,omitempty"`
	Origin              *string `json:"origin,omitempty" bson:"origin,omitempty"`
	EatenWith           *string `json:"eaten_with,omitempty" bson:"eaten_with,omitempty"`
	AsAppetizer         *bool   `json:"as_appetizer,omitempty" bson:"as_appetizer,omitempty"`
	AsMain              *bool   `json:"as_main,omitempty" bson:"as_main,omitempty"`
	AsDessert           *bool   `json:"as_dessert,omitempty" bson:"as_dessert,omitempty"`
	Ingredients         *string `json:"ingredients,omitempty" bson:"ingredients,omitempty"`
	Directions          *string `json:"directions,omitempty" bson:"directions,omitempty"`
	NutritionalBenefits *string `json:"nutritional_benefits,omitempty" bson:"nutritional_benefits,omitempty"`
	Chef                *string `json:"chef,omitempty" bson:"chef,omitempty"`
	Contact             *string `json:"contact,omitempty" bson:"contact,omitempty"`
}

// IsEmpty 是否没有任何待更新字段
func (u *RecipeUpdate) IsEmpty() bool {
	return u.FoodName == nil && u.Origin == nil && u.EatenWith == nil &&
		u.AsAppetizer == nil && u.AsMain == nil && u.AsDessert == nil &&
		u.Ingredients == nil && u.Directions == nil &&
		u.NutritionalBenefits == nil && u.Chef == nil && u.Contact == nil
}
