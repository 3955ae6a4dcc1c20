package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestUser_HashedPasswordNeverMarshaled 密码哈希绝不出现在 JSON 序列化结果中
func TestUser_HashedPasswordNeverMarshaled(t *testing.T) {
	u := User{
		Username:       "alice",
		Email:          "a@x.com",
		HashedPassword: "$2a$12$secret",
		CreatedAt:      time.Now(),
	}

	data, err := json.Marshal(u)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.NotContains(t, string(data), "secret")
	_, ok := raw["hashed_password"]
	assert.False(t, ok, "hashed_password must not be a JSON field")
}

// TestUser_Public 公开视图只包含 username/email/full_name，full_name 缺省为 null
func TestUser_Public(t *testing.T) {
	u := User{
		Username:       "alice",
		Email:          "a@x.com",
		HashedPassword: "hash",
		Disabled:       true,
	}

	data, err := json.Marshal(u.Public())
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.Len(t, raw, 3)
	assert.Equal(t, "alice", raw["username"])
	assert.Equal(t, "a@x.com", raw["email"])
	v, ok := raw["full_name"]
	require.True(t, ok, "full_name must be present")
	assert.Nil(t, v)
}

func TestRecipeUpdate_IsEmpty(t *testing.T) {
	var upd RecipeUpdate
	assert.True(t, upd.IsEmpty())

	name := "jollof rice"
	upd.FoodName = &name
	assert.False(t, upd.IsEmpty())

	flag := false
	upd = RecipeUpdate{AsMain: &flag}
	assert.False(t, upd.IsEmpty(), "explicit false is still an update")
}

// TestRecipeUpdate_PartialJSON 反序列化只填充请求中出现的字段
func TestRecipeUpdate_PartialJSON(t *testing.T) {
	var upd RecipeUpdate
	require.NoError(t, json.Unmarshal([]byte(`{"origin":"Nigeria","as_dessert":false}`), &upd))

	require.NotNil(t, upd.Origin)
	assert.Equal(t, "Nigeria", *upd.Origin)
	require.NotNil(t, upd.AsDessert)
	assert.False(t, *upd.AsDessert)
	assert.Nil(t, upd.FoodName)
	assert.Nil(t, upd.Chef)
}
