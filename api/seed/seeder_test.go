package seed

import (
	"testing"

	"Yatube/api/database/databasetest"
	"Yatube/api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadIsRepeatable(t *testing.T) {
	db := databasetest.New(t)

	require.NoError(t, Load(db))
	require.NoError(t, Load(db))

	userCount, err := models.CountUsers(db)
	require.NoError(t, err)
	assert.Equal(t, int64(len(users)), userCount)

	var postCount, followCount int64
	require.NoError(t, db.Model(&models.Post{}).Count(&postCount).Error)
	require.NoError(t, db.Model(&models.Follow{}).Count(&followCount).Error)
	assert.Equal(t, int64(len(posts)), postCount)
	assert.Equal(t, int64(1), followCount)

	poetry, err := models.FindGroupBySlug(db, "poetry")
	require.NoError(t, err)
	var inPoetry int64
	require.NoError(t, db.Model(&models.Post{}).Where("group_id = ?", poetry.ID).Count(&inPoetry).Error)
	assert.Equal(t, int64(1), inPoetry)
}
