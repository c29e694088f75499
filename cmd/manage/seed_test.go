package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/storage"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestSeedDemoIsIdempotent(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	testhelpers.SeedCatalog(t, db)
	store := storage.NewLocalStorage(t.TempDir(), "/media/")
	ctx := context.Background()

	var out bytes.Buffer
	require.NoError(t, seedDemo(ctx, &out, db, store))

	var users, recipes int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Recipe{}).Count(&recipes).Error)
	assert.Equal(t, int64(len(demoUsers)), users)
	assert.Equal(t, int64(len(demoUsers)), recipes)

	out.Reset()
	require.NoError(t, seedDemo(ctx, &out, db, store))
	assert.Contains(t, out.String(), "already exists")

	require.NoError(t, db.Model(&models.Recipe{}).Count(&recipes).Error)
	assert.Equal(t, int64(len(demoUsers)), recipes)
}

func TestSeedDemoWithoutCatalogCreatesOnlyUsers(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	var out bytes.Buffer
	require.NoError(t, seedDemo(context.Background(), &out, db, storage.NewLocalStorage(t.TempDir(), "/media/")))

	var recipes int64
	require.NoError(t, db.Model(&models.Recipe{}).Count(&recipes).Error)
	assert.Zero(t, recipes)
	assert.Contains(t, out.String(), "catalog is empty")
}
