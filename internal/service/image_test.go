package service_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestUserAvatar(t *testing.T) {
	env := setupEnv(t)
	user := testhelpers.CreateUser(t, env.db, "vasya")

	url, err := env.users.UpdateAvatar(ctx, user.ID, pngDataURI)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/media/users/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	view, err := env.users.Get(ctx, 0, user.ID)
	require.NoError(t, err)
	assert.Equal(t, url, view.User.Avatar)

	require.NoError(t, env.users.DeleteAvatar(ctx, user.ID))
	view, err = env.users.Get(ctx, 0, user.ID)
	require.NoError(t, err)
	assert.Empty(t, view.User.Avatar)
}

func TestUserAvatarRejectsBadUploads(t *testing.T) {
	env := setupEnv(t)
	user := testhelpers.CreateUser(t, env.db, "vasya")

	for _, upload := range []string{
		"",
		"just text",
		"data:image/png;base64,!!!",
		"data:text/plain;base64,aGVsbG8gd29ybGQ=",
	} {
		_, err := env.users.UpdateAvatar(ctx, user.ID, upload)
		var verr *service.ValidationError
		require.True(t, errors.As(err, &verr), "upload %q: %v", upload, err)
		assert.Equal(t, "avatar", verr.Field)
	}
}
