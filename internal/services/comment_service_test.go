package services_test

import (
	"testing"

	"github.com/localnerve/callboard/internal/services"
	"github.com/localnerve/callboard/internal/testutil"
	"github.com/localnerve/callboard/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAndModerateComments(t *testing.T) {
	b := newBoard(t)
	ad := testutil.CreateAd(t, b.db, b.alice, b.flats, "Commented")

	first, err := services.AddComment(b.db, ad.ID, " bob ", "Is it still available?")
	require.NoError(t, err)
	assert.Equal(t, "bob", first.Author)
	assert.True(t, first.IsActive)

	_, err = services.AddComment(b.db, ad.ID, "guest", "Second")
	require.NoError(t, err)

	comments, err := services.ActiveComments(b.db, ad.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, first.ID, comments[0].ID)

	require.NoError(t, services.SetCommentActive(b.db, first.ID, false))
	comments, err = services.ActiveComments(b.db, ad.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "Second", comments[0].Content)

	assert.ErrorIs(t, services.SetCommentActive(b.db, 999, true), types.ErrNotFound)

	_, err = services.AddComment(b.db, 999, "guest", "orphan")
	assert.ErrorIs(t, err, types.ErrNotFound)
}
