package services_test

import (
	"testing"

	"github.com/localnerve/callboard/data"
	"github.com/localnerve/callboard/internal/models"
	"github.com/localnerve/callboard/internal/services"
	"github.com/localnerve/callboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseSeed(t *testing.T) {
	tree, err := services.ParseSeed(data.SeedRubrics)
	require.NoError(t, err)
	require.NotEmpty(t, tree)
	assert.Equal(t, "Realty", tree[0].Name)
	assert.NotEmpty(t, tree[0].Subs)

	_, err = services.ParseSeed([]byte("- name: ''\n"))
	assert.ErrorIs(t, err, services.ErrInvalidRubricName)

	_, err = services.ParseSeed([]byte("- name: A\n  subs:\n    - name: B\n      subs:\n        - name: C\n"))
	assert.ErrorIs(t, err, services.ErrInvalidRubricName)

	_, err = services.ParseSeed([]byte("{not a list"))
	assert.Error(t, err)
}

func TestSeedRubricsIsIdempotent(t *testing.T) {
	db := testutil.NewTestDB(t)
	tree := []services.SeedRubric{
		{Name: "Realty", Order: 1, Subs: []services.SeedRubric{{Name: "Flats"}, {Name: "Houses", Order: 1}}},
		{Name: "Transport", Order: 2, Subs: []services.SeedRubric{{Name: "Cars"}}},
	}

	created, err := services.SeedRubrics(db, tree, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 5, created)

	created, err = services.SeedRubrics(db, tree, zap.NewNop())
	require.NoError(t, err)
	assert.Zero(t, created)
	assert.EqualValues(t, 5, testutil.Count(t, db, &models.Rubric{}))

	subs, err := services.SubRubrics(db)
	require.NoError(t, err)
	require.Len(t, subs, 3)
	assert.Equal(t, "Realty - Flats", subs[0].String())
}

func TestSeedRubricsRejectsSubAsSuper(t *testing.T) {
	db := testutil.NewTestDB(t)
	realty := testutil.CreateRubric(t, db, "Realty", 0, nil)
	testutil.CreateRubric(t, db, "Flats", 0, realty)

	_, err := services.SeedRubrics(db, []services.SeedRubric{{Name: "Flats"}}, zap.NewNop())
	assert.ErrorIs(t, err, services.ErrInvalidParent)
}
