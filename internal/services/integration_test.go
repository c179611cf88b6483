//go:build integration

package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/localnerve/callboard/internal/database"
	"github.com/localnerve/callboard/internal/models"
	"github.com/localnerve/callboard/internal/services"
	"github.com/localnerve/callboard/internal/testutil"
	"github.com/localnerve/callboard/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

// Run with: go test -tags integration ./internal/services/...
func TestServicesOnServerDatabases(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	for _, dbType := range []string{"mariadb", "postgres"} {
		t.Run(dbType, func(t *testing.T) {
			ctx := context.Background()
			container, err := testutil.StartDBContainer(ctx, t, dbType)
			require.NoError(t, err)
			t.Cleanup(func() { container.Terminate(t) })

			db, err := database.Connect(container.Config, zaptest.NewLogger(t))
			require.NoError(t, err)
			t.Cleanup(func() { _ = database.Close(db) })
			require.NoError(t, database.AutoMigrate(db))

			exerciseBoard(t, db)
		})
	}
}

func exerciseBoard(t *testing.T, db *gorm.DB) {
	realty, err := services.CreateRubric(db, "Realty", 1, nil)
	require.NoError(t, err)
	flats, err := services.CreateRubric(db, "Flats", 1, &realty.ID)
	require.NoError(t, err)
	_, err = services.CreateRubric(db, "Rooms", 2, &flats.ID)
	assert.ErrorIs(t, err, services.ErrInvalidParent)

	alice := testutil.CreateUser(t, db, "alice")
	testutil.CreateAd(t, db, alice, flats, "Sunny 100% flat")
	testutil.CreateAd(t, db, alice, flats, "Dark cellar")
	testutil.CreateAd(t, db, alice, flats, "Hidden loft", testutil.Inactive())

	page, err := services.ListAds(db, services.AdFilter{RubricID: flats.ID, Keyword: "100%"}, 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Sunny 100% flat", page.Items[0].Title)

	page, err = services.ListAds(db, services.AdFilter{RubricID: flats.ID, Keyword: "SUNNY"}, 1)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	page, err = services.ListAds(db, services.AdFilter{RubricID: flats.ID}, 9)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Number)
	assert.EqualValues(t, 2, page.Total)

	err = services.DeleteRubric(db, flats.ID)
	assert.ErrorIs(t, err, types.ErrReferentialIntegrity)

	// Activation races resolve to exactly one winner
	_, err = services.Register(db, services.RegisterInput{Username: "erin", Email: "erin@example.com", Password: "pa55-phrase"})
	require.NoError(t, err)
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results []services.ActivationResult
	)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, result, err := services.Activate(db, "erin")
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			results = append(results, result)
			mu.Unlock()
		}()
	}
	wg.Wait()
	activated := 0
	for _, r := range results {
		if r == services.Activated {
			activated++
		}
	}
	assert.Equal(t, 1, activated)

	files, err := services.DeleteUser(db, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, files)
	assert.Zero(t, testutil.Count(t, db, &models.Ad{}))
}
