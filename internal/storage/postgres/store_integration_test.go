package postgres

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobmaroc/jobboard/internal/models"
	"github.com/jobmaroc/jobboard/internal/session"
	"github.com/jobmaroc/jobboard/internal/storage"
)

// TestStoreIntegration exercises the SQL store against a live database.
func TestStoreIntegration(t *testing.T) {
	if os.Getenv("RUN_DB_INTEGRATION") != "true" {
		t.Skip("set RUN_DB_INTEGRATION=true to run this integration test")
	}

	loadDotEnv()
	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	require.NotEmpty(t, dbURL, "DATABASE_URL is required")

	ctx := context.Background()
	store, err := NewStore(ctx, dbURL)
	require.NoError(t, err)
	defer store.Close()

	suffix := time.Now().UnixNano()
	mgrUser, err := store.CreateUser(ctx, models.User{
		Email:        fmt.Sprintf("mgr_%d@example.com", suffix),
		Role:         session.RoleManager,
		PasswordHash: "x",
	}, &models.Company{Name: "Atlas", SectorActivity: "IT"})
	require.NoError(t, err)
	defer func() { _ = store.DeleteUser(ctx, mgrUser.ID) }()
	assert.Equal(t, models.StatusWaiting, mgrUser.Status)

	_, err = store.CreateUser(ctx, models.User{
		Email:        strings.ToUpper(mgrUser.Email),
		Role:         session.RoleManager,
		PasswordHash: "x",
	}, nil)
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	mgr, err := store.ManagerByUser(ctx, mgrUser.ID)
	require.NoError(t, err)
	require.NotNil(t, mgr.Company)

	talentUser, err := store.CreateUser(ctx, models.User{
		Email:        fmt.Sprintf("talent_%d@example.com", suffix),
		Role:         session.RoleTalent,
		PasswordHash: "x",
	}, nil)
	require.NoError(t, err)
	defer func() { _ = store.DeleteUser(ctx, talentUser.ID) }()
	talent, err := store.TalentByUser(ctx, talentUser.ID)
	require.NoError(t, err)

	types, err := store.ListContractTypes(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, types)

	offer, err := store.CreateOffer(ctx, models.Offer{
		Title:     "Backend engineer",
		Skills:    []string{"Go", "SQL"},
		Languages: []models.OfferLanguage{{Language: "French", Level: "C1"}},
		ManagerID: &mgr.ID,
	}, []int64{types[0].ID})
	require.NoError(t, err)
	defer func() { _ = store.DeleteOffer(ctx, offer.ID) }()
	assert.Equal(t, models.ModalityOnSite, offer.Modality)
	assert.Equal(t, []string{"Go", "SQL"}, offer.Skills)
	require.Len(t, offer.ContractTypes, 1)

	_, err = store.CreateOffer(ctx, models.Offer{Title: "bad"}, []int64{-1})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	app, err := store.CreateApplication(ctx, models.Application{TalentID: talent.ID, OfferID: offer.ID})
	require.NoError(t, err)
	assert.Equal(t, offer.Title, app.OfferTitle)
	_, err = store.CreateApplication(ctx, models.Application{TalentID: talent.ID, OfferID: offer.ID})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	byManager, err := store.ListByManager(ctx, mgr.ID)
	require.NoError(t, err)
	assert.Len(t, byManager, 1)

	require.NoError(t, store.Notify(ctx, models.Notification{
		RecipientID: talentUser.ID,
		Type:        models.NotifyApplicationSubmitted,
		Message:     "submitted",
	}))
	notes, err := store.ListNotifications(ctx, talentUser.ID)
	require.NoError(t, err)
	assert.Len(t, notes, 1)
}

func loadDotEnv() {
	paths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}
	for _, path := range paths {
		_ = godotenv.Overload(path)
	}
}
