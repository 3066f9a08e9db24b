package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobmaroc/jobboard/internal/models"
	"github.com/jobmaroc/jobboard/internal/session"
	"github.com/jobmaroc/jobboard/internal/storage"
)

func TestStore_UserLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()

	talent, err := s.CreateUser(ctx, models.User{Email: "t@example.com", Role: session.RoleTalent}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusWaiting, talent.Status)

	_, err = s.CreateUser(ctx, models.User{Email: "T@example.com", Role: session.RoleTalent}, nil)
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	mgr, err := s.CreateUser(ctx, models.User{Email: "m@example.com", Role: session.RoleManager}, &models.Company{Name: "Atlas"})
	require.NoError(t, err)
	profile, err := s.ManagerByUser(ctx, mgr.ID)
	require.NoError(t, err)
	require.NotNil(t, profile.Company)
	assert.Equal(t, "Atlas", profile.Company.Name)

	pending, err := s.ListUsers(ctx, storage.UserFilter{Status: models.StatusWaiting})
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	_, err = s.UpdateStatus(ctx, talent.ID, models.StatusAccepted)
	require.NoError(t, err)
	n, err := s.CountUsers(ctx, storage.UserFilter{Status: models.StatusWaiting})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, s.DeleteUser(ctx, talent.ID))
	_, err = s.TalentByUser(ctx, talent.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_OffersAndApplications(t *testing.T) {
	ctx := context.Background()
	s := New()
	mgrUser, err := s.CreateUser(ctx, models.User{Email: "m@example.com", Role: session.RoleManager}, nil)
	require.NoError(t, err)
	mgr, err := s.ManagerByUser(ctx, mgrUser.ID)
	require.NoError(t, err)
	talentUser, err := s.CreateUser(ctx, models.User{Email: "t@example.com", Role: session.RoleTalent}, nil)
	require.NoError(t, err)
	talent, err := s.TalentByUser(ctx, talentUser.ID)
	require.NoError(t, err)

	types, err := s.ListContractTypes(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, types)

	_, err = s.CreateOffer(ctx, models.Offer{Title: "bad"}, []int64{9999})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	offer, err := s.CreateOffer(ctx, models.Offer{Title: "Go dev", ManagerID: &mgr.ID, SectorActivity: "IT"}, []int64{types[0].ID})
	require.NoError(t, err)
	require.Len(t, offer.ContractTypes, 1)
	assert.Equal(t, types[0].Name, offer.ContractTypes[0].Name)

	app, err := s.CreateApplication(ctx, models.Application{TalentID: talent.ID, OfferID: offer.ID})
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationApplied, app.Status)
	assert.Equal(t, "Go dev", app.OfferTitle)
	assert.Equal(t, "t@example.com", app.TalentEmail)

	_, err = s.CreateApplication(ctx, models.Application{TalentID: talent.ID, OfferID: offer.ID})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	byManager, err := s.ListByManager(ctx, mgr.ID)
	require.NoError(t, err)
	assert.Len(t, byManager, 1)

	updated, err := s.UpdateApplicationStatus(ctx, app.ID, models.ApplicationReviewed)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationReviewed, updated.Status)

	grouped, err := s.OffersGroupedBy(ctx, storage.GroupSector, 5)
	require.NoError(t, err)
	assert.Equal(t, []models.CountBy{{Label: "IT", Count: 1}}, grouped)

	require.NoError(t, s.DeleteOffer(ctx, offer.ID))
	_, err = s.GetApplication(ctx, app.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, s.DeleteOffer(ctx, offer.ID), storage.ErrNotFound)
}

func TestStore_TalentSubResources(t *testing.T) {
	ctx := context.Background()
	s := New()
	u, err := s.CreateUser(ctx, models.User{Email: "t@example.com", Role: session.RoleTalent}, nil)
	require.NoError(t, err)
	talent, err := s.TalentByUser(ctx, u.ID)
	require.NoError(t, err)

	skill, err := s.AddSkill(ctx, talent.ID, models.Skill{Name: "Go"})
	require.NoError(t, err)
	_, err = s.AddDiploma(ctx, talent.ID, models.Diploma{Title: "Master"})
	require.NoError(t, err)
	cv, err := s.AddCV(ctx, models.CV{TalentID: talent.ID, Name: "cv.pdf", Path: "uploads/cv.pdf"})
	require.NoError(t, err)

	got, err := s.TalentByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, got.Skills, 1)
	assert.Len(t, got.Diplomas, 1)
	assert.Len(t, got.CVs, 1)

	require.NoError(t, s.DeleteSkill(ctx, talent.ID, skill.ID))
	assert.ErrorIs(t, s.DeleteSkill(ctx, talent.ID, skill.ID), storage.ErrNotFound)

	removed, err := s.DeleteCV(ctx, talent.ID, cv.ID)
	require.NoError(t, err)
	assert.Equal(t, "uploads/cv.pdf", removed.Path)
}
