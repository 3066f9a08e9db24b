package handlers

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobmaroc/jobboard/internal/logging"
	"github.com/jobmaroc/jobboard/internal/models"
	"github.com/jobmaroc/jobboard/internal/models/dto"
	"github.com/jobmaroc/jobboard/internal/session"
)

func (f *fixture) upload(token, filename string, content []byte) *httptest.ResponseRecorder {
	f.t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(f.t, err)
	_, err = part.Write(content)
	require.NoError(f.t, err)
	require.NoError(f.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/talent/cvs", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func TestTalent_SubResources(t *testing.T) {
	f := newFixture(t, nil)
	_, talent := f.account("t@example.com", session.RoleTalent, models.StatusAccepted, nil)
	_, mgr := f.account("m@example.com", session.RoleManager, models.StatusAccepted, nil)

	assert.Equal(t, http.StatusForbidden, f.do(http.MethodPost, "/api/talent/skills", mgr, dto.SkillRequest{Name: "Go"}).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/api/talent/skills", talent, dto.SkillRequest{Name: " "}).Code)

	rec := f.do(http.MethodPost, "/api/talent/skills", talent, dto.SkillRequest{Name: "Go", Level: "expert"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	skill := data[models.Skill](t, rec)

	rec = f.do(http.MethodPost, "/api/talent/diplomas", talent, dto.DiplomaRequest{Title: "MSc", Institution: "ENSIAS", ObtainedAt: "2020-07-01"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, http.StatusBadRequest,
		f.do(http.MethodPost, "/api/talent/diplomas", talent, dto.DiplomaRequest{Title: "BSc", ObtainedAt: "July 2018"}).Code)

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/api/talent/experiences", talent,
		dto.ExperienceRequest{Title: "Dev", StartDate: "2022-01-01", EndDate: "2021-01-01"}).Code)
	rec = f.do(http.MethodPost, "/api/talent/experiences", talent,
		dto.ExperienceRequest{Title: "Dev", Company: "Atlas", StartDate: "2021-01-01", EndDate: "2022-01-01"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = f.do(http.MethodGet, "/api/profile", talent, nil)
	profile := data[dto.ProfileResponse](t, rec)
	require.NotNil(t, profile.Talent)
	assert.Len(t, profile.Talent.Skills, 1)
	assert.Len(t, profile.Talent.Diplomas, 1)
	assert.Len(t, profile.Talent.Experiences, 1)

	skillPath := fmt.Sprintf("/api/talent/skills/%d", skill.ID)
	assert.Equal(t, http.StatusOK, f.do(http.MethodDelete, skillPath, talent, nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodDelete, skillPath, talent, nil).Code)
}

func TestTalent_CVUpload(t *testing.T) {
	f := newFixture(t, nil)
	_, talent := f.account("t@example.com", session.RoleTalent, models.StatusAccepted, nil)

	rec := f.upload(talent, "resume.exe", []byte("MZ"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.upload(talent, "resume.pdf", bytes.Repeat([]byte("x"), 2<<20))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = f.upload(talent, "Resume.PDF", []byte("%PDF-1.7"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	cv := data[models.CV](t, rec)
	assert.Equal(t, "Resume.PDF", cv.Name)
	assert.Equal(t, filepath.Join(f.uploadDir, "cvs"), filepath.Dir(cv.Path))
	content, err := os.ReadFile(cv.Path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(content))

	rec = f.do(http.MethodGet, "/api/talent/cvs", talent, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, data[[]models.CV](t, rec), 1)

	assert.Equal(t, http.StatusOK, f.do(http.MethodDelete, fmt.Sprintf("/api/talent/cvs/%d", cv.ID), talent, nil).Code)
	_, err = os.Stat(cv.Path)
	assert.True(t, os.IsNotExist(err), "uploaded file is removed with its record")
}

func TestTalent_CVByPathKeepsExternalFile(t *testing.T) {
	f := newFixture(t, nil)
	_, talent := f.account("t@example.com", session.RoleTalent, models.StatusAccepted, nil)

	external := filepath.Join(t.TempDir(), "shared.pdf")
	require.NoError(t, os.WriteFile(external, []byte("%PDF"), 0o644))

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/api/talent/cvs", talent, dto.CVPathRequest{}).Code)

	rec := f.do(http.MethodPost, "/api/talent/cvs", talent, dto.CVPathRequest{Path: external})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	cv := data[models.CV](t, rec)
	assert.Equal(t, "shared.pdf", cv.Name)

	assert.Equal(t, http.StatusOK, f.do(http.MethodDelete, fmt.Sprintf("/api/talent/cvs/%d", cv.ID), talent, nil).Code)
	_, err := os.Stat(external)
	assert.NoError(t, err, "files outside the upload directory are left alone")
}

func TestTalent_CVPathCannotClaimAnotherUpload(t *testing.T) {
	f := newFixture(t, nil)
	_, owner := f.account("owner@example.com", session.RoleTalent, models.StatusAccepted, nil)
	_, intruder := f.account("intruder@example.com", session.RoleTalent, models.StatusAccepted, nil)

	rec := f.upload(owner, "cv.pdf", []byte("%PDF"))
	require.Equal(t, http.StatusCreated, rec.Code)
	victim := data[models.CV](t, rec)

	for _, path := range []string{
		victim.Path,
		filepath.Join(f.uploadDir, "cvs", "..", "cvs", filepath.Base(victim.Path)),
		filepath.Join(f.uploadDir, "notes.pdf"),
	} {
		rec = f.do(http.MethodPost, "/api/talent/cvs", intruder, dto.CVPathRequest{Path: path})
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}

	rec = f.do(http.MethodGet, "/api/talent/cvs", intruder, nil)
	assert.Empty(t, data[[]models.CV](t, rec))
	_, err := os.Stat(victim.Path)
	assert.NoError(t, err, "the owner's upload is untouched")
}

func TestRemoveUpload_OnlyDeletesStoredUploads(t *testing.T) {
	dir := t.TempDir()
	h := NewTalentHandler(nil, dir, 0, session.NewGuard("", ""), logging.Test(t))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "cvs"), 0o755))

	keep := []string{
		filepath.Join(dir, "cvs", "handwritten.pdf"),
		filepath.Join(dir, "config.pdf"),
		filepath.Join(dir, "cvs", "0b6e9f3a-8c55-4d6c-9a39-3f3c5b0f2f11.txt"),
	}
	for _, path := range keep {
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
		h.removeUpload(path)
		_, err := os.Stat(path)
		assert.NoError(t, err, path)
	}

	stored := filepath.Join(dir, "cvs", "0b6e9f3a-8c55-4d6c-9a39-3f3c5b0f2f11.pdf")
	require.NoError(t, os.WriteFile(stored, []byte("x"), 0o644))
	h.removeUpload(stored)
	_, err := os.Stat(stored)
	assert.True(t, os.IsNotExist(err))
}

func TestTalent_ApplyWithCV(t *testing.T) {
	f := newFixture(t, nil)
	_, admin := f.account("a@example.com", session.RoleAdmin, models.StatusAccepted, nil)
	_, talent := f.account("t@example.com", session.RoleTalent, models.StatusAccepted, nil)
	_, other := f.account("o@example.com", session.RoleTalent, models.StatusAccepted, nil)

	rec := f.do(http.MethodPost, "/api/offers", admin, dto.OfferRequest{Title: "Ops"})
	require.Equal(t, http.StatusCreated, rec.Code)
	offer := data[models.Offer](t, rec)

	rec = f.upload(other, "cv.pdf", []byte("%PDF"))
	require.Equal(t, http.StatusCreated, rec.Code)
	foreign := data[models.CV](t, rec)

	rec = f.do(http.MethodPost, "/api/applications", talent, dto.ApplicationRequest{OfferID: offer.ID, CVID: &foreign.ID})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.upload(talent, "cv.docx", []byte("PK"))
	require.Equal(t, http.StatusCreated, rec.Code)
	own := data[models.CV](t, rec)

	rec = f.do(http.MethodPost, "/api/applications", talent, dto.ApplicationRequest{OfferID: offer.ID, CVID: &own.ID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	app := data[models.Application](t, rec)
	require.NotNil(t, app.CVID)
	assert.Equal(t, own.ID, *app.CVID)
}
