package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jobmaroc/jobboard/internal/http/respond"
	"github.com/jobmaroc/jobboard/internal/models"
	"github.com/jobmaroc/jobboard/internal/models/dto"
	"github.com/jobmaroc/jobboard/internal/session"
	"github.com/jobmaroc/jobboard/internal/storage"
)

var allowedCVExtensions = map[string]bool{".pdf": true, ".doc": true, ".docx": true}

// TalentStore is the persistence TalentHandler needs.
type TalentStore interface {
	storage.ProfileStore
}

// TalentHandler serves a talent's skills, diplomas, experiences and CVs.
type TalentHandler struct {
	base
	store     TalentStore
	uploadDir string
	maxUpload int64
}

// NewTalentHandler constructs the handler. Uploaded CVs land under uploadDir/cvs.
func NewTalentHandler(store TalentStore, uploadDir string, maxUpload int64, guard session.Guard, logger *zap.SugaredLogger) *TalentHandler {
	return &TalentHandler{base: newBase(guard, logger), store: store, uploadDir: uploadDir, maxUpload: maxUpload}
}

// Register attaches talent sub-resource routes to the mux.
func (h *TalentHandler) Register(mux *http.ServeMux) {
	h.protect(mux, "POST /api/talent/skills", h.handleAddSkill, session.RoleTalent)
	h.protect(mux, "DELETE /api/talent/skills/{id}", h.handleDelete("skill", h.store.DeleteSkill), session.RoleTalent)
	h.protect(mux, "POST /api/talent/diplomas", h.handleAddDiploma, session.RoleTalent)
	h.protect(mux, "DELETE /api/talent/diplomas/{id}", h.handleDelete("diploma", h.store.DeleteDiploma), session.RoleTalent)
	h.protect(mux, "POST /api/talent/experiences", h.handleAddExperience, session.RoleTalent)
	h.protect(mux, "DELETE /api/talent/experiences/{id}", h.handleDelete("experience", h.store.DeleteExperience), session.RoleTalent)
	h.protect(mux, "GET /api/talent/cvs", h.handleListCVs, session.RoleTalent)
	h.protect(mux, "POST /api/talent/cvs", h.handleAddCV, session.RoleTalent)
	h.protect(mux, "DELETE /api/talent/cvs/{id}", h.handleDeleteCV, session.RoleTalent)
}

// talent resolves the caller's talent profile, writing the error response on failure.
func (h *TalentHandler) talent(w http.ResponseWriter, r *http.Request) (models.Talent, bool) {
	_, userID := caller(r)
	t, err := h.store.TalentByUser(r.Context(), userID)
	if err != nil {
		h.storeError(w, r, err, "talent profile")
		return models.Talent{}, false
	}
	return t, true
}

func (h *TalentHandler) handleAddSkill(w http.ResponseWriter, r *http.Request) {
	var req dto.SkillRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respond.Error(w, http.StatusBadRequest, "skill name is required")
		return
	}
	t, ok := h.talent(w, r)
	if !ok {
		return
	}
	skill, err := h.store.AddSkill(r.Context(), t.ID, models.Skill{
		Name:  strings.TrimSpace(req.Name),
		Level: strings.TrimSpace(req.Level),
	})
	if err != nil {
		h.storeError(w, r, err, "skill")
		return
	}
	respond.JSON(w, http.StatusCreated, "skill added", skill)
}

func (h *TalentHandler) handleAddDiploma(w http.ResponseWriter, r *http.Request) {
	var req dto.DiplomaRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		respond.Error(w, http.StatusBadRequest, "diploma title is required")
		return
	}
	obtained, err := parseDate(req.ObtainedAt)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	t, ok := h.talent(w, r)
	if !ok {
		return
	}
	diploma, err := h.store.AddDiploma(r.Context(), t.ID, models.Diploma{
		Title:       strings.TrimSpace(req.Title),
		Institution: strings.TrimSpace(req.Institution),
		ObtainedAt:  obtained,
	})
	if err != nil {
		h.storeError(w, r, err, "diploma")
		return
	}
	respond.JSON(w, http.StatusCreated, "diploma added", diploma)
}

func (h *TalentHandler) handleAddExperience(w http.ResponseWriter, r *http.Request) {
	var req dto.ExperienceRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		respond.Error(w, http.StatusBadRequest, "experience title is required")
		return
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if start != nil && end != nil && end.Before(*start) {
		respond.Error(w, http.StatusBadRequest, "end date precedes start date")
		return
	}
	t, ok := h.talent(w, r)
	if !ok {
		return
	}
	exp, err := h.store.AddExperience(r.Context(), t.ID, models.Experience{
		Title:       strings.TrimSpace(req.Title),
		Company:     strings.TrimSpace(req.Company),
		Description: strings.TrimSpace(req.Description),
		StartDate:   start,
		EndDate:     end,
	})
	if err != nil {
		h.storeError(w, r, err, "experience")
		return
	}
	respond.JSON(w, http.StatusCreated, "experience added", exp)
}

// handleDelete removes a sub-resource owned by the caller's talent profile.
func (h *TalentHandler) handleDelete(what string, del func(ctx context.Context, talentID, id int64) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r, "id")
		if !ok {
			respond.Error(w, http.StatusBadRequest, "invalid "+what+" id")
			return
		}
		t, ok := h.talent(w, r)
		if !ok {
			return
		}
		if err := del(r.Context(), t.ID, id); err != nil {
			h.storeError(w, r, err, what)
			return
		}
		respond.JSON(w, http.StatusOK, what+" deleted", nil)
	}
}

func (h *TalentHandler) handleListCVs(w http.ResponseWriter, r *http.Request) {
	t, ok := h.talent(w, r)
	if !ok {
		return
	}
	cvs, err := h.store.ListCVs(r.Context(), t.ID)
	if err != nil {
		h.storeError(w, r, err, "CVs")
		return
	}
	if cvs == nil {
		cvs = []models.CV{}
	}
	respond.JSON(w, http.StatusOK, "CVs", cvs)
}

// handleAddCV accepts either a multipart upload in the "file" field or a
// JSON body naming an already stored path.
func (h *TalentHandler) handleAddCV(w http.ResponseWriter, r *http.Request) {
	t, ok := h.talent(w, r)
	if !ok {
		return
	}

	var (
		cv       models.CV
		uploaded bool
	)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		stored, err := h.saveUpload(w, r)
		if err != nil {
			var ue uploadError
			if errors.As(err, &ue) {
				respond.Error(w, ue.status, ue.msg)
				return
			}
			h.logger.Errorw("store CV upload failed", "error", err)
			respond.Error(w, http.StatusInternalServerError, "failed to store CV")
			return
		}
		cv, uploaded = stored, true
	} else {
		var req dto.CVPathRequest
		if err := respond.Decode(r, &req); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
			return
		}
		if strings.TrimSpace(req.Path) == "" {
			respond.Error(w, http.StatusBadRequest, "CV path is required")
			return
		}
		cv = models.CV{Name: strings.TrimSpace(req.Name), Path: strings.TrimSpace(req.Path)}
		if _, inside := h.inUploadDir(cv.Path); inside {
			respond.Error(w, http.StatusBadRequest, "CV path must not point into the upload directory")
			return
		}
		if cv.Name == "" {
			cv.Name = filepath.Base(cv.Path)
		}
	}

	cv.TalentID = t.ID
	created, err := h.store.AddCV(r.Context(), cv)
	if err != nil {
		if uploaded {
			h.removeUpload(cv.Path)
		}
		h.storeError(w, r, err, "CV")
		return
	}
	respond.JSON(w, http.StatusCreated, "CV added", created)
}

func (h *TalentHandler) handleDeleteCV(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "invalid CV id")
		return
	}
	t, ok := h.talent(w, r)
	if !ok {
		return
	}
	removed, err := h.store.DeleteCV(r.Context(), t.ID, id)
	if err != nil {
		h.storeError(w, r, err, "CV")
		return
	}
	h.removeUpload(removed.Path)
	respond.JSON(w, http.StatusOK, "CV deleted", nil)
}

type uploadError struct {
	status int
	msg    string
}

func (e uploadError) Error() string { return e.msg }

// saveUpload copies the "file" part into uploadDir/cvs under a random name.
func (h *TalentHandler) saveUpload(w http.ResponseWriter, r *http.Request) (models.CV, error) {
	if h.maxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return models.CV{}, uploadError{http.StatusRequestEntityTooLarge, "CV exceeds the upload limit"}
		}
		return models.CV{}, uploadError{http.StatusBadRequest, "multipart field \"file\" is required"}
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedCVExtensions[ext] {
		return models.CV{}, uploadError{http.StatusBadRequest, "CV must be a PDF or Word document"}
	}

	dir := filepath.Join(h.uploadDir, "cvs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return models.CV{}, fmt.Errorf("create upload dir: %w", err)
	}
	path := filepath.Join(dir, uuid.NewString()+ext)
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return models.CV{}, fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(out, file); err != nil {
		out.Close()
		os.Remove(path)
		return models.CV{}, fmt.Errorf("write upload file: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return models.CV{}, fmt.Errorf("close upload file: %w", err)
	}
	return models.CV{Name: filepath.Base(header.Filename), Path: path}, nil
}

// inUploadDir resolves path and reports whether it lies inside the upload
// directory.
func (h *TalentHandler) inUploadDir(path string) (string, bool) {
	if path == "" || h.uploadDir == "" {
		return "", false
	}
	root, err := filepath.Abs(h.uploadDir)
	if err != nil {
		return "", false
	}
	abs, err := filepath.Abs(path)
	if err != nil || !strings.HasPrefix(abs, root+string(filepath.Separator)) {
		return "", false
	}
	return abs, true
}

// removeUpload deletes a file written by saveUpload: uploadDir/cvs/<uuid><ext>.
// Any other path is left alone.
func (h *TalentHandler) removeUpload(path string) {
	abs, ok := h.inUploadDir(path)
	if !ok || !isStoredUploadName(abs, filepath.Join(h.uploadDir, "cvs")) {
		return
	}
	if err := os.Remove(abs); err != nil && !errors.Is(err, os.ErrNotExist) {
		h.logger.Warnw("remove CV file failed", "path", abs, "error", err)
	}
}

func isStoredUploadName(abs, dir string) bool {
	root, err := filepath.Abs(dir)
	if err != nil || filepath.Dir(abs) != root {
		return false
	}
	base := filepath.Base(abs)
	ext := filepath.Ext(base)
	if !allowedCVExtensions[strings.ToLower(ext)] {
		return false
	}
	_, err = uuid.Parse(strings.TrimSuffix(base, ext))
	return err == nil
}
