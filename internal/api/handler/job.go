package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hszk-dev/keyva/internal/domain/model"
	"github.com/hszk-dev/keyva/internal/domain/repository"
	"github.com/hszk-dev/keyva/internal/usecase"
)

// Request/Response types

type CreateJobRequest struct {
	UserID   string `json:"user_id"`
	Title    string `json:"title"`
	FileName string `json:"file_name"`
}

type CreateJobResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	UploadURL string `json:"upload_url"`
	CreatedAt string `json:"created_at"`
}

type JobResponse struct {
	ID            string `json:"id"`
	UserID        string `json:"user_id"`
	Title         string `json:"title"`
	Status        string `json:"status"`
	SourceKey     string `json:"source_key,omitempty"`
	KeyframeCount int    `json:"keyframe_count"`
	SceneCount    int    `json:"scene_count"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

type KeyframeResponse struct {
	ID          string `json:"id"`
	FrameIndex  int    `json:"frame_index"`
	SceneNumber int    `json:"scene_number"`
	Timecode    string `json:"timecode"`
	Ordinal     int    `json:"ordinal"`
	ImageURL    string `json:"image_url"`
}

type ListKeyframesResponse struct {
	JobID     string             `json:"job_id"`
	Keyframes []KeyframeResponse `json:"keyframes"`
}

// JobHandler handles extraction-job HTTP requests.
type JobHandler struct {
	svc usecase.JobService
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(svc usecase.JobService) *JobHandler {
	return &JobHandler{svc: svc}
}

// Create handles POST /v1/jobs
func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_user_id", "User ID must be a valid UUID")
		return
	}

	if req.Title == "" {
		Error(w, http.StatusBadRequest, "invalid_title", "Title is required")
		return
	}

	if req.FileName == "" {
		Error(w, http.StatusBadRequest, "invalid_file_name", "File name is required")
		return
	}

	output, err := h.svc.CreateJob(r.Context(), usecase.CreateJobInput{
		UserID:   userID,
		Title:    req.Title,
		FileName: req.FileName,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusCreated, CreateJobResponse{
		ID:        output.Job.ID.String(),
		UserID:    output.Job.UserID.String(),
		Title:     output.Job.Title,
		Status:    output.Job.Status.String(),
		UploadURL: output.UploadURL,
		CreatedAt: output.Job.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// TriggerExtract handles POST /v1/jobs/{id}/extract
func (h *JobHandler) TriggerExtract(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_job_id", "Job ID must be a valid UUID")
		return
	}

	if err := h.svc.TriggerExtract(r.Context(), jobID); err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

// Get handles GET /v1/jobs/{id}
func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_job_id", "Job ID must be a valid UUID")
		return
	}

	job, err := h.svc.GetJob(r.Context(), jobID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toJobResponse(job))
}

// ListKeyframes handles GET /v1/jobs/{id}/keyframes
func (h *JobHandler) ListKeyframes(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_job_id", "Job ID must be a valid UUID")
		return
	}

	items, err := h.svc.ListKeyframes(r.Context(), jobID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	resp := ListKeyframesResponse{
		JobID:     jobID.String(),
		Keyframes: make([]KeyframeResponse, 0, len(items)),
	}
	for _, item := range items {
		resp.Keyframes = append(resp.Keyframes, KeyframeResponse{
			ID:          item.Keyframe.ID.String(),
			FrameIndex:  item.Keyframe.FrameIndex,
			SceneNumber: item.Keyframe.SceneNumber,
			Timecode:    item.Keyframe.Timecode,
			Ordinal:     item.Keyframe.Ordinal,
			ImageURL:    item.DownloadURL,
		})
	}

	JSON(w, http.StatusOK, resp)
}

func (h *JobHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrJobNotFound):
		Error(w, http.StatusNotFound, "job_not_found", "Job not found")
	case errors.Is(err, model.ErrInvalidUserID):
		Error(w, http.StatusBadRequest, "invalid_user_id", "User ID cannot be empty")
	case errors.Is(err, model.ErrEmptyTitle):
		Error(w, http.StatusBadRequest, "invalid_title", "Title cannot be empty")
	case errors.Is(err, model.ErrTitleTooLong):
		Error(w, http.StatusBadRequest, "invalid_title", "Title exceeds maximum length")
	case errors.Is(err, usecase.ErrJobAlreadyCompleted):
		Error(w, http.StatusConflict, "job_already_completed", "Job processing has already completed")
	default:
		Error(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}

func toJobResponse(j *model.Job) JobResponse {
	return JobResponse{
		ID:            j.ID.String(),
		UserID:        j.UserID.String(),
		Title:         j.Title,
		Status:        j.Status.String(),
		SourceKey:     j.SourceKey,
		KeyframeCount: j.KeyframeCount,
		SceneCount:    j.SceneCount,
		CreatedAt:     j.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:     j.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
