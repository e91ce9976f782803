package files

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/filedrop/service/internal/errdefs"
	"github.com/filedrop/service/internal/response"
)

// FileService is what the handlers need from Service.
type FileService interface {
	Record(ctx context.Context, in RecordInput) (*FileRecord, error)
	List(ctx context.Context) ([]FileRecord, error)
	Get(ctx context.Context, id int64) (*FileRecord, error)
}

// Handler holds HTTP handlers for file metadata endpoints.
type Handler struct {
	svc       FileService
	withStack bool
}

// NewHandler creates a new files Handler. withStack adds stack traces to
// unexpected-error responses and should only be set in development.
func NewHandler(svc FileService, withStack bool) *Handler {
	return &Handler{svc: svc, withStack: withStack}
}

// Routes mounts the file endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.Record)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Get("/{id}/download", h.Download)
}

type recordRequest struct {
	FileURL  string `json:"file_url"  example:"http://localhost:9000/files/uploads/1760700000000-report.pdf"`
	FileName string `json:"file_name" example:"report.pdf"`
	FileSize *int64 `json:"file_size,omitempty" example:"52133"`
}

type recordResponse struct {
	Message string      `json:"message" example:"File URL saved successfully"`
	Data    *FileRecord `json:"data"`
}

type listResponse struct {
	Files []FileRecord `json:"files"`
	Count int          `json:"count" example:"1"`
}

// Record godoc
//
//	@Summary		Record an uploaded file
//	@Description	Insert one metadata row for bytes already stored. Repeated calls insert duplicate rows.
//	@Tags			files
//	@Accept			json
//	@Produce		json
//	@Param			request	body		recordRequest	true	"File metadata"
//	@Success		200		{object}	recordResponse
//	@Failure		400		{object}	response.ErrorBody
//	@Failure		500		{object}	response.ErrorBody
//	@Router			/files [post]
func (h *Handler) Record(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	f, err := h.svc.Record(r.Context(), RecordInput{
		FileURL:  req.FileURL,
		FileName: req.FileName,
		FileSize: req.FileSize,
	})
	if err != nil {
		response.FromError(w, err, "Insert failed", h.withStack)
		return
	}

	response.OK(w, recordResponse{Message: "File URL saved successfully", Data: f})
}

// List godoc
//
//	@Summary		List uploaded files
//	@Description	All recorded files, most recent first.
//	@Tags			files
//	@Produce		json
//	@Success		200	{object}	listResponse
//	@Failure		500	{object}	response.ErrorBody
//	@Router			/files [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	files, err := h.svc.List(r.Context())
	if err != nil {
		response.FromError(w, err, "Fetch failed", h.withStack)
		return
	}
	if files == nil {
		files = []FileRecord{}
	}
	response.OK(w, listResponse{Files: files, Count: len(files)})
}

// Get godoc
//
//	@Summary		Get one file record
//	@Tags			files
//	@Produce		json
//	@Param			id	path		int	true	"File id"
//	@Success		200	{object}	FileRecord
//	@Failure		400	{object}	response.ErrorBody
//	@Failure		404	{object}	response.ErrorBody
//	@Failure		500	{object}	response.ErrorBody
//	@Router			/files/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	f, ok := h.lookup(w, r)
	if !ok {
		return
	}
	response.OK(w, f)
}

// Download godoc
//
//	@Summary		Download a file
//	@Description	Redirects to the stored public URL.
//	@Tags			files
//	@Param			id	path	int	true	"File id"
//	@Success		302
//	@Failure		400	{object}	response.ErrorBody
//	@Failure		404	{object}	response.ErrorBody
//	@Router			/files/{id}/download [get]
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	f, ok := h.lookup(w, r)
	if !ok {
		return
	}
	http.Redirect(w, r, f.FileURL, http.StatusFound)
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*FileRecord, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		response.FromError(w, fmt.Errorf("invalid file id: %w", errdefs.ErrValidation), "", h.withStack)
		return nil, false
	}
	f, err := h.svc.Get(r.Context(), id)
	if err != nil {
		response.FromError(w, err, "Fetch failed", h.withStack)
		return nil, false
	}
	return f, true
}
