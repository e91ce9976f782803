package upload

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/filedrop/service/internal/errdefs"
	"github.com/filedrop/service/internal/response"
)

// maxDirectBody caps the request body when only a file name is expected.
const maxDirectBody = 64 << 10

// Issuer is what the handler needs from Service.
type Issuer interface {
	Mode() string
	InlineMaxBytes() int64
	IssueTarget(ctx context.Context, name string) (*Target, error)
	UploadInline(ctx context.Context, in InlineInput) (*InlineResult, error)
}

// Handler holds the HTTP handler for upload targets.
type Handler struct {
	svc       Issuer
	withStack bool
}

// NewHandler creates a new upload Handler.
func NewHandler(svc Issuer, withStack bool) *Handler {
	return &Handler{svc: svc, withStack: withStack}
}

type uploadURLRequest struct {
	FileName string  `json:"fileName" example:"report.pdf"`
	FileData *string `json:"fileData,omitempty" example:"aGVsbG8="`
	FileType string  `json:"fileType,omitempty" example:"application/pdf"`
}

type signedTargetResponse struct {
	SignedURL string    `json:"signedUrl" example:"http://localhost:9000/files/uploads/1760700000000-report.pdf?X-Amz-Signature=..."`
	Method    string    `json:"method"    example:"PUT"`
	Path      string    `json:"path"      example:"uploads/1760700000000-report.pdf"`
	PublicURL string    `json:"publicUrl" example:"http://localhost:9000/files/uploads/1760700000000-report.pdf"`
	ExpiresAt time.Time `json:"expiresAt" example:"2026-10-17T15:03:34Z"`
}

type inlineUploadResponse struct {
	Success   bool   `json:"success"   example:"true"`
	Path      string `json:"path"      example:"uploads/1760700000000-report.pdf"`
	PublicURL string `json:"publicUrl" example:"http://localhost:9000/files/uploads/1760700000000-report.pdf"`
}

// UploadURL godoc
//
//	@Summary		Request an upload target
//	@Description	Direct mode: returns a single-use signed PUT URL and the token-free public URL. Inline mode: accepts base64 fileData, stores it server-side and returns the public URL.
//	@Tags			uploads
//	@Accept			json
//	@Produce		json
//	@Param			request	body		uploadURLRequest	true	"File name (and data in inline mode)"
//	@Success		200		{object}	signedTargetResponse
//	@Success		201		{object}	inlineUploadResponse
//	@Failure		400		{object}	response.ErrorBody
//	@Failure		413		{object}	response.ErrorBody
//	@Failure		500		{object}	response.ErrorBody
//	@Router			/upload-url [post]
func (h *Handler) UploadURL(w http.ResponseWriter, r *http.Request) {
	inline := h.svc.Mode() == ModeInline

	limit := int64(maxDirectBody)
	if inline {
		limit += int64(base64.StdEncoding.EncodedLen(int(h.svc.InlineMaxBytes())))
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	var req uploadURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			if inline {
				response.FromError(w, h.oversized(r), "", h.withStack)
			} else {
				response.Error(w, http.StatusRequestEntityTooLarge, "request body too large")
			}
			return
		}
		response.BadRequest(w, "invalid request body")
		return
	}

	if !inline {
		if req.FileData != nil {
			response.BadRequest(w, "inline uploads are disabled: send fileName only and PUT the bytes to signedUrl")
			return
		}
		t, err := h.svc.IssueTarget(r.Context(), req.FileName)
		if err != nil {
			response.FromError(w, err, "Upload URL failed", h.withStack)
			return
		}
		response.OK(w, signedTargetResponse{
			SignedURL: t.SignedURL,
			Method:    t.Method,
			Path:      t.Path,
			PublicURL: t.PublicURL,
			ExpiresAt: t.ExpiresAt,
		})
		return
	}

	if req.FileData == nil {
		response.FromError(w, fmt.Errorf("fileData is required: %w", errdefs.ErrValidation), "", h.withStack)
		return
	}
	res, err := h.svc.UploadInline(r.Context(), InlineInput{
		FileName: req.FileName,
		FileData: *req.FileData,
		FileType: req.FileType,
	})
	if err != nil {
		response.FromError(w, err, "Upload failed", h.withStack)
		return
	}
	response.Created(w, inlineUploadResponse{Success: true, Path: res.Path, PublicURL: res.PublicURL})
}

// oversized estimates the decoded size of a body that hit the read cap.
func (h *Handler) oversized(r *http.Request) error {
	limit := h.svc.InlineMaxBytes()
	size := limit + 1
	if r.ContentLength > 0 {
		if est := int64(base64.StdEncoding.DecodedLen(int(r.ContentLength))); est > size {
			size = est
		}
	}
	return &errdefs.SizeLimitError{Size: size, Limit: limit}
}
