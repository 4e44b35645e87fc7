package handlers

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rohits-web03/filekeep/internal/api/middleware"
	"github.com/rohits-web03/filekeep/internal/controllers"
	"github.com/rohits-web03/filekeep/internal/models"
	"github.com/rohits-web03/filekeep/internal/repositories"
	"github.com/rohits-web03/filekeep/internal/utils"
)

// AccessTokenHeader carries the per-user access token on file requests.
const AccessTokenHeader = "X-Access-Token"

const presignTTL = 15 * time.Minute

// multipartMemory is how much of a multipart body is buffered in RAM; the
// rest spills to temp files. The upload cap is enforced separately.
const multipartMemory = 32 << 20

type presigner interface {
	PresignGet(ctx context.Context, key string, expires time.Duration) (string, error)
}

// accessToken reads the token from the header, falling back to ?token=.
func accessToken(r *http.Request) string {
	if token := r.Header.Get(AccessTokenHeader); token != "" {
		return token
	}
	return r.URL.Query().Get("token")
}

// pathUser builds the owner identity from the route.
func pathUser(r *http.Request) *models.User {
	id := r.PathValue("user")
	if id == "" {
		return nil
	}
	return &models.User{ID: id}
}

// POST /api/v1/files
// UploadFile godoc
// @Summary Upload a file
// @Description Stores a single multipart file for the session user. Files are private unless access=public.
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload"
// @Param access query string false "public or private (default private)"
// @Success 201 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Failure 401 {object} utils.Payload
// @Router /api/v1/files [post]
func (h *Handler) UploadFile(w http.ResponseWriter, r *http.Request) {
	user, ok := h.sessionUser(w, r)
	if !ok {
		return
	}

	public := false
	if access := r.URL.Query().Get("access"); access != "" {
		var err error
		if public, err = controllers.ParseAccess(access); err != nil {
			writeError(w, "upload", err)
			return
		}
	}

	maxUploadSize := h.cfg.MaxUploadBytes()
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+(1<<20))
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid file upload form",
		})
		return
	}

	defer r.MultipartForm.RemoveAll()

	src, header, err := r.FormFile("file")
	if err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "No file provided",
		})
		return
	}
	defer src.Close()

	if header.Size > maxUploadSize {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: fmt.Sprintf("File size exceeds %d MB limit", h.cfg.MaxUploadMB),
		})
		return
	}

	contentType, err := sniff(src)
	if err != nil {
		writeError(w, "upload", err)
		return
	}

	path, err := h.blobs.Put(r.Context(), repositories.BlobName(header.Filename), src, header.Size, contentType)
	if err != nil {
		writeError(w, "upload", err)
		return
	}

	id, err := h.files.SaveFile(r.Context(), user, &models.NewFile{
		Name:        header.Filename,
		Size:        header.Size,
		Path:        path,
		ContentType: contentType,
		Public:      public,
	})
	if err != nil {
		if rmErr := h.blobs.Remove(r.Context(), path); rmErr != nil {
			log.Printf("Failed to remove orphaned blob %s: %v", path, rmErr)
		}
		writeError(w, "upload", err)
		return
	}

	recordOK("upload")
	utils.JSONResponse(w, http.StatusCreated, utils.Payload{
		Success: true,
		Message: "File uploaded successfully",
		Data: map[string]any{
			"id":     id,
			"public": public,
			"url":    fmt.Sprintf("/api/v1/users/%s/files/%s", user.ID, id),
		},
	})
}

// sniff detects the content type and rewinds the upload.
func sniff(src multipart.File) (string, error) {
	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind upload: %w", err)
	}
	return mtype.String(), nil
}

type fileEntry struct {
	ID     string `json:"id"`
	Public bool   `json:"public"`
	*controllers.Metadata
}

// GET /api/v1/files
// ListFiles godoc
// @Summary List own files
// @Tags Files
// @Produce json
// @Success 200 {object} utils.Payload
// @Failure 401 {object} utils.Payload
// @Router /api/v1/files [get]
func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		unauthorized(w)
		return
	}

	files, err := h.store.ListFiles(r.Context(), userID)
	if err != nil {
		writeError(w, "list", err)
		return
	}

	entries := make([]fileEntry, 0, len(files))
	for i := range files {
		entries = append(entries, fileEntry{
			ID:       files[i].ID,
			Public:   files[i].Public,
			Metadata: controllers.NewMetadata(&files[i]),
		})
	}

	recordOK("list")
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Files retrieved successfully",
		Data:    entries,
	})
}

// GET /api/v1/users/{user}/files/{file}
// DownloadFile godoc
// @Summary Download a file
// @Description Public files need no token. Private files need the owner's access token.
// @Tags Files
// @Produce octet-stream
// @Param user path string true "Owner id"
// @Param file path string true "File id or original name"
// @Param X-Access-Token header string false "Owner access token"
// @Success 200 {file} binary
// @Failure 400 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Failure 410 {object} utils.Payload
// @Router /api/v1/users/{user}/files/{file} [get]
func (h *Handler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	record, err := h.files.DownloadFile(r.Context(), pathUser(r), r.PathValue("file"), accessToken(r))
	if err != nil {
		writeError(w, "download", err)
		return
	}

	if p, ok := h.blobs.(presigner); ok && h.cfg.R2.PresignDownloads {
		url, err := p.PresignGet(r.Context(), record.Path, presignTTL)
		if err != nil {
			writeError(w, "download", err)
			return
		}
		recordOK("download")
		http.Redirect(w, r, url, http.StatusTemporaryRedirect)
		return
	}

	blob, err := h.blobs.Open(r.Context(), record.Path)
	if err != nil {
		writeError(w, "download", err)
		return
	}
	defer blob.Close()

	contentType := record.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(record.Size, 10))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", record.Name))
	w.WriteHeader(http.StatusOK)

	recordOK("download")
	if _, err := io.Copy(w, blob); err != nil {
		log.Printf("Download of %s interrupted: %v", record.ID, err)
	}
}

// GET /api/v1/users/{user}/files/{file}/metadata
// FileMetadata godoc
// @Summary File metadata
// @Description Returns name, size and dates. updated and deleted are present only when set. Deleted files keep their metadata.
// @Tags Files
// @Produce json
// @Param user path string true "Owner id"
// @Param file path string true "File id or original name"
// @Param X-Access-Token header string false "Owner access token"
// @Success 200 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /api/v1/users/{user}/files/{file}/metadata [get]
func (h *Handler) FileMetadata(w http.ResponseWriter, r *http.Request) {
	md, err := h.files.FileMetadata(r.Context(), pathUser(r), r.PathValue("file"), accessToken(r))
	if err != nil {
		writeError(w, "metadata", err)
		return
	}

	recordOK("metadata")
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Metadata retrieved successfully",
		Data:    md,
	})
}

type accessInput struct {
	Access string `json:"access"`
}

// PUT /api/v1/users/{user}/files/{file}/access
// UpdateFileAccess godoc
// @Summary Change file visibility
// @Tags Files
// @Accept json
// @Produce json
// @Param user path string true "Owner id"
// @Param file path string true "File id or original name"
// @Param X-Access-Token header string true "Owner access token"
// @Param body body accessInput true "public or private"
// @Success 200 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Failure 410 {object} utils.Payload
// @Router /api/v1/users/{user}/files/{file}/access [put]
func (h *Handler) UpdateFileAccess(w http.ResponseWriter, r *http.Request) {
	var input accessInput
	if err := utils.DecodeJSON(r, &input, true); err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid input",
		})
		return
	}
	if input.Access == "" {
		input.Access = r.URL.Query().Get("access")
	}

	public, err := h.files.UpdateFileAccess(r.Context(), pathUser(r), r.PathValue("file"), input.Access, accessToken(r))
	if err != nil {
		writeError(w, "update_access", err)
		return
	}

	recordOK("update_access")
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "File access updated",
		Data:    models.FileAccess{Public: public},
	})
}

// DELETE /api/v1/users/{user}/files/{file}
// DeleteFile godoc
// @Summary Delete a file
// @Description Marks the record deleted and removes the stored bytes. Deleting twice returns 409.
// @Tags Files
// @Produce json
// @Param user path string true "Owner id"
// @Param file path string true "File id or original name"
// @Param X-Access-Token header string true "Owner access token"
// @Success 200 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Failure 409 {object} utils.Payload
// @Router /api/v1/users/{user}/files/{file} [delete]
func (h *Handler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	if _, err := h.files.DeleteFile(r.Context(), pathUser(r), r.PathValue("file"), accessToken(r)); err != nil {
		writeError(w, "delete", err)
		return
	}

	recordOK("delete")
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "File deleted",
	})
}
