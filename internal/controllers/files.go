package controllers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rohits-web03/filekeep/internal/models"
)

// MetadataStore is the persistence the files controller relies on. File
// identifiers are matched against both the generated id and the original name.
type MetadataStore interface {
	InsertFile(ctx context.Context, user *models.User, f models.NewFile) (string, error)
	GetFile(ctx context.Context, userID, file string) (*models.File, error)
	GetFileAccess(ctx context.Context, userID, file string) (models.FileAccess, error)
	UpdateFileAccess(ctx context.Context, userID, file string, public bool) (bool, error)
	DeleteFile(ctx context.Context, userID, file string) (string, error)
	VerifyFileExist(ctx context.Context, userID, file string) (bool, error)
	VerifyAccessToken(ctx context.Context, userID, token string) (bool, error)
	IsFileDeleted(ctx context.Context, userID, file string) (bool, error)
}

// BlobRemover deletes the bytes behind a stored path.
type BlobRemover interface {
	Remove(ctx context.Context, path string) error
}

// Metadata is the public projection of a file record. Updated and Deleted are
// omitted when the file was never updated or is not deleted.
type Metadata struct {
	Name    string     `json:"name"`
	Size    int64      `json:"size"`
	Created time.Time  `json:"created"`
	Updated *time.Time `json:"updated,omitempty"`
	Deleted *time.Time `json:"deleted,omitempty"`
}

// NewMetadata projects a record.
func NewMetadata(f *models.File) *Metadata {
	return &Metadata{
		Name:    f.Name,
		Size:    f.Size,
		Created: f.CreateDate,
		Updated: f.UpdateDate,
		Deleted: f.DeleteDate,
	}
}

// FilesController enforces existence, deletion state, visibility and token
// checks before touching the store. It holds no state of its own.
//
// Checks always run in the same order: arguments, existence, deletion state,
// value validation, token. A caller learns whether a file exists before
// whether it may use it.
type FilesController struct {
	store MetadataStore
	blobs BlobRemover
}

func NewFilesController(store MetadataStore, blobs BlobRemover) *FilesController {
	return &FilesController{store: store, blobs: blobs}
}

// ParseAccess maps "public"/"private" (any case) to the public flag.
func ParseAccess(access string) (bool, error) {
	switch strings.ToLower(access) {
	case "public":
		return true, nil
	case "private":
		return false, nil
	default:
		return false, &Error{Kind: KindInvalidAccessValue, Value: access}
	}
}

// SaveFile records an uploaded file. Upload is authorized by the caller, so no
// token is checked.
func (c *FilesController) SaveFile(ctx context.Context, user *models.User, file *models.NewFile) (string, error) {
	if user == nil || user.ID == "" || file == nil {
		return "", ErrMissingArgument
	}

	id, err := c.store.InsertFile(ctx, user, *file)
	if err != nil {
		return "", storageFailure(err)
	}
	return id, nil
}

// DownloadFile returns the record of a live file the caller may read.
func (c *FilesController) DownloadFile(ctx context.Context, user *models.User, file, accessToken string) (*models.File, error) {
	if err := requireArgs(user, file); err != nil {
		return nil, err
	}
	if err := c.requireExisting(ctx, user.ID, file); err != nil {
		return nil, err
	}

	deleted, err := c.store.IsFileDeleted(ctx, user.ID, file)
	if err != nil {
		return nil, storeError(err)
	}
	if deleted {
		return nil, ErrFileDeleted
	}

	return c.readAuthorized(ctx, user.ID, file, accessToken)
}

// FileMetadata returns the projection of a file the caller may read. Deleted
// files still expose their metadata.
func (c *FilesController) FileMetadata(ctx context.Context, user *models.User, file, accessToken string) (*Metadata, error) {
	if err := requireArgs(user, file); err != nil {
		return nil, err
	}
	if err := c.requireExisting(ctx, user.ID, file); err != nil {
		return nil, err
	}

	record, err := c.readAuthorized(ctx, user.ID, file, accessToken)
	if err != nil {
		return nil, err
	}
	return NewMetadata(record), nil
}

// UpdateFileAccess sets the visibility of a live file and returns the new
// public flag.
func (c *FilesController) UpdateFileAccess(ctx context.Context, user *models.User, file, access, accessToken string) (bool, error) {
	if err := requireArgs(user, file); err != nil {
		return false, err
	}
	if access == "" {
		return false, ErrMissingArgument
	}
	if err := c.requireExisting(ctx, user.ID, file); err != nil {
		return false, err
	}

	deleted, err := c.store.IsFileDeleted(ctx, user.ID, file)
	if err != nil {
		return false, storeError(err)
	}
	if deleted {
		return false, ErrFileDeleted
	}

	public, err := ParseAccess(access)
	if err != nil {
		return false, err
	}

	if err := c.verifyToken(ctx, user.ID, accessToken); err != nil {
		return false, err
	}

	stored, err := c.store.UpdateFileAccess(ctx, user.ID, file, public)
	if err != nil {
		return false, storeError(err)
	}
	return stored, nil
}

// DeleteFile soft-deletes the record and removes the blob. Deleting twice is
// an error. If the blob cannot be removed the record stays marked deleted and
// the failure is returned.
func (c *FilesController) DeleteFile(ctx context.Context, user *models.User, file, accessToken string) (bool, error) {
	if err := requireArgs(user, file); err != nil {
		return false, err
	}
	if err := c.requireExisting(ctx, user.ID, file); err != nil {
		return false, err
	}

	deleted, err := c.store.IsFileDeleted(ctx, user.ID, file)
	if err != nil {
		return false, storeError(err)
	}
	if deleted {
		return false, ErrAlreadyDeleted
	}

	if err := c.verifyToken(ctx, user.ID, accessToken); err != nil {
		return false, err
	}

	path, err := c.store.DeleteFile(ctx, user.ID, file)
	if err != nil {
		return false, storeError(err)
	}
	if err := c.blobs.Remove(ctx, path); err != nil {
		return false, storageFailure(err)
	}
	return true, nil
}

func requireArgs(user *models.User, file string) error {
	if user == nil || user.ID == "" || file == "" {
		return ErrMissingArgument
	}
	return nil
}

func (c *FilesController) requireExisting(ctx context.Context, userID, file string) error {
	exists, err := c.store.VerifyFileExist(ctx, userID, file)
	if err != nil {
		return storageFailure(err)
	}
	if !exists {
		return ErrFileNotFound
	}
	return nil
}

// readAuthorized fetches the record, demanding a valid token unless the file
// is public.
func (c *FilesController) readAuthorized(ctx context.Context, userID, file, accessToken string) (*models.File, error) {
	access, err := c.store.GetFileAccess(ctx, userID, file)
	if err != nil {
		return nil, storeError(err)
	}
	if !access.Public {
		if err := c.verifyToken(ctx, userID, accessToken); err != nil {
			return nil, err
		}
	}

	record, err := c.store.GetFile(ctx, userID, file)
	if err != nil {
		return nil, storeError(err)
	}
	return record, nil
}

func (c *FilesController) verifyToken(ctx context.Context, userID, accessToken string) error {
	if accessToken == "" {
		return ErrMissingAccessToken
	}
	ok, err := c.store.VerifyAccessToken(ctx, userID, accessToken)
	if err != nil {
		return storageFailure(err)
	}
	if !ok {
		return ErrInvalidToken
	}
	return nil
}

// storeError maps a store failure that happened after the existence check.
func storeError(err error) error {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return ErrFileNotFound
	case errors.Is(err, models.ErrDeleted):
		return ErrAlreadyDeleted
	default:
		return storageFailure(err)
	}
}
