package repositories

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rohits-web03/filekeep/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FileStore is the metadata store for files and access tokens.
//
// Every file-targeted method takes a single identifier that is matched against
// both the generated id and the original name of the caller's files. When more
// than one row matches, an exact id match wins, then a live row over a deleted
// one, then the most recently created row.
type FileStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewFileStore creates a metadata store on top of db.
func NewFileStore(db *gorm.DB) *FileStore {
	return &FileStore{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// lookup scopes a query to the file identified by (userID, file), best match
// first.
func (s *FileStore) lookup(ctx context.Context, db *gorm.DB, userID, file string) *gorm.DB {
	return db.WithContext(ctx).
		Model(&models.File{}).
		Where("user_id = ? AND (id = ? OR name = ?)", userID, file, file).
		Clauses(clause.OrderBy{Expression: clause.Expr{
			SQL:                "CASE WHEN id = ? THEN 0 ELSE 1 END, CASE WHEN delete_date IS NULL THEN 0 ELSE 1 END, create_date DESC",
			Vars:               []any{file},
			WithoutParentheses: true,
		}})
}

func notFound(err error, userID, file string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("file %q of user %q: %w", file, userID, models.ErrNotFound)
	}
	return err
}

// InsertFile records a new file for user and returns its generated id.
func (s *FileStore) InsertFile(ctx context.Context, user *models.User, f models.NewFile) (string, error) {
	record := models.File{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		Name:        f.Name,
		Size:        f.Size,
		Path:        f.Path,
		ContentType: f.ContentType,
		CreateDate:  s.now(),
		Public:      f.Public,
	}
	// Select("*") so a false Public is written instead of the column default.
	if err := s.db.WithContext(ctx).Select("*").Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to insert file: %w", err)
	}
	return record.ID, nil
}

// GetFile returns the full record.
func (s *FileStore) GetFile(ctx context.Context, userID, file string) (*models.File, error) {
	var record models.File
	if err := s.lookup(ctx, s.db, userID, file).Take(&record).Error; err != nil {
		return nil, notFound(err, userID, file)
	}
	return &record, nil
}

// GetFileAccess returns only the visibility of the file.
func (s *FileStore) GetFileAccess(ctx context.Context, userID, file string) (models.FileAccess, error) {
	var access models.FileAccess
	if err := s.lookup(ctx, s.db, userID, file).Select("public").Take(&access).Error; err != nil {
		return models.FileAccess{}, notFound(err, userID, file)
	}
	return access, nil
}

// UpdateFileAccess stores the new visibility, bumps update_date and returns
// the stored value.
func (s *FileStore) UpdateFileAccess(ctx context.Context, userID, file string, public bool) (bool, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record models.File
		if err := s.lookup(ctx, tx, userID, file).Select("id").Take(&record).Error; err != nil {
			return notFound(err, userID, file)
		}
		return tx.Model(&models.File{}).
			Where("id = ? AND user_id = ?", record.ID, userID).
			Updates(map[string]any{"public": public, "update_date": s.now()}).Error
	})
	if err != nil {
		return false, err
	}
	return public, nil
}

// DeleteFile soft-deletes the file and returns its blob path so the caller
// can remove the bytes. Only delete_date is written. A file that is already
// deleted yields models.ErrDeleted and keeps its original delete_date.
func (s *FileStore) DeleteFile(ctx context.Context, userID, file string) (string, error) {
	var path string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record models.File
		if err := s.lookup(ctx, tx, userID, file).Take(&record).Error; err != nil {
			return notFound(err, userID, file)
		}

		res := tx.Model(&models.File{}).
			Where("id = ? AND user_id = ? AND delete_date IS NULL", record.ID, userID).
			Update("delete_date", s.now())
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("file %q of user %q: %w", file, userID, models.ErrDeleted)
		}
		path = record.Path
		return nil
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

// VerifyFileExist reports whether (userID, file) matches a row, deleted or not.
func (s *FileStore) VerifyFileExist(ctx context.Context, userID, file string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.File{}).
		Where("user_id = ? AND (id = ? OR name = ?)", userID, file, file).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// VerifyAccessToken compares token with the user's stored access token.
// An unknown user never verifies.
func (s *FileStore) VerifyAccessToken(ctx context.Context, userID, token string) (bool, error) {
	var user models.User
	err := s.db.WithContext(ctx).Select("access_token").Where("id = ?", userID).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if user.AccessToken == "" {
		return false, nil
	}
	return subtle.ConstantTimeCompare([]byte(user.AccessToken), []byte(token)) == 1, nil
}

// IsFileDeleted reports whether the file has a delete_date.
func (s *FileStore) IsFileDeleted(ctx context.Context, userID, file string) (bool, error) {
	record, err := s.GetFile(ctx, userID, file)
	if err != nil {
		return false, err
	}
	return record.Deleted(), nil
}

// ListFiles returns all records owned by userID, newest first.
func (s *FileStore) ListFiles(ctx context.Context, userID string) ([]models.File, error) {
	var files []models.File
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("create_date DESC").
		Find(&files).Error
	return files, err
}
