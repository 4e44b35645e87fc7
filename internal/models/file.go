package models

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned by the store when no row matches a lookup.
	ErrNotFound = errors.New("record not found")
	// ErrDeleted is returned when deleting a file that is already deleted.
	ErrDeleted = errors.New("record already deleted")
)

// File is the metadata row of an uploaded blob. It is looked up by
// (UserID, ID) or (UserID, Name).
type File struct {
	ID          string     `json:"id" gorm:"type:varchar(64);primaryKey"`
	UserID      string     `json:"userId" gorm:"type:varchar(64);not null;index"`
	Name        string     `json:"name" gorm:"not null;index"`
	Size        int64      `json:"size" gorm:"not null"` // bytes
	Path        string     `json:"-" gorm:"not null"`    // blob location
	ContentType string     `json:"contentType"`
	CreateDate  time.Time  `json:"created" gorm:"column:create_date;not null"`
	UpdateDate  *time.Time `json:"updated,omitempty" gorm:"column:update_date"`
	DeleteDate  *time.Time `json:"deleted,omitempty" gorm:"column:delete_date"` // non-nil once soft-deleted
	Public      bool       `json:"public" gorm:"not null;default:false"`
}

// Deleted reports whether the file has been soft-deleted.
func (f *File) Deleted() bool {
	return f.DeleteDate != nil
}

// NewFile describes a blob that has already been written and is about to be
// recorded.
type NewFile struct {
	Name        string
	Size        int64
	Path        string
	ContentType string
	Public      bool
}

// FileAccess is the visibility projection of a File.
type FileAccess struct {
	Public bool `json:"public"`
}
