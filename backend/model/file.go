package model

import (
	"errors"

	"github.com/burugo/thing"
)

// File is the metadata record for one stored object. The blob handle
// (StoragePath) never leaves the backend.
type File struct {
	thing.BaseModel
	OwnerID       int64  `json:"owner_id,omitempty" db:"owner_id,index"` // 0 marks an anonymously-uploaded, ownerless file
	Name          string `json:"name" db:"name"`
	Size          int64  `json:"size" db:"size"`
	ContentType   string `json:"content_type" db:"content_type"`
	StoragePath   string `json:"-" db:"storage_path"`
	Hash          string `json:"hash" db:"hash"`
	IsPublic      bool   `json:"is_public" db:"is_public"`
	DownloadCount int64  `json:"download_count" db:"download_count"`
}

func (f *File) TableName() string {
	return "files"
}

// IsAnonymous reports whether the file has no owning account.
func (f *File) IsAnonymous() bool {
	return f.OwnerID == 0
}

var FileDB *thing.Thing[*File]

// FileInit 用于在 InitDB 时初始化 FileDB
func FileInit() error {
	var err error
	FileDB, err = thing.Use[*File]()
	if err != nil {
		return err
	}
	return nil
}

// GetFileById returns the file with the given id, ErrRecordNotFound when the
// row is absent or soft-deleted.
func GetFileById(id int64) (*File, error) {
	if id == 0 {
		return nil, errors.New("empty_id")
	}
	files, err := FileDB.Where("id = ? AND deleted = 0", id).Fetch(0, 1)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrRecordNotFound
	}
	return files[0], nil
}

// GetFilesByOwner returns one page of the owner's files, newest first, plus
// the total count.
func GetFilesByOwner(ownerID int64, page, pageSize int) ([]*File, int64, error) {
	if page <= 0 {
		page = 1
	}
	files, err := FileDB.Where("owner_id = ? AND deleted = 0", ownerID).
		Order("created_at DESC").
		Fetch((page-1)*pageSize, pageSize)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	err = rawDB.QueryRow(
		"SELECT COUNT(*) FROM files WHERE owner_id = ? AND deleted = 0", ownerID,
	).Scan(&total)
	if err != nil {
		return nil, 0, err
	}
	return files, total, nil
}

func (f *File) Insert() error {
	return FileDB.Save(f)
}

// Delete removes the metadata row after retiring every share that points at
// it. Shares go first: if the process dies between the two steps, the file
// is merely unshared, never silently still-servable through a dead code.
func (f *File) Delete() error {
	if err := RetireSharesForFile(f.ID); err != nil {
		return err
	}
	return FileDB.Delete(f)
}

// IncrementFileDownloadCount bumps the analytics counter on a file. It does
// not gate access; share-based limits are enforced on the share's own
// counter. The bump is a store-side atomic update so counts stay correct
// across instances.
func IncrementFileDownloadCount(fileID int64) error {
	_, err := rawDB.Exec(
		"UPDATE files SET download_count = download_count + 1 WHERE id = ?", fileID,
	)
	return err
}
