package model

import (
	"database/sql"
	"errors"
	"time"
)

// ShareState is the lifecycle state of a share, evaluated lazily at read
// time. EXPIRED and EXHAUSTED rows persist for audit; DELETED rows are kept
// as tombstones so a dead code answers Gone instead of NotFound.
type ShareState string

const (
	ShareStateActive    ShareState = "active"
	ShareStateExpired   ShareState = "expired"
	ShareStateExhausted ShareState = "exhausted"
	ShareStateDeleted   ShareState = "deleted"
)

var (
	// ErrShareGone marks a share that exists but is no longer servable.
	ErrShareGone = errors.New("share_gone")
	// ErrShareCodeTaken marks a creation attempt with a code another active
	// share already holds.
	ErrShareCodeTaken = errors.New("share_code_taken")
)

// Share is a capability record: possession of Code grants access to the file
// subject to expiry and download-limit policy, no identity required.
//
// Every increment of DownloadCount and every boundary check against
// DownloadLimit must be observed as if serialized, across processes. All
// access therefore goes through rawDB with single-statement conditional
// writes; the ORM cache must never hold share rows.
type Share struct {
	ID            int64      `json:"id"`
	FileID        int64      `json:"file_id"`
	Code          string     `json:"code"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"` // nil means the share never expires
	DownloadLimit int        `json:"download_limit"`       // 0 means unlimited
	DownloadCount int        `json:"download_count"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	Deleted       bool       `json:"-"`
}

// shareLiveCond matches rows that are servable right now. Expiry is a closed
// interval on the past side: expires_at == now counts as expired.
const shareLiveCond = `deleted = 0
	AND (expires_at IS NULL OR expires_at > ?)
	AND (download_limit <= 0 OR download_count < download_limit)`

func migrateShares() error {
	_, err := rawDB.Exec(`
		CREATE TABLE IF NOT EXISTS shares (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			file_id INTEGER NOT NULL,
			code TEXT NOT NULL,
			expires_at DATETIME,
			download_limit INTEGER NOT NULL DEFAULT 0,
			download_count INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			deleted INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_shares_code ON shares(code);
		CREATE INDEX IF NOT EXISTS idx_shares_file_id ON shares(file_id);
	`)
	return err
}

// State evaluates the share's lifecycle state at the given instant.
func (s *Share) State(now time.Time) ShareState {
	switch {
	case s.Deleted:
		return ShareStateDeleted
	case s.ExpiresAt != nil && !now.Before(*s.ExpiresAt):
		return ShareStateExpired
	case s.DownloadLimit > 0 && s.DownloadCount >= s.DownloadLimit:
		return ShareStateExhausted
	default:
		return ShareStateActive
	}
}

const shareColumns = "id, file_id, code, expires_at, download_limit, download_count, created_at, updated_at, deleted"

func scanShare(row interface{ Scan(...any) error }) (*Share, error) {
	var s Share
	var expiresAt sql.NullTime
	err := row.Scan(&s.ID, &s.FileID, &s.Code, &expiresAt, &s.DownloadLimit,
		&s.DownloadCount, &s.CreatedAt, &s.UpdatedAt, &s.Deleted)
	if err != nil {
		return nil, err
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		s.ExpiresAt = &t
	}
	return &s, nil
}

// CreateShare inserts a share for the given code as one conditional
// statement: the row is written only if no currently-active share holds the
// code. Two concurrent creates racing on the same code therefore cannot both
// succeed; the loser gets ErrShareCodeTaken. Reuse of a code whose previous
// holder expired, exhausted or was deleted is allowed.
func CreateShare(fileID int64, code string, expiresAt *time.Time, downloadLimit int) (*Share, error) {
	now := time.Now()
	var expires any
	if expiresAt != nil {
		expires = *expiresAt
	}
	res, err := rawDB.Exec(`
		INSERT INTO shares (file_id, code, expires_at, download_limit, download_count, created_at, updated_at, deleted)
		SELECT ?, ?, ?, ?, 0, ?, ?, 0
		WHERE NOT EXISTS (
			SELECT 1 FROM shares WHERE code = ? AND `+shareLiveCond+`
		)`,
		fileID, code, expires, downloadLimit, now, now,
		code, now,
	)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrShareCodeTaken
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return GetShareById(id)
}

// GetShareById returns a share in any state, tombstones included.
func GetShareById(id int64) (*Share, error) {
	row := rawDB.QueryRow("SELECT "+shareColumns+" FROM shares WHERE id = ?", id)
	share, err := scanShare(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	return share, err
}

// GetShareByCode returns the active share for the code if one exists, else
// the most recent dead holder of the code (so callers can distinguish Gone
// from NotFound), else ErrRecordNotFound.
func GetShareByCode(code string, now time.Time) (*Share, error) {
	row := rawDB.QueryRow(
		"SELECT "+shareColumns+" FROM shares WHERE code = ? AND "+shareLiveCond+" LIMIT 1",
		code, now,
	)
	share, err := scanShare(row)
	if err == nil {
		return share, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	row = rawDB.QueryRow(
		"SELECT "+shareColumns+" FROM shares WHERE code = ? ORDER BY id DESC LIMIT 1", code,
	)
	share, err = scanShare(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	return share, err
}

// ConsumeShareDownload atomically claims one download slot for the code. The
// conditional update re-validates the ACTIVE state and increments the
// counter in a single statement, so two callers racing on the last slot get
// exactly one success: the download that reaches the limit still succeeds,
// every later attempt observes ErrShareGone. Never check-then-write here.
func ConsumeShareDownload(code string, now time.Time) (*Share, error) {
	share, err := GetShareByCode(code, now)
	if err != nil {
		return nil, err
	}
	if share.State(now) != ShareStateActive {
		return nil, ErrShareGone
	}

	res, err := rawDB.Exec(
		"UPDATE shares SET download_count = download_count + 1, updated_at = ? WHERE id = ? AND "+shareLiveCond,
		now, share.ID, now,
	)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		// Lost the race for the last slot, or the share expired in between.
		return nil, ErrShareGone
	}
	return GetShareById(share.ID)
}

// SoftDeleteShare retires a share, keeping the row as a tombstone.
// Idempotent: retiring an already-deleted share is a no-op.
func SoftDeleteShare(id int64) error {
	_, err := rawDB.Exec(
		"UPDATE shares SET deleted = 1, updated_at = ? WHERE id = ? AND deleted = 0",
		time.Now(), id,
	)
	return err
}

// RetireSharesForFile tombstones every live share of a file. Called before
// the file row itself is removed.
func RetireSharesForFile(fileID int64) error {
	_, err := rawDB.Exec(
		"UPDATE shares SET deleted = 1, updated_at = ? WHERE file_id = ? AND deleted = 0",
		time.Now(), fileID,
	)
	return err
}

// CountLiveSharesForFile counts non-deleted shares of a file, expired or
// not. Used for the anonymous-file cascade policy.
func CountLiveSharesForFile(fileID int64) (int64, error) {
	var n int64
	err := rawDB.QueryRow(
		"SELECT COUNT(*) FROM shares WHERE file_id = ? AND deleted = 0", fileID,
	).Scan(&n)
	return n, err
}

// ShareListItem is one row of an owner's share listing, with the file fields
// the listing needs denormalized in.
type ShareListItem struct {
	Share
	FileName    string `json:"file_name"`
	FileSize    int64  `json:"file_size"`
	ContentType string `json:"content_type"`
}

// GetSharesByOwner returns one page of the shares attached to the owner's
// files, newest first, plus the total count.
func GetSharesByOwner(ownerID int64, page, pageSize int) ([]*ShareListItem, int64, error) {
	if page <= 0 {
		page = 1
	}
	var total int64
	err := rawDB.QueryRow(`
		SELECT COUNT(*) FROM shares s
		JOIN files f ON f.id = s.file_id
		WHERE f.owner_id = ? AND s.deleted = 0 AND f.deleted = 0`, ownerID,
	).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := rawDB.Query(`
		SELECT s.id, s.file_id, s.code, s.expires_at, s.download_limit, s.download_count,
			s.created_at, s.updated_at, s.deleted, f.name, f.size, f.content_type
		FROM shares s
		JOIN files f ON f.id = s.file_id
		WHERE f.owner_id = ? AND s.deleted = 0 AND f.deleted = 0
		ORDER BY s.created_at DESC, s.id DESC
		LIMIT ? OFFSET ?`,
		ownerID, pageSize, (page-1)*pageSize,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*ShareListItem
	for rows.Next() {
		var item ShareListItem
		var expiresAt sql.NullTime
		err := rows.Scan(&item.ID, &item.FileID, &item.Code, &expiresAt,
			&item.DownloadLimit, &item.DownloadCount, &item.CreatedAt,
			&item.UpdatedAt, &item.Deleted, &item.FileName, &item.FileSize,
			&item.ContentType)
		if err != nil {
			return nil, 0, err
		}
		if expiresAt.Valid {
			t := expiresAt.Time
			item.ExpiresAt = &t
		}
		items = append(items, &item)
	}
	return items, total, rows.Err()
}
