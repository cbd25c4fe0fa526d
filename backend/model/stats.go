package model

import "time"

// Counters for the admin stats endpoint. These run against the raw handle so
// they reflect committed state rather than the ORM cache.

type SystemStats struct {
	UserCount      int64 `json:"user_count"`
	FileCount      int64 `json:"file_count"`
	ShareCount     int64 `json:"share_count"`
	LiveShareCount int64 `json:"live_share_count"`
	TotalFileBytes int64 `json:"total_file_bytes"`
	DownloadCount  int64 `json:"download_count"`
}

func GetSystemStats() (*SystemStats, error) {
	stats := &SystemStats{}
	queries := []struct {
		dst  *int64
		q    string
		args []interface{}
	}{
		{&stats.UserCount, "SELECT COUNT(*) FROM users WHERE deleted = 0", nil},
		{&stats.FileCount, "SELECT COUNT(*) FROM files WHERE deleted = 0", nil},
		{&stats.ShareCount, "SELECT COUNT(*) FROM shares WHERE deleted = 0", nil},
		{&stats.LiveShareCount, "SELECT COUNT(*) FROM shares WHERE " + shareLiveCond, []interface{}{time.Now()}},
		{&stats.TotalFileBytes, "SELECT COALESCE(SUM(size), 0) FROM files WHERE deleted = 0", nil},
		{&stats.DownloadCount, "SELECT COALESCE(SUM(download_count), 0) FROM shares", nil},
	}
	for _, item := range queries {
		if err := rawDB.QueryRow(item.q, item.args...).Scan(item.dst); err != nil {
			return nil, err
		}
	}
	return stats, nil
}
