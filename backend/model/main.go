package model

import (
	"database/sql"
	"errors"

	"github.com/zaunist/filebox/backend/common"

	"github.com/burugo/thing"
	redisCache "github.com/burugo/thing/drivers/cache/redis"
	sqliteDriver "github.com/burugo/thing/drivers/db/sqlite"
	_ "github.com/mattn/go-sqlite3"
)

// ErrRecordNotFound is returned by lookup helpers when no row matches.
var ErrRecordNotFound = errors.New("record_not_found")

// rawDB is a plain database/sql handle on the same SQLite file the ORM uses.
// The conditional updates that guard the download-limit invariant must be a
// single atomic statement with a RowsAffected check, which the ORM cannot
// express; they go through this handle. Everything else goes through thing.
var rawDB *sql.DB

// InitDB configures the Thing ORM (SQLite storage, Redis-backed cache when
// available), runs migrations and initializes the per-model handles.
func InitDB() error {
	dbAdapter, err := sqliteDriver.NewSQLiteAdapter(common.SQLitePath)
	if err != nil {
		return err
	}

	var cacheClient thing.CacheClient
	if common.RedisEnabled {
		cacheClient, err = redisCache.NewClient(common.RDB, nil)
		if err != nil {
			return err
		}
	}

	if err := thing.Configure(dbAdapter, cacheClient); err != nil {
		return err
	}

	if err := thing.AutoMigrate(&User{}, &File{}, &Option{}); err != nil {
		return err
	}

	inits := []func() error{
		UserInit,
		FileInit,
		OptionInit,
	}
	for _, init := range inits {
		if err := init(); err != nil {
			return err
		}
	}

	rawDB, err = sql.Open("sqlite3", common.SQLitePath+"?_busy_timeout=5000")
	if err != nil {
		return err
	}
	if err := rawDB.Ping(); err != nil {
		return err
	}
	// The shares table is owned by the Share Registry and accessed through
	// rawDB only (see share.go), so its DDL lives there, not in AutoMigrate.
	return migrateShares()
}

func CloseDB() error {
	if rawDB != nil {
		return rawDB.Close()
	}
	return nil
}
