package dal

import (
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"ghostodon/shared"
)

const schemaVer = 2

//go:embed scripts/*
var scripts embed.FS

//go:generate mockgen --build_flags=--mod=mod -destination ../test/mocks/mock_repo.go -package mocks ghostodon/dal IRepo

type IRepo interface {
	InitUpdateDb()
	GetSession() (*Session, error)
	SaveSession(sess *Session) error
	DeleteSession() error
	SaveHandshake(hs *Handshake) error
	TakeHandshake() (*Handshake, error)
	AddAuthLogEntry(entry *AuthLogEntry) error
	GetAuthLog(limit int) ([]*AuthLogEntry, error)
	Close() error
}

type Repo struct {
	cfg    *shared.Config
	logger shared.ILogger
	db     *sql.DB
	muDb   sync.RWMutex
}

func NewRepo(cfg *shared.Config, logger shared.ILogger) IRepo {

	var err error
	var db *sql.DB

	// https://phiresky.github.io/blog/2020/sqlite-performance-tuning/
	// _synchronous=1 is "normal"
	cstr := "file:%s?cache=shared&mode=rwc&_journal_mode=WAL&_synchronous=1&_busy_timeout=5000"
	db, err = sql.Open("sqlite3", fmt.Sprintf(cstr, cfg.DbFile))
	if err != nil {
		logger.Errorf("Failed to open/create DB file: %s: %v", cfg.DbFile, err)
		panic(err)
	}

	repo := Repo{
		cfg:    cfg,
		logger: logger,
		db:     db,
	}

	return &repo
}

func (repo *Repo) Close() error {
	return repo.db.Close()
}

func (repo *Repo) InitUpdateDb() {

	dbVer := 0
	sysParamsExists := false
	var err error
	var rows *sql.Rows

	rows, err = repo.db.Query("SELECT name FROM sqlite_master WHERE type='table' AND name='sys_params'")
	if err != nil {
		repo.logger.Errorf("Failed to check if 'sys_params' table exists: %v", err)
		panic(err)
	}
	for rows.Next() {
		sysParamsExists = true
	}
	_ = rows.Close()
	if !sysParamsExists {
		repo.logger.Printf("Database appears to be empty; current schema version is %d", schemaVer)
	} else {
		row := repo.db.QueryRow("SELECT val FROM sys_params WHERE name='schema_ver'")
		if err = row.Scan(&dbVer); err != nil {
			repo.logger.Errorf("Failed to query schema version: %v", err)
			panic(err)
		}
		repo.logger.Printf("Database is at version %d; current schema version is %d", dbVer, schemaVer)
	}
	for i := dbVer; i < schemaVer; i += 1 {
		nextVer := i + 1
		fn := fmt.Sprintf("scripts/create-%02d.sql", nextVer)
		repo.logger.Printf("Running %s", fn)
		var sqlBytes []byte
		if sqlBytes, err = scripts.ReadFile(fn); err != nil {
			repo.logger.Errorf("Failed to read init script %s: %v", fn, err)
			panic(err)
		}
		if _, err = repo.db.Exec(string(sqlBytes)); err != nil {
			repo.logger.Errorf("Failed to execute init script %s: %v", fn, err)
			panic(err)
		}
		_, err = repo.db.Exec("UPDATE sys_params SET val=? WHERE name='schema_ver'", nextVer)
		if err != nil {
			repo.logger.Errorf("Failed to update schema_ver to %d: %v", nextVer, err)
			panic(err)
		}
	}
}

func (repo *Repo) GetSession() (*Session, error) {

	repo.muDb.RLock()
	defer repo.muDb.RUnlock()

	var res Session
	found, err := getJson(repo.db, keySession, &res)
	if err != nil || !found {
		return nil, err
	}
	return &res, nil
}

func (repo *Repo) SaveSession(sess *Session) error {

	repo.muDb.Lock()
	defer repo.muDb.Unlock()

	return putJson(repo.db, keySession, sess)
}

func (repo *Repo) DeleteSession() error {

	repo.muDb.Lock()
	defer repo.muDb.Unlock()

	_, err := repo.db.Exec(`DELETE FROM kv_store WHERE key=?`, keySession)
	return err
}

// SaveHandshake overwrites whatever handshake is pending: there is only ever one slot.
func (repo *Repo) SaveHandshake(hs *Handshake) error {

	repo.muDb.Lock()
	defer repo.muDb.Unlock()

	return putJson(repo.db, keyHandshake, hs)
}

// TakeHandshake reads and deletes the pending handshake in one transaction.
// Returns nil if there is none. A handshake that cannot be decoded is deleted all the same.
func (repo *Repo) TakeHandshake() (res *Handshake, err error) {

	repo.muDb.Lock()
	defer repo.muDb.Unlock()

	var tx *sql.Tx
	if tx, err = repo.db.Begin(); err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var val string
	var found bool
	if val, found, err = getRaw(tx, keyHandshake); err != nil {
		return nil, err
	}
	if !found {
		err = tx.Commit()
		return nil, err
	}
	if _, err = tx.Exec(`DELETE FROM kv_store WHERE key=?`, keyHandshake); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	var hs Handshake
	if err = decodeJson(keyHandshake, val, &hs); err != nil {
		return nil, err
	}
	return &hs, nil
}

func (repo *Repo) AddAuthLogEntry(entry *AuthLogEntry) error {

	repo.muDb.Lock()
	defer repo.muDb.Unlock()

	_, err := repo.db.Exec(`INSERT INTO auth_log (logged_at, origin, stage, handshake, detail)
		VALUES(?, ?, ?, ?, ?)`,
		entry.LoggedAt, entry.Origin, entry.Stage, entry.Handshake, entry.Detail)
	return err
}

func (repo *Repo) GetAuthLog(limit int) ([]*AuthLogEntry, error) {

	repo.muDb.RLock()
	defer repo.muDb.RUnlock()

	rows, err := repo.db.Query(`SELECT id, logged_at, origin, stage, handshake, detail
		FROM auth_log ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []*AuthLogEntry
	for rows.Next() {
		e := AuthLogEntry{}
		if err = rows.Scan(&e.Id, &e.LoggedAt, &e.Origin, &e.Stage, &e.Handshake, &e.Detail); err != nil {
			return nil, err
		}
		res = append(res, &e)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

type queryer interface {
	QueryRow(query string, args ...any) *sql.Row
	Exec(query string, args ...any) (sql.Result, error)
}

func getRaw(q queryer, key string) (string, bool, error) {
	var val string
	err := q.QueryRow(`SELECT val FROM kv_store WHERE key=?`, key).Scan(&val)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return val, true, nil
}

func decodeJson(key, val string, obj any) error {
	if err := json.Unmarshal([]byte(val), obj); err != nil {
		return fmt.Errorf("corrupt value under '%s': %v", key, err)
	}
	return nil
}

func getJson(q queryer, key string, obj any) (bool, error) {
	val, found, err := getRaw(q, key)
	if err != nil || !found {
		return false, err
	}
	if err = decodeJson(key, val, obj); err != nil {
		return false, err
	}
	return true, nil
}

func putJson(q queryer, key string, obj any) error {
	bytes, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	_, err = q.Exec(`INSERT INTO kv_store (key, val, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET val=excluded.val, updated_at=excluded.updated_at`,
		key, string(bytes), time.Now().UTC())
	return err
}
