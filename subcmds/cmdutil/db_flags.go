// Copyright (c) 2025 BVK Chaitanya

package cmdutil

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"

	"github.com/bvk/gridctl/kvutil"
	"github.com/bvkgo/kv"
	"github.com/bvkgo/kv/kvmemdb"
	"github.com/bvkgo/kvbadger"
	"github.com/dgraph-io/badger/v4"
	"github.com/nightlyone/lockfile"
)

type DBFlags struct {
	ClientFlags

	dataDir string

	fromBackup string

	backupBefore string
	backupAfter  string
}

func (f *DBFlags) SetFlags(fset *flag.FlagSet) {
	fset.StringVar(&f.dataDir, "data-dir", "", "Path to the data directory (default=$HOME/.gridctl)")

	fset.StringVar(&f.fromBackup, "from-backup", "", "Path to a database backup file")

	f.ClientFlags.SetFlags(fset)

	fset.StringVar(&f.backupBefore, "backup-before", "", "Path to a file to receive db backup before cmd is run")
	fset.StringVar(&f.backupAfter, "backup-after", "", "Path to a file to receive db backup after cmd is run")
}

// DataDir resolves the data directory and creates it when missing.
func (f *DBFlags) DataDir() (string, error) {
	dir := f.dataDir
	if len(dir) == 0 {
		dir = filepath.Join(os.Getenv("HOME"), ".gridctl")
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("could not determine data-dir absolute path: %w", err)
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("could not create data directory %q: %w", dir, err)
	}
	return dir, nil
}

func (f *DBFlags) dbCloser(db kv.Database, close func()) func() {
	return func() {
		if len(f.backupAfter) != 0 {
			if err := kvutil.BackupDB(context.Background(), db, f.backupAfter); err != nil {
				log.Printf("could not take db backup after it is used (ignored): %v", err)
			}
		}
		if close != nil {
			close()
		}
	}
}

// GetDatabase opens the local database. With -from-backup the backup
// file is restored into an in-memory database instead, which keeps the
// on-disk data untouched. The on-disk database is guarded by a lock
// file so concurrent commands do not corrupt badger state.
func (f *DBFlags) GetDatabase(ctx context.Context) (db kv.Database, closer func(), status error) {
	defer func() {
		if status == nil && len(f.backupBefore) != 0 {
			if err := kvutil.BackupDB(ctx, db, f.backupBefore); err != nil {
				log.Printf("could not take a db backup before it is used: %v", err)
				closer()
				db, closer, status = nil, nil, err
			}
		}
	}()

	isGoodKey := func(k string) bool {
		return path.IsAbs(k) && k == path.Clean(k)
	}

	if len(f.fromBackup) != 0 {
		fp, err := os.Open(f.fromBackup)
		if err != nil {
			return nil, nil, fmt.Errorf("could not open file %q: %w", f.fromBackup, err)
		}
		defer fp.Close()

		r := bufio.NewReader(fp)

		db := kvmemdb.New()
		restore := func(ctx context.Context, rw kv.ReadWriter) error {
			return kvutil.Import(ctx, r, rw)
		}
		if err := kv.WithReadWriter(ctx, db, restore); err != nil {
			return nil, nil, fmt.Errorf("could not restore in-memory db from backup: %w", err)
		}
		return db, f.dbCloser(db, nil), nil
	}

	dataDir, err := f.DataDir()
	if err != nil {
		return nil, nil, err
	}

	lockPath := filepath.Join(dataDir, "gridctl.lock")
	flock, err := lockfile.New(lockPath)
	if err != nil {
		return nil, nil, fmt.Errorf("could not create lock file %q: %w", lockPath, err)
	}
	if err := flock.TryLock(); err != nil {
		return nil, nil, fmt.Errorf("could not get lock on file %q: %w", lockPath, err)
	}

	bopts := badger.DefaultOptions(filepath.Join(dataDir, "db"))
	bopts = bopts.WithLogger(nil)
	bdb, err := badger.Open(bopts)
	if err != nil {
		flock.Unlock()
		return nil, nil, fmt.Errorf("could not open the database: %w", err)
	}
	db = kvbadger.New(bdb, isGoodKey)
	return db, f.dbCloser(db, func() {
		bdb.Close()
		flock.Unlock()
	}), nil
}

// Secrets file errors other than not-exist are reported; a missing file
// returns an empty Secrets value.
func (f *DBFlags) GetSecrets() (*Secrets, error) {
	dataDir, err := f.DataDir()
	if err != nil {
		return nil, err
	}
	secrets, err := SecretsFromFile(filepath.Join(dataDir, "secrets.json"))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		secrets = new(Secrets)
	}
	return secrets, nil
}
