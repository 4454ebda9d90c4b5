package workers

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/skysquad/skysquad/pkg/log"
)

const backupTimestampFormat = "20060102T150405"

// BackupWorker periodically copies the SQLite database file into a
// backup directory and prunes old backups beyond the retention count.
type BackupWorker struct {
	dbPath    string
	backupDir string
	interval  time.Duration
	retain    int
}

type NewBackupWorkerOptions struct {
	DBPath    string
	BackupDir string
	Interval  time.Duration
	Retain    int
}

func NewBackupWorker(opts NewBackupWorkerOptions) *BackupWorker {
	return &BackupWorker{
		dbPath:    opts.DBPath,
		backupDir: opts.BackupDir,
		interval:  opts.Interval,
		retain:    opts.Retain,
	}
}

func (w *BackupWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			if err := w.backup(t); err != nil {
				log.Error("Failed to back up database: %v", err)
				continue
			}
			if err := w.prune(); err != nil {
				log.Error("Failed to prune old backups: %v", err)
			}
		}
	}
}

func (w *BackupWorker) backup(t time.Time) error {
	if err := os.MkdirAll(w.backupDir, 0o755); err != nil {
		return fmt.Errorf("failed to create backup directory: %v", err)
	}

	name := fmt.Sprintf("%s.%s.bak", filepath.Base(w.dbPath), t.UTC().Format(backupTimestampFormat))
	dst := filepath.Join(w.backupDir, name)

	if err := copyFile(w.dbPath, dst); err != nil {
		return err
	}

	log.Info("Backed up database to %s", dst)
	return nil
}

// prune removes the oldest backups beyond the retention count. Backup
// names embed a sortable timestamp, so lexical order is age order.
func (w *BackupWorker) prune() error {
	entries, err := os.ReadDir(w.backupDir)
	if err != nil {
		return fmt.Errorf("failed to read backup directory: %v", err)
	}

	prefix := filepath.Base(w.dbPath) + "."
	var backups []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), prefix) && strings.HasSuffix(entry.Name(), ".bak") {
			backups = append(backups, entry.Name())
		}
	}

	if len(backups) <= w.retain {
		return nil
	}

	sort.Strings(backups)
	for _, name := range backups[:len(backups)-w.retain] {
		if err := os.Remove(filepath.Join(w.backupDir, name)); err != nil {
			return fmt.Errorf("failed to remove backup %s: %v", name, err)
		}
		log.Debug("Removed old backup %s", name)
	}

	return nil
}

func copyFile(src string, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %v", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %v", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy %s to %s: %v", src, dst, err)
	}

	return out.Close()
}
