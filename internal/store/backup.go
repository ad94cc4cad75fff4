package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

const backupSuffix = ".bak"

// backupTimestampFormat is second-resolution and sorts the same way
// lexicographically as chronologically.
const backupTimestampFormat = "20060102150405"

// swapped in tests to step the backup timestamp
var timeNow = time.Now

// rotateBackups snapshots the data document to <path>.<timestamp>.bak
// and prunes the oldest backups beyond the retention count. It runs
// once per process, before the document is loaded, so it never races
// with a save. If the document does not exist yet it is a no-op.
func rotateBackups(path string, retention int, logger *zap.Logger) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	backupPath := fmt.Sprintf("%s.%s%s", path, timeNow().Format(backupTimestampFormat), backupSuffix)
	if err := copyFile(path, backupPath); err != nil {
		return fmt.Errorf("failed to create backup: %w", err)
	}
	logger.Info("created backup", zap.String("path", backupPath))

	backups, err := listBackups(path)
	if err != nil {
		return err
	}

	// Timestamped names sort oldest first.
	sort.Strings(backups)
	for len(backups) > retention {
		oldest := backups[0]
		backups = backups[1:]
		if err := os.Remove(oldest); err != nil {
			logger.Warn("failed to delete old backup", zap.String("path", oldest), zap.Error(err))
			continue
		}
		logger.Info("deleted old backup", zap.String("path", oldest))
	}

	return nil
}

// listBackups returns the paths of all backup files for the document
// at path, in directory order.
func listBackups(path string) ([]string, error) {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list backups in %s: %w", dir, err)
	}

	var backups []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			continue
		}
		if strings.HasPrefix(name, base+".") && strings.HasSuffix(name, backupSuffix) {
			backups = append(backups, filepath.Join(dir, name))
		}
	}
	return backups, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst) // Cleanup on error
		return fmt.Errorf("failed to copy to %s: %w", dst, err)
	}

	return out.Close()
}
