// Package backup snapshots the on-disk catalog files as a timestamped unit
// and restores the most recent snapshot. It copies bytes verbatim and never
// re-encodes records.
package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/service-desk/internal/persistence"
	"github.com/spec-kit/service-desk/pkg/util"
)

const (
	dirPrefix  = "backup_"
	timeLayout = "20060102_150405"
)

// Manager creates and restores catalog snapshots under the data directory.
type Manager struct {
	gateway *persistence.Gateway
	logger  *zap.Logger
	now     func() time.Time
}

// NewManager instantiates the backup manager.
func NewManager(gw *persistence.Gateway, logger *zap.Logger) *Manager {
	return &Manager{gateway: gw, logger: logger, now: time.Now}
}

// WithClock overrides the time source used for snapshot names.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// CreateBackup copies the current catalog files into a fresh
// backup_<yyyyMMdd_HHmmss> directory and returns its path. When two backups
// land in the same second the timestamp is advanced until the name is free,
// keeping names distinct and lexicographically increasing.
func (m *Manager) CreateBackup() (string, error) {
	ts := m.now()
	var dir string
	for {
		dir = filepath.Join(m.gateway.DataDir(), dirPrefix+ts.Format(timeLayout))
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			break
		}
		ts = ts.Add(time.Second)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", util.NewIOError("create backup directory", err)
	}

	for _, src := range []string{m.gateway.UsersFile(), m.gateway.RequestsFile()} {
		if _, err := os.Stat(src); os.IsNotExist(err) {
			continue
		}
		if err := copyFile(src, filepath.Join(dir, filepath.Base(src))); err != nil {
			return "", err
		}
	}

	m.logger.Info("backup created", zap.String("dir", dir))
	return dir, nil
}

// RestoreLatestBackup copies the files of the lexicographically greatest
// backup directory over the live catalog files, then reloads the store.
// Fails when no backup directory exists.
func (m *Manager) RestoreLatestBackup() error {
	latest, err := m.latestBackupDir()
	if err != nil {
		return err
	}

	restores := map[string]string{
		filepath.Join(latest, filepath.Base(m.gateway.UsersFile())):    m.gateway.UsersFile(),
		filepath.Join(latest, filepath.Base(m.gateway.RequestsFile())): m.gateway.RequestsFile(),
	}
	for src, dst := range restores {
		if _, err := os.Stat(src); os.IsNotExist(err) {
			continue
		}
		if err := copyFile(src, dst); err != nil {
			return err
		}
	}

	m.logger.Info("backup restored", zap.String("dir", latest))
	return m.gateway.LoadData()
}

// latestBackupDir relies on the fixed-width zero-padded timestamp naming:
// lexicographic order equals chronological order.
func (m *Manager) latestBackupDir() (string, error) {
	entries, err := os.ReadDir(m.gateway.DataDir())
	if err != nil {
		return "", util.NewIOError("scan data directory", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() && strings.HasPrefix(entry.Name(), dirPrefix) {
			names = append(names, entry.Name())
		}
	}
	if len(names) == 0 {
		return "", util.NewNotFound("backup", map[string]any{"dir": m.gateway.DataDir()})
	}
	sort.Strings(names)
	return filepath.Join(m.gateway.DataDir(), names[len(names)-1]), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return util.NewIOError(fmt.Sprintf("open %s", src), err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return util.NewIOError(fmt.Sprintf("create %s", dst), err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return util.NewIOError(fmt.Sprintf("copy %s", src), err)
	}
	return out.Sync()
}
