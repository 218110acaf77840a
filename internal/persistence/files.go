// Package persistence reads and writes the two catalog files through the
// codec. Saving and loading happen only on explicit calls; mutations in the
// store never touch disk on their own.
package persistence

import (
	"bufio"
	"bytes"
	"errors"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/spec-kit/service-desk/internal/codec"
	"github.com/spec-kit/service-desk/internal/config"
	"github.com/spec-kit/service-desk/internal/domain"
	"github.com/spec-kit/service-desk/internal/store"
	"github.com/spec-kit/service-desk/pkg/util"
)

const (
	usersFileName    = "users.txt"
	requestsFileName = "requests.txt"
)

// Gateway flushes the store to disk and rebuilds it from disk.
type Gateway struct {
	store   *store.Store
	dataDir string
	logger  *zap.Logger
}

// NewGateway instantiates the gateway over the configured data directory.
func NewGateway(st *store.Store, cfg config.DataConfig, logger *zap.Logger) *Gateway {
	return &Gateway{store: st, dataDir: cfg.Dir, logger: logger}
}

// DataDir returns the directory holding the catalog files.
func (g *Gateway) DataDir() string { return g.dataDir }

// UsersFile returns the path of the user catalog file.
func (g *Gateway) UsersFile() string { return filepath.Join(g.dataDir, usersFileName) }

// RequestsFile returns the path of the request catalog file.
func (g *Gateway) RequestsFile() string { return filepath.Join(g.dataDir, requestsFileName) }

// SaveData writes both catalogs, one record per line. Each file is built in
// memory and written in a single call, so a crash mid-save leaves at most one
// file stale and never both torn. Clears the store's dirty flag on success.
func (g *Gateway) SaveData() error {
	if err := g.ensureDir(); err != nil {
		return err
	}

	var users bytes.Buffer
	for _, u := range g.store.Users() {
		users.WriteString(codec.EncodeUser(u))
		users.WriteByte('\n')
	}
	if err := os.WriteFile(g.UsersFile(), users.Bytes(), 0o644); err != nil {
		return util.NewIOError("write user catalog", err)
	}

	var requests bytes.Buffer
	for _, r := range g.store.Requests() {
		requests.WriteString(codec.EncodeRequest(r))
		requests.WriteByte('\n')
	}
	if err := os.WriteFile(g.RequestsFile(), requests.Bytes(), 0o644); err != nil {
		return util.NewIOError("write request catalog", err)
	}

	g.store.ClearDirty()
	g.logger.Info("catalog saved",
		zap.String("dir", g.dataDir),
		zap.Int("users", len(g.store.Users())),
		zap.Int("requests", len(g.store.Requests())))
	return nil
}

// LoadData reads both catalogs and bulk-loads the store. Missing files mean
// an empty collection; malformed lines are skipped with a warning. The
// in-memory catalog is replaced only after both files have been read.
func (g *Gateway) LoadData() error {
	if err := g.ensureDir(); err != nil {
		return err
	}

	var users []*domain.User
	if err := g.readLines(g.UsersFile(), func(line string) {
		u, err := codec.DecodeUser(line)
		if err != nil {
			g.logger.Warn("skipping malformed user line", zap.Error(err))
			return
		}
		users = append(users, u)
	}); err != nil {
		return err
	}

	var requests []*domain.ServiceRequest
	if err := g.readLines(g.RequestsFile(), func(line string) {
		r, err := codec.DecodeRequest(line)
		if err != nil {
			g.logger.Warn("skipping malformed request line", zap.Error(err))
			return
		}
		requests = append(requests, r)
	}); err != nil {
		return err
	}

	g.store.ReplaceAll(users, requests)
	g.logger.Info("catalog loaded",
		zap.String("dir", g.dataDir),
		zap.Int("users", len(users)),
		zap.Int("requests", len(requests)))
	return nil
}

func (g *Gateway) readLines(path string, handle func(string)) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return util.NewIOError("open catalog file", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		handle(line)
	}
	if err := scanner.Err(); err != nil {
		return util.NewIOError("read catalog file", err)
	}
	return nil
}

func (g *Gateway) ensureDir() error {
	if err := os.MkdirAll(g.dataDir, 0o755); err != nil {
		return util.NewIOError("create data directory", err)
	}
	return nil
}
