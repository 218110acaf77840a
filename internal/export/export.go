// Package export writes human-readable renditions of the catalog: a CSV of
// all requests and per-request plain-text detail files.
package export

import (
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/spec-kit/service-desk/internal/config"
	"github.com/spec-kit/service-desk/internal/domain"
	"github.com/spec-kit/service-desk/internal/store"
	"github.com/spec-kit/service-desk/pkg/util"
)

// Exporter writes exports under the configured export directory.
type Exporter struct {
	store     *store.Store
	exportDir string
}

// NewExporter instantiates an exporter.
func NewExporter(st *store.Store, cfg config.DataConfig) *Exporter {
	return &Exporter{store: st, exportDir: cfg.ExportDir}
}

// WriteAllRequestsCSV exports every request to requests.csv and returns the
// file path. Fields containing commas, quotes or newlines are quoted with
// embedded quotes doubled.
func (e *Exporter) WriteAllRequestsCSV() (string, error) {
	if err := e.ensureDir(); err != nil {
		return "", err
	}
	path := filepath.Join(e.exportDir, "requests.csv")
	f, err := os.Create(path)
	if err != nil {
		return "", util.NewIOError("create csv export", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"TicketId", "Status", "Priority", "Category", "Created", "User", "Department", "Email", "Subject", "AssignedAgent"}
	if err := w.Write(header); err != nil {
		return "", util.NewIOError("write csv header", err)
	}
	for _, r := range e.store.ListAll() {
		record := []string{
			r.TicketID,
			string(r.Status),
			string(r.Priority),
			r.Category,
			r.CreatedDate.Format(domain.TimeLayout),
			r.UserName,
			r.UserDept,
			r.UserEmail,
			r.Subject,
			r.AssignedAgent,
		}
		if err := w.Write(record); err != nil {
			return "", util.NewIOError("write csv record", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", util.NewIOError("flush csv export", err)
	}
	return path, nil
}

// WriteRequestDetails exports one request's full detail rendering to
// <TICKET>.txt and returns the file path.
func (e *Exporter) WriteRequestDetails(r *domain.ServiceRequest) (string, error) {
	if err := e.ensureDir(); err != nil {
		return "", err
	}
	path := filepath.Join(e.exportDir, r.TicketID+".txt")
	if err := os.WriteFile(path, []byte(r.DisplayString()), 0o644); err != nil {
		return "", util.NewIOError("write detail export", err)
	}
	return path, nil
}

func (e *Exporter) ensureDir() error {
	if err := os.MkdirAll(e.exportDir, 0o755); err != nil {
		return util.NewIOError("create export directory", err)
	}
	return nil
}
