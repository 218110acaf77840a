package export

import (
	"encoding/csv"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/service-desk/internal/config"
	"github.com/spec-kit/service-desk/internal/domain"
	"github.com/spec-kit/service-desk/internal/store"
)

func newTestExporter(t *testing.T) (*Exporter, *store.Store) {
	t.Helper()
	clock := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	st := store.New(store.WithClock(func() time.Time { return clock }))
	return NewExporter(st, config.DataConfig{ExportDir: t.TempDir()}), st
}

func TestWriteAllRequestsCSVQuotesSpecialCharacters(t *testing.T) {
	exporter, st := newTestExporter(t)
	user := st.CreateUser("Connor, Sarah", "Marketing", domain.RoleUser, "sarah@x.com", "1")
	st.CreateRequest(user, "IT Support - Software", domain.PriorityHigh,
		`subject with "quotes", commas`+"\nand a newline", "d")

	path, err := exporter.WriteAllRequestsCSV()
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []string{
		"TicketId", "Status", "Priority", "Category", "Created",
		"User", "Department", "Email", "Subject", "AssignedAgent",
	}, records[0])

	row := records[1]
	assert.Equal(t, "REQ-001", row[0])
	assert.Equal(t, "Connor, Sarah", row[5])
	assert.Equal(t, `subject with "quotes", commas`+"\nand a newline", row[8])
}

func TestWriteRequestDetails(t *testing.T) {
	exporter, st := newTestExporter(t)
	r := st.CreateRequest(nil, "Facilities - Access", domain.PriorityLow, "Lost badge", "Cannot enter building")

	path, err := exporter.WriteRequestDetails(r)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "REQ-001.txt"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, r.DisplayString(), string(content))
	assert.Contains(t, string(content), "Lost badge")
}
