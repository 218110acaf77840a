package console

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/service-desk/internal/auth"
	"github.com/spec-kit/service-desk/internal/backup"
	"github.com/spec-kit/service-desk/internal/config"
	"github.com/spec-kit/service-desk/internal/export"
	"github.com/spec-kit/service-desk/internal/persistence"
	"github.com/spec-kit/service-desk/internal/report"
	"github.com/spec-kit/service-desk/internal/store"
)

func newScriptedConsole(t *testing.T, script []string) (*Console, *store.Store, *bytes.Buffer) {
	t.Helper()
	clock := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	st := store.New(store.WithClock(func() time.Time { return clock }))
	gw := persistence.NewGateway(st, config.DataConfig{Dir: t.TempDir()}, zap.NewNop())
	gate, err := auth.NewGate(config.AdminConfig{PIN: "1234", BcryptCost: 4})
	require.NoError(t, err)

	out := &bytes.Buffer{}
	c := New(Dependencies{
		Store:    st,
		Gateway:  gw,
		Backups:  backup.NewManager(gw, zap.NewNop()),
		Reports:  report.NewGenerator(st),
		Exporter: export.NewExporter(st, config.DataConfig{ExportDir: t.TempDir()}),
		Gate:     gate,
		Logger:   zap.NewNop(),
		In:       strings.NewReader(strings.Join(script, "\n") + "\n"),
		Out:      out,
	})
	return c, st, out
}

func TestSubmitRequestFlow(t *testing.T) {
	script := []string{
		"1",                    // main menu: submit
		"Sarah Connor",         // name
		"Marketing",            // department
		"sarah@example.com",    // email
		"100-201",              // phone
		"2",                    // category: IT Support - Software
		"2",                    // priority: HIGH
		"Laptop crashed",       // subject
		"Blue screen line one", // description...
		"with a | pipe",
		".", // terminator
		"y", // confirm
		"",  // pause
		"7", // exit
	}
	c, st, out := newScriptedConsole(t, script)
	c.Run()

	require.Len(t, st.Requests(), 1)
	r := st.Requests()[0]
	assert.Equal(t, "REQ-001", r.TicketID)
	assert.Equal(t, "IT Support - Software", r.Category)
	assert.Equal(t, "Blue screen line one\nwith a | pipe", r.Description)
	assert.Equal(t, "sarah@example.com", r.UserEmail)

	user, ok := st.FindUserByEmail("sarah@example.com")
	require.True(t, ok)
	assert.Equal(t, []string{"REQ-001"}, user.History)

	assert.Contains(t, out.String(), "Your Ticket ID: REQ-001")
	assert.Contains(t, out.String(), "Data saved. Goodbye!")
}

func TestSubmitRequestCancelled(t *testing.T) {
	script := []string{
		"1",
		"Sarah", "Marketing", "sarah@example.com", "1",
		"1", "4", "subject",
		"line", ".",
		"n", // decline
		"7",
	}
	c, st, out := newScriptedConsole(t, script)
	c.Run()

	assert.Empty(t, st.Requests())
	assert.Empty(t, st.Users(), "cancelled submission must not create the user")
	assert.Contains(t, out.String(), "Cancelled.")
}

func TestAdminPanelRejectsBadPIN(t *testing.T) {
	script := []string{
		"3",    // admin panel
		"9999", // wrong PIN
		"7",    // exit
	}
	c, _, out := newScriptedConsole(t, script)
	c.Run()

	assert.Contains(t, out.String(), "Invalid PIN.")
	assert.NotContains(t, out.String(), "View/Manage All Requests")
}
