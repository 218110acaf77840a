// Package console drives the interactive menu loop. It orchestrates I/O only;
// all catalog logic lives in the store and its collaborators.
package console

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/xeonx/timeago"
	"go.uber.org/zap"

	"github.com/spec-kit/service-desk/internal/auth"
	"github.com/spec-kit/service-desk/internal/backup"
	"github.com/spec-kit/service-desk/internal/domain"
	"github.com/spec-kit/service-desk/internal/export"
	"github.com/spec-kit/service-desk/internal/persistence"
	"github.com/spec-kit/service-desk/internal/report"
	"github.com/spec-kit/service-desk/internal/store"
)

// Dependencies bundles the collaborators the console needs.
type Dependencies struct {
	Store    *store.Store
	Gateway  *persistence.Gateway
	Backups  *backup.Manager
	Reports  *report.Generator
	Exporter *export.Exporter
	Gate     *auth.Gate
	Logger   *zap.Logger
	In       io.Reader
	Out      io.Writer
}

// Console is the interactive front end.
type Console struct {
	store    *store.Store
	gateway  *persistence.Gateway
	backups  *backup.Manager
	reports  *report.Generator
	exporter *export.Exporter
	gate     *auth.Gate
	logger   *zap.Logger
	in       *bufio.Scanner
	out      io.Writer
	eof      bool
}

// New creates a console over the given collaborators.
func New(deps Dependencies) *Console {
	scanner := bufio.NewScanner(deps.In)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Console{
		store:    deps.Store,
		gateway:  deps.Gateway,
		backups:  deps.Backups,
		reports:  deps.Reports,
		exporter: deps.Exporter,
		gate:     deps.Gate,
		logger:   deps.Logger,
		in:       scanner,
		out:      deps.Out,
	}
}

// Run prints the banner and enters the main menu until the user exits, then
// auto-saves.
func (c *Console) Run() {
	fmt.Fprintln(c.out, "=== Service Request Management System ===")
	fmt.Fprintln(c.out)
	c.mainMenu()
	if err := c.gateway.SaveData(); err != nil {
		fmt.Fprintf(c.out, "[WARN] Failed to save data on exit: %v\n", err)
		return
	}
	fmt.Fprintln(c.out, "\nData saved. Goodbye!")
}

func (c *Console) mainMenu() {
	for {
		fmt.Fprintln(c.out, "\n=== Main Menu ===")
		fmt.Fprintln(c.out, "1. Submit New Service Request")
		fmt.Fprintln(c.out, "2. View My Requests")
		fmt.Fprintln(c.out, "3. Administrator Panel (Admin Only)")
		fmt.Fprintln(c.out, "4. Generate Reports")
		fmt.Fprintln(c.out, "5. Data Management")
		fmt.Fprintln(c.out, "6. Help & Documentation")
		fmt.Fprintln(c.out, "7. Exit System")
		fmt.Fprint(c.out, "\nEnter your choice: ")
		switch c.readIntInRange(1, 7) {
		case 1:
			c.submitNewRequest()
		case 2:
			c.viewMyRequests()
		case 3:
			c.adminPanel()
		case 4:
			c.reportsMenu()
		case 5:
			c.dataManagementMenu()
		case 6:
			c.helpMenu()
		case 7:
			return
		}
	}
}

func (c *Console) reportsMenu() {
	for {
		fmt.Fprintln(c.out, "\n=== Reports ===")
		fmt.Fprintln(c.out, "1. Summary Statistics")
		fmt.Fprintln(c.out, "2. Requests by Category")
		fmt.Fprintln(c.out, "3. Requests by Priority")
		fmt.Fprintln(c.out, "4. Average Resolution Time")
		fmt.Fprintln(c.out, "5. Export All Requests to CSV")
		fmt.Fprintln(c.out, "6. Back")
		fmt.Fprint(c.out, "Enter choice: ")
		switch c.readIntInRange(1, 6) {
		case 1:
			s := c.reports.Summarize()
			fmt.Fprintf(c.out, "Total: %d, Open: %d, In Progress: %d, Resolved: %d, Closed: %d\n",
				s.Total, s.Open, s.InProgress, s.Resolved, s.Closed)
		case 2:
			for _, cc := range c.reports.ByCategory() {
				fmt.Fprintf(c.out, "%-30s : %d\n", cc.Category, cc.Count)
			}
		case 3:
			for _, pc := range c.reports.ByPriority() {
				fmt.Fprintf(c.out, "%-8s : %d\n", pc.Priority, pc.Count)
			}
		case 4:
			avg, ok := c.reports.AverageResolutionTime()
			if !ok {
				fmt.Fprintln(c.out, "No resolved requests.")
			} else {
				fmt.Fprintf(c.out, "Average resolution time: %.1f minutes\n", avg.Minutes())
			}
		case 5:
			path, err := c.exporter.WriteAllRequestsCSV()
			if err != nil {
				fmt.Fprintf(c.out, "[ERROR] Export failed: %v\n", err)
			} else {
				fmt.Fprintf(c.out, "Exported to: %s\n", path)
			}
		case 6:
			return
		}
		c.pause()
	}
}

func (c *Console) dataManagementMenu() {
	for {
		fmt.Fprintln(c.out, "\n=== Data Management ===")
		fmt.Fprintln(c.out, "1. Save Data")
		fmt.Fprintln(c.out, "2. Load Data")
		fmt.Fprintln(c.out, "3. Create Backup (timestamped)")
		fmt.Fprintln(c.out, "4. Restore from Latest Backup")
		fmt.Fprintln(c.out, "5. Back")
		fmt.Fprint(c.out, "Enter choice: ")
		switch c.readIntInRange(1, 5) {
		case 1:
			if err := c.gateway.SaveData(); err != nil {
				fmt.Fprintf(c.out, "[ERROR] %v\n", err)
			} else {
				fmt.Fprintln(c.out, "Saved.")
			}
		case 2:
			if err := c.gateway.LoadData(); err != nil {
				fmt.Fprintf(c.out, "[ERROR] %v\n", err)
			} else {
				fmt.Fprintln(c.out, "Loaded.")
			}
		case 3:
			dir, err := c.backups.CreateBackup()
			if err != nil {
				fmt.Fprintf(c.out, "[ERROR] %v\n", err)
			} else {
				fmt.Fprintf(c.out, "Backup at: %s\n", dir)
			}
		case 4:
			if err := c.backups.RestoreLatestBackup(); err != nil {
				fmt.Fprintf(c.out, "[ERROR] %v\n", err)
			} else {
				fmt.Fprintln(c.out, "Restored latest backup.")
			}
		case 5:
			return
		}
		c.pause()
	}
}

func (c *Console) helpMenu() {
	fmt.Fprintln(c.out, "\n=== Help & Documentation ===")
	fmt.Fprintln(c.out, "- Submit New Request: Create a service request with category, priority, subject, description.")
	fmt.Fprintln(c.out, "- View My Requests: Find your requests by email. Add follow-up comments.")
	fmt.Fprintln(c.out, "- Administrator Panel: Requires PIN. Manage, assign, update and export requests.")
	fmt.Fprintln(c.out, "- Generate Reports: Summary, breakdown by category/priority, average resolution time, export CSV.")
	fmt.Fprintln(c.out, "- Data Management: Save/Load data, backups.")
	fmt.Fprintln(c.out, "\nStatus Flow: OPEN -> IN_PROGRESS -> RESOLVED -> CLOSED.")
	fmt.Fprintln(c.out, "Categories include IT Support, Facilities, HR Services, General.")
	c.pause()
}

// ===== Rendering =====

func (c *Console) printRequestTable(list []*domain.ServiceRequest) {
	fmt.Fprintf(c.out, "%-3s | %-8s | %-11s | %-8s | %-20s | %-19s | %s\n",
		"#", "Ticket", "Status", "Priority", "Category", "Created", "Subject")
	fmt.Fprintln(c.out, strings.Repeat("-", 108))
	for i, r := range list {
		fmt.Fprintf(c.out, "%-3d | %-8s | %-11s | %-8s | %-20s | %-19s | %s\n",
			i+1, r.TicketID, r.Status, r.Priority,
			truncate(r.Category, 20), r.CreatedDate.Format(domain.TimeLayout), truncate(r.Subject, 40))
	}
}

func (c *Console) showDetails(r *domain.ServiceRequest) {
	fmt.Fprint(c.out, r.DisplayString())
	fmt.Fprintf(c.out, "Opened %s\n", timeago.English.Format(r.CreatedDate))
}

func (c *Console) sortSelectionMenu(list []*domain.ServiceRequest) {
	fmt.Fprintln(c.out, "Sort by: 1=Created, 2=Priority, 3=Status, 4=None")
	switch c.readIntInRange(1, 4) {
	case 1:
		sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedDate.Before(list[j].CreatedDate) })
	case 2:
		sort.SliceStable(list, func(i, j int) bool { return list[i].Priority.Rank() < list[j].Priority.Rank() })
	case 3:
		sort.SliceStable(list, func(i, j int) bool { return list[i].Status < list[j].Status })
	}
}

func (c *Console) viewDetailsOption(list []*domain.ServiceRequest) {
	sel := strings.TrimSpace(c.prompt("Enter Ticket ID or row number to view details (or blank to skip)"))
	if sel == "" {
		return
	}
	var r *domain.ServiceRequest
	if idx, err := strconv.Atoi(sel); err == nil {
		if idx >= 1 && idx <= len(list) {
			r = list[idx-1]
		}
	}
	if r == nil {
		r, _ = c.store.FindByID(strings.ToUpper(sel))
	}
	if r == nil {
		fmt.Fprintln(c.out, "Not found.")
		return
	}
	c.showDetails(r)
}

// ===== Input helpers =====

func (c *Console) readLine() string {
	if !c.in.Scan() {
		c.eof = true
		return ""
	}
	return c.in.Text()
}

func (c *Console) prompt(label string) string {
	fmt.Fprintf(c.out, "%s: ", label)
	return strings.TrimSpace(c.readLine())
}

// promptMultiline collects lines until a lone "." terminator.
func (c *Console) promptMultiline(label string) string {
	fmt.Fprintf(c.out, "%s:\n", label)
	var sb strings.Builder
	for {
		line := c.readLine()
		if line == "." || c.eof {
			break
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return strings.TrimSpace(sb.String())
}

func (c *Console) yesNo() bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(c.readLine())), "y")
}

// readIntInRange re-prompts until a number in range arrives. On input EOF it
// returns max, which is the Back/Exit entry of every menu, unwinding the
// loops cleanly.
func (c *Console) readIntInRange(min, max int) int {
	for {
		s := strings.TrimSpace(c.readLine())
		if c.eof {
			return max
		}
		v, err := strconv.Atoi(s)
		if err == nil && v >= min && v <= max {
			return v
		}
		fmt.Fprintf(c.out, "Enter a number between %d and %d: ", min, max)
	}
}

func (c *Console) pickString(label string, options []string) string {
	fmt.Fprintf(c.out, "%s:\n", label)
	for i, opt := range options {
		fmt.Fprintf(c.out, "[%d] %s\n", i+1, opt)
	}
	fmt.Fprintf(c.out, "Enter choice (1-%d): ", len(options))
	return options[c.readIntInRange(1, len(options))-1]
}

func (c *Console) pickStatus(label string) domain.RequestStatus {
	options := make([]string, 0, len(domain.Statuses()))
	for _, s := range domain.Statuses() {
		options = append(options, string(s))
	}
	return domain.RequestStatus(c.pickString(label, options))
}

func (c *Console) pickPriority(label string) domain.RequestPriority {
	options := make([]string, 0, len(domain.Priorities()))
	for _, p := range domain.Priorities() {
		options = append(options, string(p))
	}
	return domain.RequestPriority(c.pickString(label, options))
}

func (c *Console) pickRole(label string) domain.Role {
	options := make([]string, 0, len(domain.Roles()))
	for _, r := range domain.Roles() {
		options = append(options, string(r))
	}
	return domain.Role(c.pickString(label, options))
}

func (c *Console) pause() {
	fmt.Fprint(c.out, "\nPress ENTER to continue...")
	c.readLine()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
