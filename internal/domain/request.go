package domain

import (
	"fmt"
	"strings"
	"time"
)

// TimeLayout is the fixed-width textual timestamp format used everywhere a
// timestamp is rendered or persisted.
const TimeLayout = "2006-01-02 15:04:05"

// RequestStatus enumerates lifecycle states for service requests.
type RequestStatus string

const (
	StatusOpen       RequestStatus = "OPEN"
	StatusInProgress RequestStatus = "IN_PROGRESS"
	StatusResolved   RequestStatus = "RESOLVED"
	StatusClosed     RequestStatus = "CLOSED"
)

// Statuses lists all request statuses in workflow order. The order is a
// documented convention only; any status may be set from any other.
func Statuses() []RequestStatus {
	return []RequestStatus{StatusOpen, StatusInProgress, StatusResolved, StatusClosed}
}

// RequestPriority enumerates urgency levels.
type RequestPriority string

const (
	PriorityCritical RequestPriority = "CRITICAL"
	PriorityHigh     RequestPriority = "HIGH"
	PriorityMedium   RequestPriority = "MEDIUM"
	PriorityLow      RequestPriority = "LOW"
)

// Priorities lists all priorities from most to least urgent.
func Priorities() []RequestPriority {
	return []RequestPriority{PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow}
}

// Rank orders priorities for sorting; lower is more urgent. Unknown values
// sort last.
func (p RequestPriority) Rank() int {
	switch RequestPriority(strings.ToUpper(string(p))) {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	default:
		return 3
	}
}

// Categories lists the fixed set of request categories.
func Categories() []string {
	return []string{
		"IT Support - Hardware",
		"IT Support - Software",
		"IT Support - Network",
		"Facilities - Maintenance",
		"Facilities - Repairs",
		"Facilities - Access",
		"HR Services - Benefits",
		"HR Services - Payroll",
		"HR Services - Policies",
		"General Services - Supplies",
		"General Services - Equipment",
		"General Services - Other",
	}
}

// ServiceRequest is the aggregate for a single user-submitted issue. The
// user* fields are a snapshot of the submitter's contact details at creation
// time; later user edits do not flow back into past requests.
type ServiceRequest struct {
	TicketID        string
	UserName        string
	UserDept        string
	UserEmail       string
	UserPhone       string
	Category        string
	Priority        RequestPriority
	Subject         string
	Description     string
	Status          RequestStatus
	AssignedAgent   string
	CreatedDate     time.Time
	LastUpdated     time.Time
	ResolvedDate    *time.Time
	ResolutionNotes string
	Comments        []string
}

// AddComment appends a timestamped entry to the request's comment log and
// refreshes LastUpdated. A blank or whitespace-only comment is dropped
// without touching the record.
func (r *ServiceRequest) AddComment(comment string, now time.Time) bool {
	if strings.TrimSpace(comment) == "" {
		return false
	}
	r.Comments = append(r.Comments, "["+now.Format(TimeLayout)+"] "+comment)
	r.LastUpdated = now
	return true
}

// DisplayString renders the full detail view of a request.
func (r *ServiceRequest) DisplayString() string {
	var sb strings.Builder
	sb.WriteString("\n=== Request Details ===\n")
	fmt.Fprintf(&sb, "Ticket ID: %s\n", r.TicketID)
	fmt.Fprintf(&sb, "Status: %s\n", r.Status)
	fmt.Fprintf(&sb, "Created: %s\n", r.CreatedDate.Format(TimeLayout))
	fmt.Fprintf(&sb, "Priority: %s\n\n", r.Priority)
	fmt.Fprintf(&sb, "User: %s (%s)\n", r.UserName, r.UserDept)
	fmt.Fprintf(&sb, "Email: %s\n\n", r.UserEmail)
	fmt.Fprintf(&sb, "Subject: %s\n", r.Subject)
	fmt.Fprintf(&sb, "Category: %s\n\n", r.Category)
	fmt.Fprintf(&sb, "Description:\n%s\n\n", r.Description)
	fmt.Fprintf(&sb, "Assignment: %s\n", r.AssignedAgent)
	if r.LastUpdated.IsZero() {
		sb.WriteString("Last Update: \n")
	} else {
		fmt.Fprintf(&sb, "Last Update: %s\n", r.LastUpdated.Format(TimeLayout))
	}
	if r.ResolvedDate != nil {
		fmt.Fprintf(&sb, "Resolved: %s\n", r.ResolvedDate.Format(TimeLayout))
	}
	if strings.TrimSpace(r.ResolutionNotes) != "" {
		fmt.Fprintf(&sb, "Resolution Notes: %s\n", r.ResolutionNotes)
	}
	sb.WriteString("\nComments:\n")
	if len(r.Comments) == 0 {
		sb.WriteString("(None)\n")
	} else {
		for _, c := range r.Comments {
			fmt.Fprintf(&sb, "- %s\n", c)
		}
	}
	return sb.String()
}
