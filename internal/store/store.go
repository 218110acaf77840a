package store

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/service-desk/internal/domain"
	"github.com/spec-kit/service-desk/internal/events"
)

// Filter captures request search parameters. Nil fields and empty slices
// match everything.
type Filter struct {
	UserEmail     *string
	AssignedAgent *string
	Statuses      []domain.RequestStatus
	Categories    []string
	Priorities    []domain.RequestPriority
	SearchTerm    *string
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
}

// Store owns the in-memory catalog of users and service requests. It is the
// single source of truth for identity allocation and workflow mutations.
// All operations are synchronous; persistence happens only when a caller
// flushes through the gateway.
type Store struct {
	requests []*domain.ServiceRequest
	byID     map[string]*domain.ServiceRequest
	users    []*domain.User
	nextSeq  int
	dirty    bool

	now        func() time.Time
	dispatcher events.Dispatcher
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source, letting tests pin timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithDispatcher attaches an event dispatcher notified on catalog changes.
func WithDispatcher(d events.Dispatcher) Option {
	return func(s *Store) { s.dispatcher = d }
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		byID:    make(map[string]*domain.ServiceRequest),
		nextSeq: 1,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dirty reports whether the catalog has unsaved mutations.
func (s *Store) Dirty() bool { return s.dirty }

// MarkDirty flags the catalog as having unsaved mutations. Callers that
// mutate records directly through store handles use this to request a flush.
func (s *Store) MarkDirty() { s.dirty = true }

// ClearDirty resets the unsaved-mutations flag after a successful save.
func (s *Store) ClearDirty() { s.dirty = false }

// Users returns the user collection in a fresh slice.
func (s *Store) Users() []*domain.User {
	return append([]*domain.User{}, s.users...)
}

// Requests returns the request collection in a fresh slice.
func (s *Store) Requests() []*domain.ServiceRequest {
	return append([]*domain.ServiceRequest{}, s.requests...)
}

// PreviewNextTicketID returns the identifier the next request would receive
// without consuming it.
func (s *Store) PreviewNextTicketID() string {
	return fmt.Sprintf("REQ-%03d", s.nextSeq)
}

// CreateRequest allocates the next ticket identifier, snapshots the user's
// contact fields and appends the request to the catalog. A nil user is
// allowed; the request is then created without a history link.
func (s *Store) CreateRequest(user *domain.User, category string, priority domain.RequestPriority, subject, description string) *domain.ServiceRequest {
	ticketID := fmt.Sprintf("REQ-%03d", s.nextSeq)
	s.nextSeq++

	now := s.now()
	r := &domain.ServiceRequest{
		TicketID:    ticketID,
		Category:    category,
		Priority:    priority,
		Subject:     subject,
		Description: description,
		Status:      domain.StatusOpen,
		CreatedDate: now,
		LastUpdated: now,
	}
	if user != nil {
		r.UserName = user.Name
		r.UserDept = user.Department
		r.UserEmail = user.Email
		r.UserPhone = user.Phone
		user.History = append(user.History, ticketID)
	}
	s.requests = append(s.requests, r)
	s.byID[ticketID] = r
	s.dirty = true

	s.publish(events.Event{
		Type:     events.EventRequestCreated,
		TicketID: ticketID,
		Payload: events.RequestCreatedPayload{
			Category: category,
			Priority: priority,
			Subject:  subject,
		},
	})
	return r
}

// UpdateStatus sets the request status, refreshes LastUpdated and records an
// audit comment. The first transition into RESOLVED or CLOSED stamps
// ResolvedDate; the stamp is never cleared afterwards. Transitions are not
// validated: any status may follow any other.
func (s *Store) UpdateStatus(r *domain.ServiceRequest, status domain.RequestStatus, actor string) {
	if r == nil {
		return
	}
	oldStatus := r.Status
	now := s.now()
	r.Status = status
	r.LastUpdated = now

	audit := "[STATUS] -> " + string(status)
	if actor != "" {
		audit += " by " + actor
	}
	r.AddComment(audit, now)

	if (status == domain.StatusResolved || status == domain.StatusClosed) && r.ResolvedDate == nil {
		resolved := now
		r.ResolvedDate = &resolved
	}
	s.dirty = true

	s.publish(events.Event{
		Type:     events.EventStatusChanged,
		TicketID: r.TicketID,
		Actor:    actor,
		Payload: events.StatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: status,
		},
	})
}

// Assign hands the request to the named agent and records an audit comment.
func (s *Store) Assign(r *domain.ServiceRequest, agent string) {
	if r == nil {
		return
	}
	r.AssignedAgent = agent
	r.AddComment("[ASSIGN] Assigned to "+agent, s.now())
	s.dirty = true

	s.publish(events.Event{
		Type:     events.EventRequestAssigned,
		TicketID: r.TicketID,
		Payload:  events.RequestAssignedPayload{Agent: agent},
	})
}

// AddComment appends a timestamped comment to the request. Blank comments
// are dropped and do not dirty the catalog.
func (s *Store) AddComment(r *domain.ServiceRequest, comment string) bool {
	if r == nil {
		return false
	}
	if !r.AddComment(comment, s.now()) {
		return false
	}
	s.dirty = true

	s.publish(events.Event{
		Type:     events.EventCommentAdded,
		TicketID: r.TicketID,
		Payload:  events.CommentAddedPayload{Preview: preview(comment)},
	})
	return true
}

// SetResolutionNotes stores the resolution note and records it in the
// comment log.
func (s *Store) SetResolutionNotes(r *domain.ServiceRequest, note string) {
	if r == nil {
		return
	}
	r.ResolutionNotes = note
	r.AddComment("[RESOLVED] "+note, s.now())
	s.dirty = true
}

// DeleteRequest removes the request from the catalog and purges its
// identifier from every user's history. Returns false when no request with
// the given identifier exists. Deleted identifiers are never reused.
func (s *Store) DeleteRequest(ticketID string) bool {
	r, ok := s.byID[ticketID]
	if !ok {
		return false
	}
	delete(s.byID, ticketID)
	for i, candidate := range s.requests {
		if candidate == r {
			s.requests = append(s.requests[:i], s.requests[i+1:]...)
			break
		}
	}
	for _, u := range s.users {
		u.History = removeString(u.History, ticketID)
	}
	s.dirty = true

	s.publish(events.Event{
		Type:     events.EventRequestDeleted,
		TicketID: ticketID,
	})
	return true
}

// FindByID looks up a request by its ticket identifier.
func (s *Store) FindByID(ticketID string) (*domain.ServiceRequest, bool) {
	r, ok := s.byID[ticketID]
	return r, ok
}

// ListAll returns every request in a fresh slice.
func (s *Store) ListAll() []*domain.ServiceRequest {
	return s.ListWithFilter(Filter{})
}

// ListByUserEmail returns requests whose snapshotted submitter email matches
// case-insensitively.
func (s *Store) ListByUserEmail(email string) []*domain.ServiceRequest {
	return s.ListWithFilter(Filter{UserEmail: &email})
}

// ListByAssignedAgent returns requests assigned to the named agent.
func (s *Store) ListByAssignedAgent(agent string) []*domain.ServiceRequest {
	return s.ListWithFilter(Filter{AssignedAgent: &agent})
}

// FilterByStatus returns requests in the given status.
func (s *Store) FilterByStatus(status domain.RequestStatus) []*domain.ServiceRequest {
	return s.ListWithFilter(Filter{Statuses: []domain.RequestStatus{status}})
}

// FilterByCategory returns requests in the given category.
func (s *Store) FilterByCategory(category string) []*domain.ServiceRequest {
	return s.ListWithFilter(Filter{Categories: []string{category}})
}

// FilterByPriority returns requests with the given priority.
func (s *Store) FilterByPriority(priority domain.RequestPriority) []*domain.ServiceRequest {
	return s.ListWithFilter(Filter{Priorities: []domain.RequestPriority{priority}})
}

// FilterByDateRange returns requests created within the inclusive bounds.
// Either bound may be nil for an open interval.
func (s *Store) FilterByDateRange(from, to *time.Time) []*domain.ServiceRequest {
	return s.ListWithFilter(Filter{CreatedFrom: from, CreatedTo: to})
}

// SearchByKeyword returns requests whose subject or description contains the
// keyword, case-insensitively.
func (s *Store) SearchByKeyword(keyword string) []*domain.ServiceRequest {
	return s.ListWithFilter(Filter{SearchTerm: &keyword})
}

// ListWithFilter evaluates the filter against every request and returns the
// matches in catalog order. The returned slice is independent of the store;
// callers may sort or truncate it freely.
func (s *Store) ListWithFilter(filter Filter) []*domain.ServiceRequest {
	result := []*domain.ServiceRequest{}
	for _, r := range s.requests {
		if matches(r, filter) {
			result = append(result, r)
		}
	}
	return result
}

func matches(r *domain.ServiceRequest, filter Filter) bool {
	if filter.UserEmail != nil && !strings.EqualFold(r.UserEmail, *filter.UserEmail) {
		return false
	}
	if filter.AssignedAgent != nil && !strings.EqualFold(r.AssignedAgent, *filter.AssignedAgent) {
		return false
	}
	if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, r.Status) {
		return false
	}
	if len(filter.Categories) > 0 && !containsFold(filter.Categories, r.Category) {
		return false
	}
	if len(filter.Priorities) > 0 && !containsPriority(filter.Priorities, r.Priority) {
		return false
	}
	if filter.CreatedFrom != nil && r.CreatedDate.Before(*filter.CreatedFrom) {
		return false
	}
	if filter.CreatedTo != nil && r.CreatedDate.After(*filter.CreatedTo) {
		return false
	}
	if filter.SearchTerm != nil {
		kw := strings.ToLower(*filter.SearchTerm)
		if !strings.Contains(strings.ToLower(r.Subject), kw) &&
			!strings.Contains(strings.ToLower(r.Description), kw) {
			return false
		}
	}
	return true
}

// CreateUser allocates a fresh identifier and appends the user. Email
// uniqueness is deliberately not enforced here; lookup by email returns the
// first match. Callers wanting find-or-create semantics use
// FindOrCreateUserByEmail.
func (s *Store) CreateUser(name, dept string, role domain.Role, email, phone string) *domain.User {
	u := &domain.User{
		ID:         newUserID(),
		Name:       name,
		Department: dept,
		Role:       role,
		Email:      email,
		Phone:      phone,
	}
	s.users = append(s.users, u)
	s.dirty = true
	return u
}

// FindUserByEmail returns the first user whose email matches
// case-insensitively.
func (s *Store) FindUserByEmail(email string) (*domain.User, bool) {
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return nil, false
}

// FindOrCreateUserByEmail returns the existing user for the email or creates
// one with the supplied details.
func (s *Store) FindOrCreateUserByEmail(email, name, dept string, role domain.Role, phone string) *domain.User {
	if u, ok := s.FindUserByEmail(email); ok {
		return u
	}
	return s.CreateUser(name, dept, role, email, phone)
}

// DeleteUserByEmail removes the user when their ticket history is empty.
// Returns false when the user does not exist or still has linked requests.
func (s *Store) DeleteUserByEmail(email string) bool {
	u, ok := s.FindUserByEmail(email)
	if !ok {
		return false
	}
	if len(u.History) > 0 {
		return false
	}
	for i, candidate := range s.users {
		if candidate == u {
			s.users = append(s.users[:i], s.users[i+1:]...)
			break
		}
	}
	s.dirty = true
	return true
}

// ReplaceAll bulk-loads a catalog, rebuilding the identifier index and
// recalibrating the sequence counter to one past the highest numeric suffix
// found. The counter never moves backwards. Clears the dirty flag.
func (s *Store) ReplaceAll(users []*domain.User, requests []*domain.ServiceRequest) {
	s.users = append([]*domain.User{}, users...)
	s.requests = append([]*domain.ServiceRequest{}, requests...)
	s.byID = make(map[string]*domain.ServiceRequest, len(requests))
	for _, r := range requests {
		s.byID[r.TicketID] = r
	}
	s.calibrateNextSeq()
	s.dirty = false
}

func (s *Store) calibrateNextSeq() {
	max := 0
	for id := range s.byID {
		num, err := strconv.Atoi(strings.TrimPrefix(id, "REQ-"))
		if err != nil {
			continue
		}
		if num > max {
			max = num
		}
	}
	if max+1 > s.nextSeq {
		s.nextSeq = max + 1
	}
}

func (s *Store) publish(event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(event)
}

func newUserID() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func preview(comment string) string {
	const maxPreview = 60
	if len(comment) <= maxPreview {
		return comment
	}
	return comment[:maxPreview]
}

func removeString(list []string, value string) []string {
	for i, v := range list {
		if v == value {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

func containsStatus(list []domain.RequestStatus, v domain.RequestStatus) bool {
	for _, s := range list {
		if strings.EqualFold(string(s), string(v)) {
			return true
		}
	}
	return false
}

func containsPriority(list []domain.RequestPriority, v domain.RequestPriority) bool {
	for _, p := range list {
		if strings.EqualFold(string(p), string(v)) {
			return true
		}
	}
	return false
}

func containsFold(list []string, v string) bool {
	for _, s := range list {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}
