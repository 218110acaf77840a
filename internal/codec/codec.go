// Package codec implements the line-oriented catalog encoding. Every field
// is base64-encoded before joining, so free text containing the separators
// survives a round trip unchanged. Decoding is forward-tolerant: tokens that
// are not valid base64 are kept as literal text, which reads files written by
// the older plain-text format.
package codec

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spec-kit/service-desk/internal/domain"
)

const (
	// FieldSep joins encoded fields into a line.
	FieldSep = "|"
	// ListSep joins encoded elements of a multi-valued field.
	ListSep = ";;"

	userFieldCount    = 7
	requestFieldCount = 16
)

// ErrShortLine reports a line with fewer fields than the record requires.
// Callers skip such lines instead of aborting the load.
var ErrShortLine = errors.New("codec: line has too few fields")

// EncodeUser serializes a user to one catalog line.
func EncodeUser(u *domain.User) string {
	fields := []string{
		encodeField(u.ID),
		encodeField(u.Name),
		encodeField(u.Department),
		encodeField(string(u.Role)),
		encodeField(u.Email),
		encodeField(u.Phone),
		encodeField(encodeList(u.History)),
	}
	return strings.Join(fields, FieldSep)
}

// DecodeUser parses one catalog line into a user.
func DecodeUser(line string) (*domain.User, error) {
	parts := strings.Split(line, FieldSep)
	if len(parts) < userFieldCount {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrShortLine, len(parts), userFieldCount)
	}
	return &domain.User{
		ID:         decodeField(parts[0]),
		Name:       decodeField(parts[1]),
		Department: decodeField(parts[2]),
		Role:       domain.Role(decodeField(parts[3])),
		Email:      decodeField(parts[4]),
		Phone:      decodeField(parts[5]),
		History:    decodeList(decodeField(parts[6])),
	}, nil
}

// EncodeRequest serializes a service request to one catalog line.
func EncodeRequest(r *domain.ServiceRequest) string {
	fields := []string{
		encodeField(r.TicketID),
		encodeField(r.UserName),
		encodeField(r.UserDept),
		encodeField(r.UserEmail),
		encodeField(r.UserPhone),
		encodeField(r.Category),
		encodeField(string(r.Priority)),
		encodeField(r.Subject),
		encodeField(r.Description),
		encodeField(string(r.Status)),
		encodeField(r.AssignedAgent),
		encodeField(formatTime(r.CreatedDate)),
		encodeField(formatTime(r.LastUpdated)),
		encodeField(formatTimePtr(r.ResolvedDate)),
		encodeField(r.ResolutionNotes),
		encodeField(encodeList(r.Comments)),
	}
	return strings.Join(fields, FieldSep)
}

// DecodeRequest parses one catalog line into a service request. A malformed
// timestamp makes the whole line invalid.
func DecodeRequest(line string) (*domain.ServiceRequest, error) {
	parts := strings.Split(line, FieldSep)
	if len(parts) < requestFieldCount {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrShortLine, len(parts), requestFieldCount)
	}

	created, err := parseTime(decodeField(parts[11]))
	if err != nil {
		return nil, err
	}
	updated, err := parseTime(decodeField(parts[12]))
	if err != nil {
		return nil, err
	}
	resolved, err := parseTimePtr(decodeField(parts[13]))
	if err != nil {
		return nil, err
	}

	return &domain.ServiceRequest{
		TicketID:        decodeField(parts[0]),
		UserName:        decodeField(parts[1]),
		UserDept:        decodeField(parts[2]),
		UserEmail:       decodeField(parts[3]),
		UserPhone:       decodeField(parts[4]),
		Category:        decodeField(parts[5]),
		Priority:        domain.RequestPriority(decodeField(parts[6])),
		Subject:         decodeField(parts[7]),
		Description:     decodeField(parts[8]),
		Status:          domain.RequestStatus(decodeField(parts[9])),
		AssignedAgent:   decodeField(parts[10]),
		CreatedDate:     created,
		LastUpdated:     updated,
		ResolvedDate:    resolved,
		ResolutionNotes: decodeField(parts[14]),
		Comments:        decodeList(decodeField(parts[15])),
	}, nil
}

// encodeField makes a string safe to embed between separators.
func encodeField(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

// decodeField reverses encodeField, keeping tokens that are not valid base64
// as literal text.
func decodeField(s string) string {
	decoded, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return s
	}
	return string(decoded)
}

// encodeList joins already-encoded elements; the result is encoded once more
// as an ordinary field by the caller.
func encodeList(items []string) string {
	if len(items) == 0 {
		return ""
	}
	encoded := make([]string, len(items))
	for i, item := range items {
		encoded[i] = encodeField(item)
	}
	return strings.Join(encoded, ListSep)
}

func decodeList(joined string) []string {
	if strings.TrimSpace(joined) == "" {
		return nil
	}
	tokens := strings.Split(joined, ListSep)
	items := make([]string, len(tokens))
	for i, token := range tokens {
		items[i] = decodeField(token)
	}
	return items
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(domain.TimeLayout)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func parseTime(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, nil
	}
	return time.Parse(domain.TimeLayout, s)
}

func parseTimePtr(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := time.Parse(domain.TimeLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
