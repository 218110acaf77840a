package domain

import "fmt"

// Role classifies what a user may do in the system.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleAgent Role = "AGENT"
	RoleUser  Role = "USER"
)

// Roles lists all assignable roles.
func Roles() []Role {
	return []Role{RoleAdmin, RoleAgent, RoleUser}
}

// User is the domain model for people who submit or handle requests.
// History holds the ticket IDs the user has opened, in submission order.
type User struct {
	ID         string
	Name       string
	Department string
	Role       Role
	Email      string
	Phone      string
	History    []string
}

// String renders a one-line summary for user listings.
func (u *User) String() string {
	return fmt.Sprintf("%s | %s | %s | %s | %s | %s | Tickets: %d",
		u.ID, u.Name, u.Department, u.Role, u.Email, u.Phone, len(u.History))
}
