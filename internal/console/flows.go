package console

import (
	"fmt"
	"strings"
	"time"

	"github.com/spec-kit/service-desk/internal/domain"
)

// ===== Submission =====

func (c *Console) submitNewRequest() {
	fmt.Fprintln(c.out, "\n=== New Service Request ===")
	fmt.Fprintf(c.out, "Ticket ID: %s (Auto-generated)\n\n", c.store.PreviewNextTicketID())

	fmt.Fprintln(c.out, "User Information:")
	name := c.prompt("Name")
	dept := c.prompt("Department")
	email := c.prompt("Email")
	phone := c.prompt("Phone")

	fmt.Fprintln(c.out, "\nRequest Details:")
	category := c.pickString("Category", domain.Categories())
	priority := c.pickPriority("Priority")
	subject := c.prompt("Subject")
	description := c.promptMultiline("Description (end with a single '.' on a new line)")

	fmt.Fprint(c.out, "\nSubmit Request? (Y/N): ")
	if !c.yesNo() {
		fmt.Fprintln(c.out, "Cancelled.")
		return
	}

	user := c.store.FindOrCreateUserByEmail(email, name, dept, domain.RoleUser, phone)
	r := c.store.CreateRequest(user, category, priority, subject, description)
	fmt.Fprintln(c.out, "\nRequest submitted successfully!")
	fmt.Fprintf(c.out, "Your Ticket ID: %s (save this for reference)\n", r.TicketID)
	c.showDetails(r)
	c.pause()
}

// ===== User dashboard =====

func (c *Console) viewMyRequests() {
	fmt.Fprintln(c.out, "\n=== View My Requests ===")
	email := c.prompt("Enter your Email")
	user, ok := c.store.FindUserByEmail(email)
	if !ok {
		fmt.Fprintln(c.out, "User not found. Create a new account?")
		fmt.Fprint(c.out, "(Y/N): ")
		if !c.yesNo() {
			return
		}
		name := c.prompt("Name")
		dept := c.prompt("Department")
		phone := c.prompt("Phone")
		user = c.store.CreateUser(name, dept, domain.RoleUser, email, phone)
		fmt.Fprintf(c.out, "User created with ID: %s\n", user.ID)
	}

	for {
		fmt.Fprintf(c.out, "\n=== My Dashboard (%s) ===\n", user.Name)
		fmt.Fprintln(c.out, "1. List My Requests")
		fmt.Fprintln(c.out, "2. Search My Requests by Keyword")
		fmt.Fprintln(c.out, "3. Add Follow-up Comment to a Request")
		fmt.Fprintln(c.out, "4. View Assigned to Me (if Agent)")
		fmt.Fprintln(c.out, "5. Back to Main Menu")
		fmt.Fprint(c.out, "Enter choice: ")
		switch c.readIntInRange(1, 5) {
		case 1:
			c.listRequestsForUser(user)
		case 2:
			c.searchRequestsForUser(user)
		case 3:
			c.addCommentForUser(user)
		case 4:
			c.viewAssignedToAgent(user)
		case 5:
			return
		}
	}
}

func (c *Console) listRequestsForUser(user *domain.User) {
	list := c.store.ListByUserEmail(user.Email)
	if len(list) == 0 {
		fmt.Fprintln(c.out, "No requests found.")
		return
	}
	c.sortSelectionMenu(list)
	c.printRequestTable(list)
	c.viewDetailsOption(list)
}

func (c *Console) searchRequestsForUser(user *domain.User) {
	keyword := c.prompt("Keyword or Ticket ID")
	upper := strings.ToUpper(keyword)
	if strings.HasPrefix(upper, "REQ-") {
		r, ok := c.store.FindByID(upper)
		if ok && strings.EqualFold(r.UserEmail, user.Email) {
			c.showDetails(r)
		} else {
			fmt.Fprintln(c.out, "No matching requests.")
		}
		return
	}
	var list []*domain.ServiceRequest
	for _, r := range c.store.SearchByKeyword(keyword) {
		if strings.EqualFold(r.UserEmail, user.Email) {
			list = append(list, r)
		}
	}
	if len(list) == 0 {
		fmt.Fprintln(c.out, "No matching requests.")
		return
	}
	c.sortSelectionMenu(list)
	c.printRequestTable(list)
	c.viewDetailsOption(list)
}

func (c *Console) addCommentForUser(user *domain.User) {
	id := strings.ToUpper(c.prompt("Enter Ticket ID"))
	r, ok := c.store.FindByID(id)
	if !ok {
		fmt.Fprintln(c.out, "Ticket not found.")
		return
	}
	if !strings.EqualFold(r.UserEmail, user.Email) {
		fmt.Fprintln(c.out, "You can only comment on your own requests.")
		return
	}
	comment := c.prompt("Comment (single line)")
	if !c.store.AddComment(r, user.Name+": "+comment) {
		fmt.Fprintln(c.out, "No comment entered. Cancelled.")
		return
	}
	fmt.Fprintln(c.out, "Comment added.")
	c.showDetails(r)
	c.pause()
}

func (c *Console) viewAssignedToAgent(user *domain.User) {
	if user.Role != domain.RoleAgent {
		fmt.Fprintln(c.out, "You are not a Support Agent.")
		return
	}
	list := c.store.ListByAssignedAgent(user.Name)
	if len(list) == 0 {
		fmt.Fprintln(c.out, "No requests assigned to you.")
		return
	}
	c.sortSelectionMenu(list)
	c.printRequestTable(list)
	fmt.Fprintln(c.out, "Select an action:")
	fmt.Fprintln(c.out, "1. View Details")
	fmt.Fprintln(c.out, "2. Update Status")
	fmt.Fprintln(c.out, "3. Add Comment")
	fmt.Fprintln(c.out, "4. Back")
	switch c.readIntInRange(1, 4) {
	case 1:
		c.viewDetailsOption(list)
	case 2:
		r, ok := c.findAssignedRequest(user)
		if !ok {
			break
		}
		status := c.pickStatus("New Status")
		c.store.UpdateStatus(r, status, user.Name)
		if status == domain.StatusResolved {
			c.store.SetResolutionNotes(r, c.prompt("Resolution note"))
		}
		fmt.Fprintln(c.out, "Status updated.")
	case 3:
		r, ok := c.findAssignedRequest(user)
		if !ok {
			break
		}
		c.store.AddComment(r, user.Name+": "+c.prompt("Comment"))
		fmt.Fprintln(c.out, "Comment added.")
	}
}

func (c *Console) findAssignedRequest(user *domain.User) (*domain.ServiceRequest, bool) {
	id := strings.ToUpper(c.prompt("Ticket ID"))
	r, ok := c.store.FindByID(id)
	if !ok || !strings.EqualFold(r.AssignedAgent, user.Name) {
		fmt.Fprintln(c.out, "Ticket not found or not assigned to you.")
		return nil, false
	}
	return r, true
}

// ===== Administrator panel =====

func (c *Console) adminPanel() {
	fmt.Fprint(c.out, "\nEnter Admin PIN: ")
	if !c.gate.Verify(strings.TrimSpace(c.readLine())) {
		fmt.Fprintln(c.out, "Invalid PIN.")
		return
	}
	for {
		fmt.Fprintln(c.out, "\n=== Administrator Panel ===")
		fmt.Fprintln(c.out, "1. View/Manage All Requests")
		fmt.Fprintln(c.out, "2. Assign Request to Agent")
		fmt.Fprintln(c.out, "3. Update Request Status")
		fmt.Fprintln(c.out, "4. Add Admin/Agent/User")
		fmt.Fprintln(c.out, "5. Manage Users (List/Delete)")
		fmt.Fprintln(c.out, "6. Export Request Details to Text")
		fmt.Fprintln(c.out, "7. Back")
		fmt.Fprint(c.out, "Enter choice: ")
		switch c.readIntInRange(1, 7) {
		case 1:
			c.manageAllRequests()
		case 2:
			c.assignRequest()
		case 3:
			c.updateRequestStatus()
		case 4:
			c.createUserFlow()
		case 5:
			c.manageUsers()
		case 6:
			c.exportSingleRequest()
		case 7:
			return
		}
	}
}

func (c *Console) manageAllRequests() {
	for {
		fmt.Fprintln(c.out, "\n=== Manage Requests ===")
		fmt.Fprintln(c.out, "1. View All")
		fmt.Fprintln(c.out, "2. Filter by Status")
		fmt.Fprintln(c.out, "3. Filter by Category")
		fmt.Fprintln(c.out, "4. Filter by Priority")
		fmt.Fprintln(c.out, "5. Filter by Date Range")
		fmt.Fprintln(c.out, "6. Search by Keyword")
		fmt.Fprintln(c.out, "7. View by User (email)")
		fmt.Fprintln(c.out, "8. Back")
		fmt.Fprint(c.out, "Enter choice: ")

		var list []*domain.ServiceRequest
		switch c.readIntInRange(1, 8) {
		case 1:
			list = c.store.ListAll()
		case 2:
			list = c.store.FilterByStatus(c.pickStatus("Status"))
		case 3:
			list = c.store.FilterByCategory(c.pickString("Category", domain.Categories()))
		case 4:
			list = c.store.FilterByPriority(c.pickPriority("Priority"))
		case 5:
			list = c.filterByDateRange()
		case 6:
			list = c.store.SearchByKeyword(c.prompt("Keyword"))
		case 7:
			list = c.store.ListByUserEmail(c.prompt("User Email"))
		case 8:
			return
		}

		if len(list) == 0 {
			fmt.Fprintln(c.out, "No results.")
			continue
		}
		c.sortSelectionMenu(list)
		c.printRequestTable(list)
		fmt.Fprintln(c.out, "Select an action:")
		fmt.Fprintln(c.out, "1. View Details")
		fmt.Fprintln(c.out, "2. Update Status")
		fmt.Fprintln(c.out, "3. Assign to Agent")
		fmt.Fprintln(c.out, "4. Add Comment")
		fmt.Fprintln(c.out, "5. Delete Request")
		fmt.Fprintln(c.out, "6. Back")
		switch c.readIntInRange(1, 6) {
		case 1:
			c.viewDetailsOption(list)
		case 2:
			c.updateRequestStatus()
		case 3:
			c.assignRequest()
		case 4:
			c.addCommentAsAdmin()
		case 5:
			c.deleteRequest()
		}
	}
}

func (c *Console) filterByDateRange() []*domain.ServiceRequest {
	fmt.Fprintln(c.out, "Enter From date-time (yyyy-MM-dd HH:mm:ss) or blank for no lower bound:")
	from := c.parseBound(strings.TrimSpace(c.readLine()))
	fmt.Fprintln(c.out, "Enter To date-time (yyyy-MM-dd HH:mm:ss) or blank for no upper bound:")
	to := c.parseBound(strings.TrimSpace(c.readLine()))
	return c.store.FilterByDateRange(from, to)
}

func (c *Console) parseBound(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(domain.TimeLayout, s)
	if err != nil {
		fmt.Fprintf(c.out, "Ignoring unparseable date %q.\n", s)
		return nil
	}
	return &t
}

func (c *Console) assignRequest() {
	id := strings.ToUpper(c.prompt("Ticket ID"))
	r, ok := c.store.FindByID(id)
	if !ok {
		fmt.Fprintln(c.out, "Not found.")
		return
	}
	c.store.Assign(r, c.prompt("Assign to Agent (name)"))
	fmt.Fprintln(c.out, "Assigned.")
}

func (c *Console) updateRequestStatus() {
	id := strings.ToUpper(c.prompt("Ticket ID"))
	r, ok := c.store.FindByID(id)
	if !ok {
		fmt.Fprintln(c.out, "Not found.")
		return
	}
	status := c.pickStatus("New Status")
	c.store.UpdateStatus(r, status, "ADMIN")
	if status == domain.StatusResolved {
		c.store.SetResolutionNotes(r, c.prompt("Resolution note"))
	}
	fmt.Fprintln(c.out, "Status updated.")
}

func (c *Console) addCommentAsAdmin() {
	id := strings.ToUpper(c.prompt("Ticket ID"))
	r, ok := c.store.FindByID(id)
	if !ok {
		fmt.Fprintln(c.out, "Not found.")
		return
	}
	c.store.AddComment(r, "Admin: "+c.prompt("Comment"))
	fmt.Fprintln(c.out, "Comment added.")
}

func (c *Console) deleteRequest() {
	id := strings.ToUpper(c.prompt("Ticket ID"))
	if c.store.DeleteRequest(id) {
		fmt.Fprintln(c.out, "Deleted.")
	} else {
		fmt.Fprintln(c.out, "Ticket not found.")
	}
}

func (c *Console) createUserFlow() {
	fmt.Fprintln(c.out, "\n=== Create User ===")
	name := c.prompt("Name")
	dept := c.prompt("Department")
	role := c.pickRole("Role")
	email := c.prompt("Email")
	phone := c.prompt("Phone")
	u := c.store.CreateUser(name, dept, role, email, phone)
	fmt.Fprintf(c.out, "User created with ID: %s\n", u.ID)
}

func (c *Console) manageUsers() {
	for {
		fmt.Fprintln(c.out, "\n=== Users ===")
		fmt.Fprintln(c.out, "1. List Users")
		fmt.Fprintln(c.out, "2. Delete User by Email")
		fmt.Fprintln(c.out, "3. Back")
		switch c.readIntInRange(1, 3) {
		case 1:
			for _, u := range c.store.Users() {
				fmt.Fprintln(c.out, u)
			}
		case 2:
			if c.store.DeleteUserByEmail(c.prompt("Email")) {
				fmt.Fprintln(c.out, "Deleted.")
			} else {
				fmt.Fprintln(c.out, "User not found or has requests.")
			}
		case 3:
			return
		}
	}
}

func (c *Console) exportSingleRequest() {
	id := strings.ToUpper(c.prompt("Ticket ID"))
	r, ok := c.store.FindByID(id)
	if !ok {
		fmt.Fprintln(c.out, "Not found.")
		return
	}
	path, err := c.exporter.WriteRequestDetails(r)
	if err != nil {
		fmt.Fprintf(c.out, "[ERROR] %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "Exported to: %s\n", path)
}
