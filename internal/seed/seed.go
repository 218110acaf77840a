// Package seed installs the first-run sample catalog.
package seed

import (
	"github.com/spec-kit/service-desk/internal/domain"
	"github.com/spec-kit/service-desk/internal/store"
)

// SampleData populates an empty store with a small catalog covering every
// role and several workflow states.
func SampleData(st *store.Store) {
	admin := st.CreateUser("Alice Admin", "IT", domain.RoleAdmin, "admin@example.com", "100-000")
	agent := st.CreateUser("Tom Wilson", "IT Support", domain.RoleAgent, "tom.wilson@example.com", "100-101")
	user1 := st.CreateUser("Sarah Connor", "Marketing", domain.RoleUser, "sarah.connor@example.com", "100-201")
	user2 := st.CreateUser("John Smith", "Finance", domain.RoleUser, "john.smith@example.com", "100-202")

	r1 := st.CreateRequest(user1, "IT Support - Software", domain.PriorityHigh,
		"Laptop crashed", "Blue screen on startup, needs urgent fix")
	st.UpdateStatus(r1, domain.StatusInProgress, agent.Name)
	st.Assign(r1, agent.Name)
	st.AddComment(r1, agent.Name+": Investigating BSOD.")

	r2 := st.CreateRequest(user2, "Facilities - Maintenance", domain.PriorityMedium,
		"Air conditioner leaking", "Water dripping from AC unit in room 204")
	st.UpdateStatus(r2, domain.StatusOpen, admin.Name)

	r3 := st.CreateRequest(user1, "HR Services - Payroll", domain.PriorityLow,
		"Payslip correction", "Incorrect tax calculation in June payslip")
	st.UpdateStatus(r3, domain.StatusResolved, admin.Name)
	st.SetResolutionNotes(r3, "Corrected payroll entry and reissued payslip")
}
