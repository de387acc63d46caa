// Package account defines the three portal record kinds (students,
// professors, admins), the identity a login resolves to, and the
// repository contract every storage backend implements.
package account

import (
	"strings"
	"time"
)

// Kind tags which store a record belongs to.
type Kind string

const (
	KindStudent   Kind = "student"
	KindProfessor Kind = "professor"
	KindAdmin     Kind = "admin"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindStudent, KindProfessor, KindAdmin:
		return true
	}
	return false
}

// KeyField returns the JSON name of the kind-specific business key.
func (k Kind) KeyField() string {
	switch k {
	case KindStudent:
		return "studentID"
	case KindProfessor:
		return "professorID"
	case KindAdmin:
		return "employeeID"
	}
	return ""
}

// Status gates whether a record may log in.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
)

// ParseStatus normalizes s and checks it against the known statuses.
func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case StatusActive, StatusInactive, StatusSuspended:
		return st, true
	}
	return "", false
}

// Account is the shared shape of all three record kinds. Only the key
// field matching Kind is populated; kind-specific attributes are left
// empty for the other kinds.
type Account struct {
	ID          string `json:"id"`
	Kind        Kind   `json:"type"`
	StudentID   string `json:"studentID,omitempty"`
	ProfessorID string `json:"professorID,omitempty"`
	EmployeeID  string `json:"employeeID,omitempty"`

	LastName     string `json:"lastName"`
	FirstName    string `json:"firstName"`
	MiddleName   string `json:"middleName"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`

	// Professor and admin
	ContactNumber    string `json:"contactNumber,omitempty"`
	Department       string `json:"department,omitempty"`
	Designation      string `json:"designation,omitempty"`
	EmploymentStatus string `json:"employmentStatus,omitempty"`

	// Admin only
	Role      string `json:"role,omitempty"`
	CreatedBy string `json:"createdBy,omitempty"`

	// Student only
	Course    string `json:"course,omitempty"`
	Section   string `json:"section,omitempty"`
	YearLevel string `json:"yearLevel,omitempty"`

	AccountStatus Status    `json:"accountStatus"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Key returns the kind-specific business key.
func (a *Account) Key() string {
	switch a.Kind {
	case KindStudent:
		return a.StudentID
	case KindProfessor:
		return a.ProfessorID
	case KindAdmin:
		return a.EmployeeID
	}
	return ""
}

// SetKey stores key in the field matching the record's kind.
func (a *Account) SetKey(key string) {
	switch a.Kind {
	case KindStudent:
		a.StudentID = key
	case KindProfessor:
		a.ProfessorID = key
	case KindAdmin:
		a.EmployeeID = key
	}
}

// FullName renders "LAST, FIRST MIDDLE".
func (a *Account) FullName() string {
	return FormatFullName(a.LastName, a.FirstName, a.MiddleName)
}

// FormatFullName is the display name used in listings and sessions.
func FormatFullName(last, first, middle string) string {
	return strings.TrimSpace(last + ", " + strings.TrimSpace(first+" "+middle))
}

// Normalize applies the casing rules every write must follow: name parts
// and codes upper-case, email lower-case.
func (a *Account) Normalize() {
	a.LastName = upper(a.LastName)
	a.FirstName = upper(a.FirstName)
	a.MiddleName = upper(a.MiddleName)
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	a.SetKey(upper(a.Key()))

	switch a.Kind {
	case KindStudent:
		a.Course = upper(a.Course)
		a.Section = upper(a.Section)
		a.YearLevel = strings.TrimSpace(a.YearLevel)
	case KindProfessor, KindAdmin:
		a.Department = upper(a.Department)
		a.ContactNumber = strings.TrimSpace(a.ContactNumber)
	}
}

// Identity returns the minimal profile held in a session.
func (a *Account) Identity() Identity {
	return Identity{
		ID:       a.Key(),
		Role:     a.Kind,
		FullName: a.FullName(),
		Email:    a.Email,
	}
}

// Clone returns a copy safe to hand out of a store.
func (a *Account) Clone() *Account {
	c := *a
	return &c
}

// View is the listing representation: the record plus its display name.
type View struct {
	Account
	FullName string `json:"fullName"`
}

// NewView wraps a for listing.
func NewView(a *Account) View {
	return View{Account: *a, FullName: a.FullName()}
}

// Identity is what a successful login resolves to.
type Identity struct {
	ID       string `json:"id"`
	Role     Kind   `json:"role"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

func upper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
