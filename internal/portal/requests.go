package portal

// StudentRegistration is the public self-registration payload.
type StudentRegistration struct {
	LastName   string `json:"lastName" validate:"notblank"`
	FirstName  string `json:"firstName" validate:"notblank"`
	MiddleName string `json:"middleName" validate:"notblank"`
	StudentID  string `json:"studentID" validate:"notblank,student_id"`
	Email      string `json:"email" validate:"notblank,student_email"`
	Password   string `json:"password" validate:"notblank,max=72"`
	Course     string `json:"course" validate:"notblank"`
	Section    string `json:"section" validate:"notblank"`
	YearLevel  string `json:"yearLevel" validate:"notblank"`
}

// ProfessorRegistration is submitted by an admin.
type ProfessorRegistration struct {
	LastName         string `json:"lastName" validate:"notblank"`
	FirstName        string `json:"firstName" validate:"notblank"`
	MiddleName       string `json:"middleName" validate:"notblank"`
	ProfessorID      string `json:"professorID" validate:"notblank,professor_id"`
	Email            string `json:"email" validate:"notblank,email"`
	Password         string `json:"password" validate:"notblank,max=72"`
	ContactNumber    string `json:"contactNumber" validate:"notblank,contact"`
	Department       string `json:"department" validate:"notblank"`
	Designation      string `json:"designation" validate:"notblank"`
	EmploymentStatus string `json:"employmentStatus" validate:"notblank"`
	AccountStatus    string `json:"accountStatus" validate:"omitempty,account_status"`
}

// AdminRegistration is submitted by an admin, or by anyone while no admin
// exists yet.
type AdminRegistration struct {
	LastName         string `json:"lastName" validate:"notblank"`
	FirstName        string `json:"firstName" validate:"notblank"`
	MiddleName       string `json:"middleName" validate:"notblank"`
	EmployeeID       string `json:"employeeID" validate:"notblank,employee_id"`
	Email            string `json:"email" validate:"notblank,email"`
	Password         string `json:"password" validate:"notblank,max=72"`
	ContactNumber    string `json:"contactNumber" validate:"notblank,contact"`
	Department       string `json:"department" validate:"notblank"`
	Designation      string `json:"designation" validate:"notblank"`
	EmploymentStatus string `json:"employmentStatus" validate:"notblank"`
	Role             string `json:"role" validate:"notblank"`
	AccountStatus    string `json:"accountStatus" validate:"notblank,account_status"`
	CreatedBy        string `json:"createdBy"`
}

// AccountUpdate is a self-service change. Empty fields leave the stored
// value untouched.
type AccountUpdate struct {
	LastName         string `json:"lastName"`
	FirstName        string `json:"firstName"`
	MiddleName       string `json:"middleName"`
	ContactNumber    string `json:"contactNumber" validate:"omitempty,contact"`
	Email            string `json:"email" validate:"omitempty,email"`
	Department       string `json:"department"`
	Designation      string `json:"designation"`
	EmploymentStatus string `json:"employmentStatus"`
	Role             string `json:"role"`

	CurrentPassword string `json:"currentPassword" validate:"required_with=NewPassword"`
	NewPassword     string `json:"newPassword" validate:"omitempty,max=72"`
}

// StatusChange is the body of an administrative status update.
type StatusChange struct {
	AccountStatus string `json:"accountStatus"`
}
