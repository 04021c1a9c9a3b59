package models

// Salary and hours bounds accepted by the employee form.
const (
	MaxSalary = 99999
	MaxHours  = 500
)

// Employee is one row of the staff table. ID is the dense 1..N row number.
type Employee struct {
	Ref       string `json:"ref"`
	ID        int    `json:"id"`
	LastName  string `json:"last_name"`
	FirstName string `json:"first_name"`
	Position  string `json:"position"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Salary    int    `json:"salary"`
	Hours     int    `json:"hours"`
	HireDate  Date   `json:"hire_date"`
	BirthDate Date   `json:"birth_date"`
}

// FullName returns "first last" as printed on documents.
func (e Employee) FullName() string {
	switch {
	case e.FirstName == "":
		return e.LastName
	case e.LastName == "":
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

// EmployeeInput carries the editable fields of the employee form.
type EmployeeInput struct {
	LastName  string `json:"last_name"`
	FirstName string `json:"first_name"`
	Position  string `json:"position"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Salary    int    `json:"salary"`
	Hours     int    `json:"hours"`
	HireDate  Date   `json:"hire_date"`
	BirthDate Date   `json:"birth_date"`
}
