// Package employees manages the staff table: records, search, salary sort, age chart.
package employees

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/oliveraq/internal/domain/models"
	"github.com/mamadbah2/oliveraq/internal/service/stats"
	"github.com/mamadbah2/oliveraq/internal/store"
)

const (
	deletePrompt    = "Êtes-vous sûr de vouloir supprimer cet employé ?"
	defaultAgeYears = 25
)

// SortOrder names a reordering of the staff table.
type SortOrder string

const (
	SortSalaryAsc  SortOrder = "salary_asc"
	SortSalaryDesc SortOrder = "salary_desc"
	SortNameAsc    SortOrder = "name_asc"
	SortNameDesc   SortOrder = "name_desc"
)

// ParseSortOrder validates a sort query parameter.
func ParseSortOrder(value string) (SortOrder, error) {
	switch order := SortOrder(strings.TrimSpace(value)); order {
	case SortSalaryAsc, SortSalaryDesc, SortNameAsc, SortNameDesc:
		return order, nil
	}
	return "", models.NewValidationError("sort", fmt.Sprintf("tri inconnu %q", value))
}

// Service owns the staff table and its selection.
type Service struct {
	table     *store.Table[models.Employee]
	selection store.Selection
	calendar  models.Calendar
	logger    *zap.Logger
}

// NewService builds an empty staff table.
func NewService(calendar models.Calendar, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		table:    store.New[models.Employee](),
		calendar: calendar,
		logger:   logger,
	}
}

// Add validates input and appends a new employee.
func (s *Service) Add(input models.EmployeeInput) (models.Employee, error) {
	employee, err := s.buildEmployee(input)
	if err != nil {
		s.logger.Debug("employee rejected", zap.Error(err))
		return models.Employee{}, err
	}

	row := s.table.Append(employee)
	s.table.Renumber()
	s.logger.Info("employee added", zap.String("ref", row.Ref), zap.String("name", employee.FullName()))
	return s.Get(row.Ref)
}

// Edit overwrites every field of the employee named by ref.
func (s *Service) Edit(ref string, input models.EmployeeInput) (models.Employee, error) {
	if ref == "" {
		return models.Employee{}, store.ErrNoSelection
	}
	employee, err := s.buildEmployee(input)
	if err != nil {
		s.logger.Debug("employee edit rejected", zap.String("ref", ref), zap.Error(err))
		return models.Employee{}, err
	}

	if _, err := s.table.Update(ref, func(current *models.Employee) error {
		*current = employee
		return nil
	}); err != nil {
		return models.Employee{}, err
	}
	s.table.Renumber()
	s.logger.Info("employee updated", zap.String("ref", ref))
	return s.Get(ref)
}

// Delete removes the employee after confirmation. An unconfirmed delete returns false
// and changes nothing.
func (s *Service) Delete(ref string, confirm store.Confirmer) (bool, error) {
	if ref == "" {
		return false, store.ErrNoSelection
	}
	if _, err := s.table.Get(ref); err != nil {
		return false, err
	}
	if !confirm.Ask(deletePrompt) {
		return false, nil
	}

	if _, err := s.table.Remove(ref); err != nil {
		return false, err
	}
	s.selection.ClearIf(ref)
	s.logger.Info("employee deleted", zap.String("ref", ref))
	return true, nil
}

// Get returns one employee.
func (s *Service) Get(ref string) (models.Employee, error) {
	if ref == "" {
		return models.Employee{}, store.ErrNoSelection
	}
	row, err := s.table.Get(ref)
	if err != nil {
		return models.Employee{}, err
	}
	return view(row), nil
}

// List returns the rows currently visible, in table order.
func (s *Service) List() []models.Employee {
	return views(s.table.Visible())
}

// All returns every row, hidden ones included.
func (s *Service) All() []models.Employee {
	return views(s.table.Rows())
}

// Search hides the employees whose last or first name does not contain query,
// ignoring case. An empty query shows everyone.
func (s *Service) Search(query string) []models.Employee {
	needle := strings.ToLower(strings.TrimSpace(query))
	s.table.Filter(func(e models.Employee) bool {
		return strings.Contains(strings.ToLower(e.LastName), needle) ||
			strings.Contains(strings.ToLower(e.FirstName), needle)
	})
	return s.List()
}

// Sort reorders the table. Ids travel with their rows.
func (s *Service) Sort(order SortOrder) error {
	var less func(a, b models.Employee) bool
	switch order {
	case SortSalaryAsc:
		less = func(a, b models.Employee) bool { return a.Salary < b.Salary }
	case SortSalaryDesc:
		less = func(a, b models.Employee) bool { return a.Salary > b.Salary }
	case SortNameAsc:
		less = func(a, b models.Employee) bool { return nameKey(a) < nameKey(b) }
	case SortNameDesc:
		less = func(a, b models.Employee) bool { return nameKey(a) > nameKey(b) }
	default:
		return models.NewValidationError("sort", fmt.Sprintf("tri inconnu %q", order))
	}
	s.table.Sort(less, false)
	return nil
}

// Statistics buckets every employee, hidden or not, into age bands.
func (s *Service) Statistics() stats.Breakdown {
	rows := s.table.Rows()
	births := make([]models.Date, 0, len(rows))
	for _, row := range rows {
		births = append(births, row.Value.BirthDate)
	}
	return stats.AgeBreakdown(births, s.calendar.Today())
}

// Select makes ref the current row for the next save.
func (s *Service) Select(ref string) (models.Employee, error) {
	employee, err := s.Get(ref)
	if err != nil {
		return models.Employee{}, err
	}
	s.selection.Set(ref)
	return employee, nil
}

// Selection returns the current row ref, "" in add mode.
func (s *Service) Selection() string { return s.selection.Ref() }

// BeginAdd switches the form to add mode.
func (s *Service) BeginAdd() { s.selection.Clear() }

// SaveSelected edits the selected employee, or adds one when nothing is selected, then
// returns the form to add mode.
func (s *Service) SaveSelected(input models.EmployeeInput) (models.Employee, error) {
	ref := s.selection.Ref()

	var (
		employee models.Employee
		err      error
	)
	if ref == "" {
		employee, err = s.Add(input)
	} else {
		employee, err = s.Edit(ref, input)
	}
	if err != nil {
		return models.Employee{}, err
	}
	s.BeginAdd()
	return employee, nil
}

// buildEmployee validates input. Blank dates fall back to hire date today and birth
// date 25 years ago, like the pre-filled form.
func (s *Service) buildEmployee(input models.EmployeeInput) (models.Employee, error) {
	today := s.calendar.Today()
	employee := models.Employee{
		LastName:  strings.TrimSpace(input.LastName),
		FirstName: strings.TrimSpace(input.FirstName),
		Position:  strings.TrimSpace(input.Position),
		Email:     strings.TrimSpace(input.Email),
		Phone:     strings.TrimSpace(input.Phone),
		Salary:    input.Salary,
		Hours:     input.Hours,
		HireDate:  input.HireDate,
		BirthDate: input.BirthDate,
	}

	switch {
	case employee.LastName == "" || employee.FirstName == "":
		return models.Employee{}, models.NewValidationError("name", "Veuillez remplir au moins le nom et le prénom.")
	case employee.Salary < 0 || employee.Salary > models.MaxSalary:
		return models.Employee{}, models.NewValidationError("salary", fmt.Sprintf("Le salaire doit être compris entre 0 et %d.", models.MaxSalary))
	case employee.Hours < 0 || employee.Hours > models.MaxHours:
		return models.Employee{}, models.NewValidationError("hours", fmt.Sprintf("Les heures doivent être comprises entre 0 et %d.", models.MaxHours))
	}

	if employee.HireDate.IsZero() {
		employee.HireDate = today
	}
	if employee.BirthDate.IsZero() {
		employee.BirthDate = today.AddYears(-defaultAgeYears)
	}
	return employee, nil
}

func nameKey(e models.Employee) string {
	return e.LastName + "\x00" + e.FirstName
}

func view(row store.Row[models.Employee]) models.Employee {
	e := row.Value
	e.Ref = row.Ref
	e.ID = row.Seq
	return e
}

func views(rows []store.Row[models.Employee]) []models.Employee {
	out := make([]models.Employee, 0, len(rows))
	for _, row := range rows {
		out = append(out, view(row))
	}
	return out
}
