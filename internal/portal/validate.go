package portal

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"portal/internal/account"
)

var (
	studentIDPattern    = regexp.MustCompile(`^\d{2}-\d{4}-\d{6}$`)
	studentEmailPattern = regexp.MustCompile(`^[a-z]+\.[a-z]+\.au@phinmaed\.com$`)
	professorIDPattern  = regexp.MustCompile(`^P-[A-Za-z0-9-]+$`)
	employeeIDPattern   = regexp.MustCompile(`^A-[A-Za-z0-9-]+$`)
	contactPattern      = regexp.MustCompile(`^\+?[\d\s\-()]{10,}$`)
)

// formatMessages is the top-level message reported for the first failing
// rule of each tag.
var formatMessages = map[string]string{
	"student_id":     "Student ID format is invalid. Use nn-nnnn-nnnnnn (e.g., 12-3456-789012).",
	"student_email":  "Email format is invalid. Use name.au@phinmaed.com (e.g., jama.presentacion.au@phinmaed.com).",
	"professor_id":   "Professor ID format is invalid. Use P- followed by letters, digits or dashes.",
	"employee_id":    "Employee ID format is invalid. Use A- followed by letters, digits or dashes.",
	"email":          "Please enter a valid email address.",
	"contact":        "Please enter a valid contact number.",
	"account_status": "Account status must be one of active, inactive, suspended.",
	"max":            "Password must be at most 72 characters.",
	"required_with":  "Current password is required to set a new password.",
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	// Keys are stored upper-case, so they are matched that way too.
	patterns := map[string]*regexp.Regexp{
		"student_id":   studentIDPattern,
		"professor_id": professorIDPattern,
		"employee_id":  employeeIDPattern,
		"contact":      contactPattern,
	}
	for tag, re := range patterns {
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return re.MatchString(strings.ToUpper(strings.TrimSpace(fl.Field().String())))
		})
	}
	_ = v.RegisterValidation("student_email", func(fl validator.FieldLevel) bool {
		return studentEmailPattern.MatchString(strings.ToLower(strings.TrimSpace(fl.Field().String())))
	})
	_ = v.RegisterValidation("account_status", func(fl validator.FieldLevel) bool {
		_, ok := account.ParseStatus(fl.Field().String())
		return ok
	})
	return v
}

// check runs struct validation and converts failures into a
// *account.ValidationError. Missing fields win over format errors so the
// caller sees "All fields are required." first.
func (s *Service) check(req any) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	var missing, invalid []string
	var firstFormat string
	for _, fe := range verrs {
		if fe.Tag() == "required" || fe.Tag() == "notblank" {
			missing = append(missing, fmt.Sprintf("%s is required", fe.Field()))
			continue
		}
		msg, ok := formatMessages[fe.Tag()]
		if !ok {
			msg = fmt.Sprintf("%s is invalid", fe.Field())
		}
		if firstFormat == "" {
			firstFormat = msg
		}
		invalid = append(invalid, fmt.Sprintf("%s: %s", fe.Field(), msg))
	}
	if len(missing) > 0 {
		return account.NewValidationError("All fields are required.", missing...)
	}
	return account.NewValidationError(firstFormat, invalid...)
}
