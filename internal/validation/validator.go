package validation

import (
	"fmt"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Yayabtw/ishak-school-new/internal/models"
)

var (
	phonePattern      = regexp.MustCompile(`^[0-9+\-\s()]+$`)
	courseCodePattern = regexp.MustCompile(`^[A-Z]{2,4}[0-9]{3,4}$`)
)

// EntityValidator runs every field rule declared on an entity and collects
// the violations. The same checker runs for create (fresh candidate) and
// update (entity after merge), so both paths enforce identical rules.
type EntityValidator struct {
	validate *validator.Validate
	now      func() time.Time
}

// New builds an EntityValidator. The now function supplies "today" for the
// birth date rule; nil defaults to the UTC wall clock.
func New(now func() time.Time) *EntityValidator {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}

	v := validator.New()
	ev := &EntityValidator{validate: v, now: now}

	mustRegister(v, "phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "coursecode", func(fl validator.FieldLevel) bool {
		return courseCodePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "semester", oneOf(models.Semesters()))
	mustRegister(v, "enrollstatus", oneOf(models.EnrollmentStatuses()))
	mustRegister(v, "beforetoday", ev.beforeToday)

	return ev
}

// Check validates the candidate entity and returns every violation message.
// A nil result means the entity satisfies all of its rules.
func (ev *EntityValidator) Check(entity interface{}) []string {
	err := ev.validate.Struct(entity)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}

	violations := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		violations = append(violations, ev.message(fe))
	}
	return violations
}

func (ev *EntityValidator) message(fe validator.FieldError) string {
	if fe.StructField() == "Email" && fe.Tag() == "email" {
		return fmt.Sprintf("L'email %q n'est pas valide", fe.Value())
	}
	if msg, ok := messages[fe.StructField()+"."+fe.Tag()]; ok {
		return msg
	}
	return fmt.Sprintf("%s : règle %s non respectée", fe.StructField(), fe.Tag())
}

// beforeToday accepts dates strictly earlier than the current UTC day.
func (ev *EntityValidator) beforeToday(fl validator.FieldLevel) bool {
	value, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	now := ev.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return value.UTC().Before(today)
}

func oneOf(allowed []string) validator.Func {
	set := make(map[string]struct{}, len(allowed))
	for _, v := range allowed {
		set[v] = struct{}{}
	}
	return func(fl validator.FieldLevel) bool {
		_, ok := set[fl.Field().String()]
		return ok
	}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %s: %v", tag, err))
	}
}
