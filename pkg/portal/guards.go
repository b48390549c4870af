package portal

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/seanmeissimilly/alinfo/pkg/action"
)

// ErrNoSession is returned by guards that need a signed-in user.
var ErrNoSession = errors.New("no user session: run 'alinfo session set' first")

var (
	validate   *validator.Validate
	translator ut.Translator

	// custom validation tags
	hasNumberTag  = "has_number"
	hasCapitalTag = "has_capital"
	hasSpecialTag = "has_special"
)

func init() {
	validate = validator.New()

	english := en.New()
	uni := ut.New(english, english)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(hasNumberTag, containsRune(unicode.IsDigit))
	_ = validate.RegisterValidation(hasCapitalTag, containsRune(unicode.IsUpper))
	_ = validate.RegisterValidation(hasSpecialTag, containsRune(isSpecial))

	registerFn := func(ut.Translator) error { return nil }
	for _, tag := range []string{hasNumberTag, hasCapitalTag, hasSpecialTag} {
		_ = validate.RegisterTranslation(tag, translator, registerFn, translateChecklist)
	}
}

func isSpecial(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

func containsRune(pred func(rune) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return strings.ContainsFunc(fl.Field().String(), pred)
	}
}

func translateChecklist(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case hasNumberTag:
		return fe.Field() + " must contain a number"
	case hasCapitalTag:
		return fe.Field() + " must contain a capital letter"
	case hasSpecialTag:
		return fe.Field() + " must contain a special character"
	default:
		return ""
	}
}

// passwordChecklist is the rule set a new password must satisfy.
type passwordChecklist struct {
	Password string `json:"password" validate:"min=8,has_number,has_capital,has_special"`
	Confirm  string `json:"password_confirmation" validate:"eqfield=Password"`
}

// CheckPassword validates password against the checklist: at least 8
// characters, a number, a capital letter, a special character, and equal to
// confirm. The first failing rule is returned.
func CheckPassword(password, confirm string) error {
	err := validate.Struct(passwordChecklist{Password: password, Confirm: confirm})
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return errors.New(fieldErrs[0].Translate(translator))
	}
	return err
}

// PasswordGuard blocks a user update whose password fails CheckPassword.
func PasswordGuard(in UserInput) action.Guard {
	return func() error {
		return CheckPassword(in.Password, in.ConfirmPassword)
	}
}

// RequireRole blocks an action unless the signed-in user returned by current
// has one of roles.
func RequireRole(current func() *User, roles ...Role) action.Guard {
	return func() error {
		u := current()
		if u == nil {
			return ErrNoSession
		}
		for _, r := range roles {
			if u.Role == r {
				return nil
			}
		}
		names := make([]string, len(roles))
		for i, r := range roles {
			names[i] = string(r)
		}
		return fmt.Errorf("user %s has role %s; this action requires %s",
			u.UserName, u.Role, strings.Join(names, " or "))
	}
}

// RequireSelf blocks an action on a user other than the signed-in one.
func RequireSelf(current func() *User, id int) action.Guard {
	return func() error {
		u := current()
		if u == nil {
			return ErrNoSession
		}
		if u.ID != id {
			return fmt.Errorf("only your own profile (id %d) can be updated", u.ID)
		}
		return nil
	}
}
