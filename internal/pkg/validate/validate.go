package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	employeeCodePattern = regexp.MustCompile(`^[A-Z0-9]+$`)
	partyCodePattern    = regexp.MustCompile(`^[0-9]{6}$`)
	gstinPattern        = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z]{1}[1-9A-Z]{1}Z[0-9A-Z]{1}$`)
	pincodePattern      = regexp.MustCompile(`^[0-9]{6}$`)
	phonePattern        = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
	vehicleNoPattern    = regexp.MustCompile(`^[A-Z0-9 -]{4,15}$`)
)

const passwordSpecials = "@$!%*?&"

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the shared validator with the custom rules registered.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		// report json names instead of Go field names
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		_ = v.RegisterValidation("employeecode", matchPattern(employeeCodePattern))
		_ = v.RegisterValidation("partycode", matchPattern(partyCodePattern))
		_ = v.RegisterValidation("gstin", matchPattern(gstinPattern))
		_ = v.RegisterValidation("pincode", matchPattern(pincodePattern))
		_ = v.RegisterValidation("phone", matchPattern(phonePattern))
		_ = v.RegisterValidation("vehicleno", matchPattern(vehicleNoPattern))
		_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
			return StrongPassword(fl.Field().String())
		})

		instance = v
	})
	return instance
}

func matchPattern(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// StrongPassword reports whether pw has at least 8 characters with an upper
// case letter, a lower case letter, a digit and one of @$!%*?&.
func StrongPassword(pw string) bool {
	if len(pw) < 8 {
		return false
	}
	var upper, lower, digit, special bool
	for _, r := range pw {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		default:
			return false
		}
	}
	return upper && lower && digit && special
}

// FieldError is one failed rule, keyed by the json name of the field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors collects every failed rule of a struct.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, "; ")
}

// Struct validates s. Rule failures come back as Errors.
func Struct(s interface{}) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "email":
		return field + " must be a valid email"
	case "employeecode":
		return field + " must contain only uppercase letters and numbers"
	case "partycode":
		return field + " must be exactly 6 digits"
	case "gstin":
		return field + " is not a valid GSTIN"
	case "pincode":
		return field + " must be 6 digits"
	case "phone":
		return field + " is not a valid phone number"
	case "vehicleno":
		return field + " is not a valid vehicle number"
	case "strongpassword":
		return field + " must contain uppercase, lowercase, number and special character"
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
