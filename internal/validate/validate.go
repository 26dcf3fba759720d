package validate

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ErrField struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

type Errs []ErrField

func (e Errs) Error() string {
	var b strings.Builder
	for i, ef := range e {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(ef.Field + ": " + ef.Msg)
	}
	return b.String()
}

var v = newValidator()

func newValidator() *validator.Validate {
	vv := validator.New(validator.WithRequiredStructEnabled())
	vv.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// bcrypt ignores anything past 72 bytes and x/crypto refuses to hash it
	_ = vv.RegisterValidation("bcryptlen", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= MaxPasswordBytes
	})
	_ = vv.RegisterValidation("nopassword", func(fl validator.FieldLevel) bool {
		return !strings.Contains(strings.ToLower(fl.Field().String()), "password")
	})
	return vv
}

// Struct runs the struct's validate tags and returns Errs on failure.
func Struct(s any) error {
	return convert(v.Struct(s), "")
}

const MaxPasswordBytes = 72

// Password checks a plaintext password: at least 7 characters, at most
// MaxPasswordBytes bytes and no "password" in any letter case.
func Password(p string) error {
	return convert(v.Var(p, "required,min=7,bcryptlen,nopassword"), "password")
}

func convert(err error, field string) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(Errs, 0, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		if field != "" {
			name = field
		}
		out = append(out, ErrField{Field: name, Msg: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "email":
		return "is invalid"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "gte":
		return "must be >= " + fe.Param()
	case "bcryptlen":
		return "must be at most " + strconv.Itoa(MaxPasswordBytes) + " bytes"
	case "nopassword":
		return `must not contain "password"`
	}
	return "failed " + fe.Tag()
}

// Field builds a single-field error for checks done outside struct tags.
func Field(field, msg string) Errs {
	return Errs{{Field: field, Msg: msg}}
}
