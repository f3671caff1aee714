package validation

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// Student identifier pattern, letters/digits/dashes
	StudentIDPattern = `^[A-Za-z0-9\-]{3,32}$`

	// Password min length
	PasswordMinLength = 8

	// Name validation min/max length
	NameMinLength = 1
	NameMaxLength = 100
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	StudentID *regexp.Regexp
}{
	StudentID: regexp.MustCompile(StudentIDPattern),
}

// ValidateStudentID reports whether value is a well formed student identifier
func ValidateStudentID(value string) bool {
	return CompiledPatterns.StudentID.MatchString(value)
}

// ValidatePassword reports whether the password satisfies the length policy
func ValidatePassword(value string) bool {
	return len(value) >= PasswordMinLength
}

// ValidateName reports whether a first/last name is acceptable
func ValidateName(value string) bool {
	trimmed := strings.TrimSpace(value)
	return len(trimmed) >= NameMinLength && len(trimmed) <= NameMaxLength
}

// RegisterRules installs the custom binding tags on gin's validator engine.
// Tags: studentid, password, personname.
func RegisterRules() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	Register(v)
}

// Register installs the custom tags on v and reports fields by their json
// (or form) name
func Register(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, key := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	_ = v.RegisterValidation("studentid", func(fl validator.FieldLevel) bool {
		return ValidateStudentID(fl.Field().String())
	})
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return ValidatePassword(fl.Field().String())
	})
	_ = v.RegisterValidation("personname", func(fl validator.FieldLevel) bool {
		return ValidateName(fl.Field().String())
	})
}
