package validator

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Validator wraps the go-playground validator
type Validator struct {
	validate  *validator.Validate
	languages map[string]bool

	mu    sync.RWMutex
	known map[string]func() []string
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Tag     string `json:"tag"`
	Value   string `json:"value,omitempty"`
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (v ValidationErrors) Error() string {
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Message)
	}
	return strings.Join(messages, "; ")
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// New creates a validator. languages lists the codes accepted by the "lang" tag;
// when empty, en and np are accepted.
func New(languages ...string) *Validator {
	v := validator.New()

	// Register custom tag name function to use JSON tags
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if len(languages) == 0 {
		languages = []string{"en", "np"}
	}
	val := &Validator{
		validate:  v,
		languages: make(map[string]bool, len(languages)),
		known:     make(map[string]func() []string),
	}
	for _, lang := range languages {
		val.languages[lang] = true
	}

	v.RegisterValidation("notblank", validators.NotBlank)
	v.RegisterValidation("fullname", validateFullName)
	v.RegisterValidation("emailaddr", validateEmailAddr)
	v.RegisterValidation("password", validatePasswordTag)
	v.RegisterValidation("vote", validateVote)
	v.RegisterValidation("lang", val.validateLang)
	v.RegisterValidation("category", val.knownValue("category"))
	v.RegisterValidation("priority", val.knownValue("priority"))

	return val
}

// Validate validates a struct and returns validation errors
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	var validationErrs ValidationErrors
	for _, fe := range fieldErrs {
		validationErrs = append(validationErrs, ValidationError{
			Field:   fe.Field(),
			Message: msgForTag(fe),
			Tag:     fe.Tag(),
			Value:   fmt.Sprintf("%v", fe.Value()),
		})
	}

	return validationErrs
}

// IsSupportedLanguage reports whether lang is one of the configured languages
func (v *Validator) IsSupportedLanguage(lang string) bool {
	return v.languages[lang]
}

// SetKnownValues restricts a value-list tag ("category", "priority") to the values
// returned by fn. Until set, any non-empty value passes.
func (v *Validator) SetKnownValues(tag string, fn func() []string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.known[tag] = fn
}

func (v *Validator) knownValue(tag string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}

		v.mu.RLock()
		fn := v.known[tag]
		v.mu.RUnlock()
		if fn == nil {
			return true
		}

		for _, known := range fn() {
			if known == value {
				return true
			}
		}
		return false
	}
}

// msgForTag returns a human-readable error message for a validation tag
func msgForTag(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "email", "emailaddr":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "fullname":
		return fmt.Sprintf("%s must be at least 2 characters", field)
	case "password":
		return fmt.Sprintf("%s must be at least 8 characters and contain upper case, lower case and a number", field)
	case "eqfield":
		return fmt.Sprintf("%s does not match", field)
	case "vote":
		return fmt.Sprintf("%s must be either 'like' or 'dislike'", field)
	case "lang":
		return fmt.Sprintf("%s is not a supported language", field)
	case "category", "priority":
		return fmt.Sprintf("%s is not a known %s", field, fe.Tag())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

// Custom validators

func validateFullName(fl validator.FieldLevel) bool {
	return len([]rune(strings.TrimSpace(fl.Field().String()))) >= 2
}

func validateEmailAddr(fl validator.FieldLevel) bool {
	return ValidateEmail(fl.Field().String())
}

func validatePasswordTag(fl validator.FieldLevel) bool {
	return ValidatePassword(fl.Field().String()).IsValid
}

func validateVote(fl validator.FieldLevel) bool {
	vote := fl.Field().String()
	return vote == "like" || vote == "dislike"
}

func (v *Validator) validateLang(fl validator.FieldLevel) bool {
	return v.languages[fl.Field().String()]
}

// ValidateEmail performs the same loose shape check the sign-up form uses
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// PasswordChecks lists which strength rules a password satisfies
type PasswordChecks struct {
	MinLength bool `json:"minLength"`
	Upper     bool `json:"upper"`
	Lower     bool `json:"lower"`
	Number    bool `json:"number"`
	Special   bool `json:"special"`
}

// PasswordCheck is the result shown by the password strength indicator
type PasswordCheck struct {
	IsValid bool           `json:"isValid"`
	Score   int            `json:"score"`
	Checks  PasswordChecks `json:"checks"`
}

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// ValidatePassword requires 8+ characters with upper case, lower case and a digit.
// Special characters only raise the score.
func ValidatePassword(password string) PasswordCheck {
	var c PasswordChecks
	c.MinLength = len([]rune(password)) >= 8
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			c.Upper = true
		case unicode.IsLower(r):
			c.Lower = true
		case unicode.IsDigit(r):
			c.Number = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			c.Special = true
		}
	}

	score := 0
	for _, ok := range []bool{c.MinLength, c.Upper, c.Lower, c.Number, c.Special} {
		if ok {
			score++
		}
	}

	return PasswordCheck{
		IsValid: c.MinLength && c.Upper && c.Lower && c.Number && len(password) <= MaxPasswordBytes,
		Score:   score,
		Checks:  c,
	}
}
