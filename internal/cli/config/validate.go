package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/anandkaranubc/rex-data-wrangling/pkg/sink"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Report fields by their config key.
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("koanf"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := getValidator().Struct(c); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, describe(fe))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := sink.DistinctTableNames(c.WideName, c.LongName); err != nil {
		return fmt.Errorf("invalid configuration: wide_name and long_name: %w", err)
	}

	if utf8.RuneCountInString(c.Delimiter) != 1 && c.Delimiter != `\t` {
		return fmt.Errorf("invalid configuration: delimiter must be a single character, got %q", c.Delimiter)
	}

	if !sink.IsRegistered(c.Sink.Type) {
		return &sink.UnknownSinkError{Type: c.Sink.Type, Available: sink.List()}
	}

	return nil
}

// Comma returns the input delimiter as a rune.
func (c *Config) Comma() rune {
	if c.Delimiter == `\t` {
		return '\t'
	}
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}

// ValidateInputs reports which input files are not configured.
func (c *Config) ValidateInputs() []string {
	var missing []string
	if c.Mentors == "" {
		missing = append(missing, "mentors")
	}
	if c.Mentees == "" {
		missing = append(missing, "mentees")
	}
	if c.Matches == "" {
		missing = append(missing, "matches")
	}
	return missing
}

func describe(fe validator.FieldError) string {
	key := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return key + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", key, fe.Param(), fe.Value())
	case "nefield":
		return fmt.Sprintf("%s must differ from %s", key, toSnake(fe.Param()))
	default:
		return fmt.Sprintf("%s failed %s=%s", key, fe.Tag(), fe.Param())
	}
}

func toSnake(s string) string {
	var sb strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				sb.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
