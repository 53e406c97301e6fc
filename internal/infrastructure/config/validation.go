package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator with the config's custom rules
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator with the catalog file rule and the
// cross-field checks tags cannot express
func NewValidator() *Validator {
	v := validator.New()

	_ = v.RegisterValidation("catalogfile", validateCatalogFile)
	v.RegisterStructValidation(validateDatabase, DatabaseConfig{})
	v.RegisterStructValidation(validateRetention, Config{})

	return &Validator{validate: v}
}

// Validate validates a struct using validation tags
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return v.formatValidationError(err)
	}
	return nil
}

// formatValidationError lists every failed field on its own line
func (v *Validator) formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	messages := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		switch e.Tag() {
		case "catalogfile":
			messages = append(messages, fmt.Sprintf("field '%s': %q is not a readable .yaml catalog", e.Namespace(), e.Value()))
		case "retention":
			messages = append(messages, fmt.Sprintf("field '%s': retention must be longer than the retention sweep interval", e.Namespace()))
		case "required_with_postgres":
			messages = append(messages, fmt.Sprintf("field '%s' is required for postgres unless database.url is set", e.Namespace()))
		case "required_with_sqlite":
			messages = append(messages, fmt.Sprintf("field '%s' is required for sqlite", e.Namespace()))
		default:
			messages = append(messages, fmt.Sprintf("field '%s' failed validation: %s (value: '%v')", e.Namespace(), e.Tag(), e.Value()))
		}
	}
	return fmt.Errorf("validation failed:\n  %s", strings.Join(messages, "\n  "))
}

// validateCatalogFile accepts an empty path (embedded catalog) or an existing YAML file
func validateCatalogFile(fl validator.FieldLevel) bool {
	path := fl.Field().String()
	if path == "" {
		return true
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
	default:
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func validateDatabase(sl validator.StructLevel) {
	db := sl.Current().Interface().(DatabaseConfig)
	switch db.Type {
	case "postgres":
		if db.URL != "" {
			return
		}
		if db.Host == "" {
			sl.ReportError(db.Host, "Host", "host", "required_with_postgres", "")
		}
		if db.Name == "" {
			sl.ReportError(db.Name, "Name", "name", "required_with_postgres", "")
		}
	case "sqlite":
		if db.Path == "" {
			sl.ReportError(db.Path, "Path", "path", "required_with_sqlite", "")
		}
	}
}

// validateRetention rejects a retention window the purge job would outrun
func validateRetention(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)
	if cfg.Notifications.Retention > 0 && cfg.Notifications.Retention <= cfg.Scheduler.RetentionInterval {
		sl.ReportError(cfg.Notifications.Retention, "Notifications.Retention", "retention", "retention", "")
	}
}

// ValidateConfig validates the entire configuration
func ValidateConfig(cfg *Config) error {
	return NewValidator().Validate(cfg)
}
