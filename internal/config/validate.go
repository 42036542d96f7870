package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/fivetwenty-io/formula-cleaner/internal/constants"
	"go.uber.org/zap/zapcore"
)

// ValidationBanner introduces the list of configuration problems.
const ValidationBanner = "Found the following errors while checking the environment variables required for running this script."

// ValidationError collects every configuration problem found.
type ValidationError struct {
	Problems []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", constants.ErrInvalidConfiguration, strings.Join(e.Problems, "; "))
}

// Unwrap lets errors.Is match constants.ErrInvalidConfiguration.
func (e *ValidationError) Unwrap() error {
	return constants.ErrInvalidConfiguration
}

// Validate checks every field and returns a *ValidationError listing all
// problems, or nil.
func (c *Config) Validate() error {
	var problems []string

	required := []struct {
		key     string
		missing bool
	}{
		{KeyEnvironment, c.Environment == ""},
		{KeyMode, c.Mode == ""},
		{KeyTemplateIDs, c.TemplateIDs == nil},
		{KeyUserSecret, c.UserSecret == ""},
		{KeyOrgSecret, c.OrgSecret == ""},
	}

	for _, field := range required {
		if field.missing {
			problems = append(problems, fmt.Sprintf("Expected value for %s, got an empty value.", envName(field.key)))
		}
	}

	if c.Environment != "" && !slices.Contains(Environments, c.Environment) {
		problems = append(problems, fmt.Sprintf("Expected value for %s to be one of the following: %s, but found %s.",
			envName(KeyEnvironment), quoteAll(Environments), c.Environment))
	}

	if c.Mode != "" && !slices.Contains(Modes, c.Mode) {
		problems = append(problems, fmt.Sprintf("Expected value for %s to be one of the following: %s, but found %s.",
			envName(KeyMode), quoteAll(Modes), c.Mode))
	}

	for _, id := range c.TemplateIDs {
		_, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			problems = append(problems, fmt.Sprintf("Expected value for formula template ID to be integer, but found %s.", id))
		}
	}

	problems = append(problems, c.validateTuning()...)

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}

	return nil
}

func (c *Config) validateTuning() []string {
	var problems []string

	if c.Concurrency < 1 {
		problems = append(problems, fmt.Sprintf("Expected value for %s to be at least 1, but found %d.", envName(KeyConcurrency), c.Concurrency))
	}

	if c.RateLimit < 0 {
		problems = append(problems, fmt.Sprintf("Expected value for %s to be zero or positive, but found %g.", envName(KeyRateLimit), c.RateLimit))
	}

	if c.Timeout < constants.MinHTTPTimeout {
		problems = append(problems, fmt.Sprintf("Expected value for %s to be at least %s, but found %s.",
			envName(KeyTimeout), constants.MinHTTPTimeout, c.Timeout))
	}

	if c.Retries < 0 {
		problems = append(problems, fmt.Sprintf("Expected value for %s to be zero or positive, but found %d.", envName(KeyRetries), c.Retries))
	}

	outputs := []string{constants.FormatText, constants.FormatTable, constants.FormatJSON, constants.FormatYAML}
	if !slices.Contains(outputs, c.Output) {
		problems = append(problems, fmt.Sprintf("Expected value for %s to be one of the following: %s, but found %s.",
			envName(KeyOutput), quoteAll(outputs), c.Output))
	}

	logFormats := []string{constants.LogFormatConsole, constants.LogFormatJSON}
	if !slices.Contains(logFormats, c.LogFormat) {
		problems = append(problems, fmt.Sprintf("Expected value for %s to be one of the following: %s, but found %s.",
			envName(KeyLogFormat), quoteAll(logFormats), c.LogFormat))
	}

	_, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		problems = append(problems, fmt.Sprintf("Expected value for %s to be a log level, but found %s.", envName(KeyLogLevel), c.LogLevel))
	}

	return problems
}

func envName(key string) string {
	return strings.ToUpper(key)
}

func quoteAll[T ~string](values []T) string {
	quoted := make([]string, 0, len(values))
	for _, value := range values {
		quoted = append(quoted, "'"+string(value)+"'")
	}

	return strings.Join(quoted, ", ")
}
