// Package config loads and validates the settings of a cleanup run.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fivetwenty-io/formula-cleaner/internal/constants"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Configuration keys. Each key is also read from the upper-cased environment
// variable of the same name.
const (
	KeyEnvironment = "ce_env"
	KeyMode        = "mode"
	KeyTemplateIDs = "template_ids"
	KeyUserSecret  = "user_secret"
	KeyOrgSecret   = "org_secret"
	KeyAPIEndpoint = "api_endpoint"
	KeyConcurrency = "concurrency"
	KeyRateLimit   = "rate_limit"
	KeyTimeout     = "timeout"
	KeyRetries     = "retries"
	KeyOutput      = "output"
	KeyLogLevel    = "log_level"
	KeyLogFormat   = "log_format"
	KeyNATSURL     = "nats_url"
	KeyNATSSubject = "nats_subject"
	KeyAssumeYes   = "yes"
	KeyDebug       = "debug"
)

// Environment selects the API host.
type Environment string

// Supported environments.
const (
	EnvironmentStaging Environment = "STAGING"
	EnvironmentUSProd  Environment = "US_PROD"
	EnvironmentEUProd  Environment = "EU_PROD"
)

// Environments lists the supported environments in display order.
var Environments = []Environment{EnvironmentStaging, EnvironmentUSProd, EnvironmentEUProd}

var environmentHosts = map[Environment]string{
	EnvironmentStaging: constants.StagingHost,
	EnvironmentUSProd:  constants.USProdHost,
	EnvironmentEUProd:  constants.EUProdHost,
}

// Host returns the API host of the environment.
func (e Environment) Host() (string, error) {
	host, ok := environmentHosts[e]
	if !ok {
		return "", fmt.Errorf("%w: %q", constants.ErrUnknownEnvironment, string(e))
	}

	return host, nil
}

// Mode is the operating mode of a run.
type Mode string

// Supported modes.
const (
	// ModeGet only lists instances.
	ModeGet Mode = "GET"
	// ModeDelete deletes every discovered instance.
	ModeDelete Mode = "DELETE"
)

// Modes lists the supported modes in display order.
var Modes = []Mode{ModeGet, ModeDelete}

// Config holds the settings of one run.
type Config struct {
	Environment Environment
	Mode        Mode
	// TemplateIDs is nil when no ids were configured at all.
	TemplateIDs []string
	UserSecret  string
	OrgSecret   string

	// APIEndpoint overrides the host derived from Environment.
	APIEndpoint string
	Concurrency int
	// RateLimit caps requests per second; zero means unlimited.
	RateLimit   float64
	Timeout     time.Duration
	Retries     int
	Output      string
	LogLevel    string
	LogFormat   string
	NATSURL     string
	NATSSubject string
	AssumeYes   bool
	Debug       bool
}

// SetDefaults registers the defaults of every optional key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyConcurrency, constants.DefaultConcurrencyLimit)
	v.SetDefault(KeyRateLimit, 0)
	v.SetDefault(KeyTimeout, constants.DefaultHTTPTimeout)
	v.SetDefault(KeyRetries, constants.DefaultRetryMax)
	v.SetDefault(KeyOutput, constants.FormatText)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, constants.LogFormatConsole)
	v.SetDefault(KeyNATSSubject, constants.DefaultAuditSubject)
}

// Load reads a Config from v. It does not validate.
func Load(v *viper.Viper) *Config {
	return &Config{
		Environment: Environment(strings.TrimSpace(v.GetString(KeyEnvironment))),
		Mode:        Mode(strings.TrimSpace(v.GetString(KeyMode))),
		TemplateIDs: templateIDs(v),
		UserSecret:  v.GetString(KeyUserSecret),
		OrgSecret:   v.GetString(KeyOrgSecret),
		APIEndpoint: v.GetString(KeyAPIEndpoint),
		Concurrency: v.GetInt(KeyConcurrency),
		RateLimit:   v.GetFloat64(KeyRateLimit),
		Timeout:     duration(v, KeyTimeout),
		Retries:     v.GetInt(KeyRetries),
		Output:      v.GetString(KeyOutput),
		LogLevel:    v.GetString(KeyLogLevel),
		LogFormat:   v.GetString(KeyLogFormat),
		NATSURL:     v.GetString(KeyNATSURL),
		NATSSubject: v.GetString(KeyNATSSubject),
		AssumeYes:   v.GetBool(KeyAssumeYes),
		Debug:       v.GetBool(KeyDebug),
	}
}

// Endpoint returns the base URL of the API for this configuration.
func (c *Config) Endpoint() (string, error) {
	if c.APIEndpoint != "" {
		return strings.TrimRight(c.APIEndpoint, "/"), nil
	}

	host, err := c.Environment.Host()
	if err != nil {
		return "", err
	}

	return "https://" + host, nil
}

// duration reads a duration. Bare numbers are seconds; strings with a unit
// are parsed by time.ParseDuration. Unparsable values read as zero.
func duration(v *viper.Viper, key string) time.Duration {
	switch value := v.Get(key).(type) {
	case string:
		trimmed := strings.TrimSpace(value)

		seconds, err := strconv.ParseFloat(trimmed, 64)
		if err == nil {
			return time.Duration(seconds * float64(time.Second))
		}

		return cast.ToDuration(trimmed)
	case int, int32, int64, float32, float64:
		return time.Duration(cast.ToFloat64(value) * float64(time.Second))
	default:
		return cast.ToDuration(value)
	}
}

// templateIDs accepts a comma separated string (environment, .env file) or a
// list (flags, YAML/JSON config files).
func templateIDs(v *viper.Viper) []string {
	if !v.IsSet(KeyTemplateIDs) {
		return nil
	}

	var raw []string

	switch value := v.Get(KeyTemplateIDs).(type) {
	case string:
		raw = strings.Split(value, ",")
	case []string:
		for _, item := range value {
			raw = append(raw, strings.Split(item, ",")...)
		}
	case []interface{}:
		for _, item := range value {
			raw = append(raw, fmt.Sprint(item))
		}
	case int:
		raw = []string{strconv.Itoa(value)}
	case nil:
		return nil
	default:
		raw = []string{fmt.Sprint(value)}
	}

	ids := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))

	for _, id := range raw {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}

		seen[id] = true
		ids = append(ids, id)
	}

	if len(ids) == 0 {
		return nil
	}

	return ids
}
