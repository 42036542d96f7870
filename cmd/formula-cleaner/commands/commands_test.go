package commands

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/fivetwenty-io/formula-cleaner/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var settingEnvVars = []string{
	"CE_ENV", "MODE", "TEMPLATE_IDS", "USER_SECRET", "ORG_SECRET", "API_ENDPOINT",
	"CONCURRENCY", "RATE_LIMIT", "TIMEOUT", "RETRIES", "OUTPUT", "LOG_LEVEL",
	"LOG_FORMAT", "NATS_URL", "NATS_SUBJECT", "YES", "DEBUG", "CONFIG_FILE",
}

// clearSettings hides settings of the surrounding environment from the command.
func clearSettings(t *testing.T) {
	t.Helper()

	for _, name := range settingEnvVars {
		t.Setenv(name, "")
	}
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cmd := NewRootCommand(BuildInfo{Version: "1.2.3", Commit: "abc123", Date: "2026-01-02"})
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()

	return stdout.String(), stderr.String(), err
}

type formulasAPI struct {
	mu      sync.Mutex
	deleted []string
	auth    []string
}

func (a *formulasAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	a.auth = append(a.auth, r.Header.Get("Authorization"))
	a.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/elements/api-v2/formulas/1":
		_, _ = w.Write([]byte(`{"id":1,"name":"sync"}`))
	case r.Method == http.MethodGet && r.URL.Path == "/elements/api-v2/formulas/2":
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"No formula found with id 2","requestId":"req-2"}`))
	case r.Method == http.MethodGet && r.URL.Path == "/elements/api-v2/formulas/1/instances":
		_, _ = w.Write([]byte(`[{"id":10},{"id":11}]`))
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/elements/api-v2/formulas/1/instances/"):
		a.mu.Lock()
		a.deleted = append(a.deleted, strings.TrimPrefix(r.URL.Path, "/elements/api-v2/formulas/1/instances/"))
		a.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusTeapot)
	}
}

func TestRootCommand_Structure(t *testing.T) {
	t.Parallel()

	cmd := NewRootCommand(BuildInfo{})
	assert.Equal(t, "formula-cleaner", cmd.Use)
	assert.NotNil(t, cmd.RunE)

	var commandNames []string
	for _, subcmd := range cmd.Commands() {
		commandNames = append(commandNames, subcmd.Name())
	}

	assert.ElementsMatch(t, []string{"validate", "version"}, commandNames)

	flags := []string{
		"config", "env", "mode", "template-ids", "user-secret", "org-secret", "api-endpoint",
		"concurrency", "rate-limit", "timeout", "retries", "output", "log-level", "log-format",
		"nats-url", "nats-subject", "yes", "debug",
	}
	for _, flagName := range flags {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flagName), "Flag %s should exist", flagName)
	}

	assert.Equal(t, "y", cmd.PersistentFlags().Lookup("yes").Shorthand)
}

func TestRootCommand_InvalidConfiguration(t *testing.T) {
	clearSettings(t)

	stdout, stderr, err := execute(t, "--env", "DEV", "--template-ids", "12,abc")

	var validationErr *config.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Empty(t, stdout)
	assert.Equal(t, ""+
		"ERROR: Found the following errors while checking the environment variables required for running this script.\n"+
		"ERROR: Expected value for MODE, got an empty value.\n"+
		"ERROR: Expected value for USER_SECRET, got an empty value.\n"+
		"ERROR: Expected value for ORG_SECRET, got an empty value.\n"+
		"ERROR: Expected value for CE_ENV to be one of the following: 'STAGING', 'US_PROD', 'EU_PROD', but found DEV.\n"+
		"ERROR: Expected value for formula template ID to be integer, but found abc.\n", stderr)
}

func TestRootCommand_GetMode(t *testing.T) {
	clearSettings(t)

	api := &formulasAPI{}
	server := httptest.NewServer(api)
	defer server.Close()

	t.Setenv("CE_ENV", "STAGING")
	t.Setenv("MODE", "GET")
	t.Setenv("TEMPLATE_IDS", "1,2")
	t.Setenv("USER_SECRET", "user")
	t.Setenv("ORG_SECRET", "org")

	stdout, stderr, err := execute(t, "--api-endpoint", server.URL)
	require.NoError(t, err)

	assert.Equal(t, ""+
		"INFO: Running script in GET mode for Cloud Elements STAGING.\n"+
		"INFO: Found 1 valid template ID(s), skipping any invalid template ID(s).\n"+
		"INFO: Formula template ID 1 found 2 instance(s).\n", stdout)
	assert.Contains(t, stderr, "No formula found with id 2, requestId: req-2")
	assert.Empty(t, api.deleted)
	assert.Contains(t, api.auth, "User user, Organization org")
}

func TestRootCommand_DeleteModeWithSummary(t *testing.T) {
	clearSettings(t)

	api := &formulasAPI{}
	server := httptest.NewServer(api)
	defer server.Close()

	stdout, _, err := execute(t,
		"--env", "US_PROD",
		"--mode", "DELETE",
		"--template-ids", "1",
		"--user-secret", "user",
		"--org-secret", "org",
		"--api-endpoint", server.URL,
		"--output", "json",
	)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"10", "11"}, api.deleted)

	lines, document, found := strings.Cut(stdout, "{")
	require.True(t, found)
	assert.Equal(t, ""+
		"INFO: Running script in DELETE mode for Cloud Elements US_PROD.\n"+
		"INFO: Found 1 valid template ID(s), skipping any invalid template ID(s).\n"+
		"INFO: Formula template ID 1 found 2 instance(s).\n"+
		"INFO: Formula template ID 1 successfully deleted 2 instance(s).\n", lines)

	var summary struct {
		Mode      string `json:"mode"`
		Templates []struct {
			TemplateID string `json:"template_id"`
			Deleted    int    `json:"deleted"`
		} `json:"templates"`
	}

	require.NoError(t, json.Unmarshal([]byte("{"+document), &summary))
	assert.Equal(t, "DELETE", summary.Mode)
	require.Len(t, summary.Templates, 1)
	assert.Equal(t, 2, summary.Templates[0].Deleted)
}

func TestValidateCommand(t *testing.T) {
	clearSettings(t)

	t.Setenv("CE_ENV", "EU_PROD")
	t.Setenv("MODE", "DELETE")
	t.Setenv("TEMPLATE_IDS", "1, 2,3")
	t.Setenv("USER_SECRET", "user")
	t.Setenv("ORG_SECRET", "org")

	stdout, stderr, err := execute(t, "validate")
	require.NoError(t, err)
	assert.Empty(t, stderr)
	assert.Equal(t, "INFO: Configuration is valid: DELETE mode, 3 template ID(s), endpoint https://api.cloud-elements.co.uk.\n", stdout)
}

func TestValidateCommand_Invalid(t *testing.T) {
	clearSettings(t)

	_, stderr, err := execute(t, "validate")

	var validationErr *config.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Len(t, validationErr.Problems, 5)
	assert.True(t, strings.HasPrefix(stderr, "ERROR: Found the following errors"))
}

func TestVersionCommand(t *testing.T) {
	clearSettings(t)

	t.Run("text", func(t *testing.T) {
		stdout, _, err := execute(t, "version")
		require.NoError(t, err)
		assert.Equal(t, "formula-cleaner 1.2.3 (commit abc123, built 2026-01-02)\n", stdout)
	})

	t.Run("json", func(t *testing.T) {
		stdout, _, err := execute(t, "version", "-o", "json")
		require.NoError(t, err)
		assert.JSONEq(t, `{"version":"1.2.3","commit":"abc123","built":"2026-01-02"}`, stdout)
	})
}

func TestPromptConfirm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "yes", input: "y\n", expected: true},
		{name: "full word", input: "YES\n", expected: true},
		{name: "no", input: "n\n", expected: false},
		{name: "empty line", input: "\n", expected: false},
		{name: "end of input", input: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer

			confirmed, err := promptConfirm(strings.NewReader(tt.input), &out)(t.Context(), 4)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, confirmed)
			assert.Contains(t, out.String(), "Delete 4 formula instance(s)? [y/N]: ")
		})
	}
}

func TestIsTerminal(t *testing.T) {
	t.Parallel()

	assert.False(t, isTerminal(strings.NewReader("y\n")))
}
