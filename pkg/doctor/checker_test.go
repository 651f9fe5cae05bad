package doctor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExecutor simulates tool presence and version output.
type fakeExecutor struct {
	tools  map[string]string // tool name -> version output
	files  map[string]bool
	ranCmd []string
}

func (f *fakeExecutor) LookPath(file string) (string, error) {
	if _, ok := f.tools[file]; !ok {
		return "", errors.New("not found")
	}
	return "/usr/bin/" + file, nil
}

func (f *fakeExecutor) Run(name string, args ...string) (string, error) {
	f.ranCmd = append(f.ranCmd, name)
	for tool, output := range f.tools {
		if name == "/usr/bin/"+tool {
			return output, nil
		}
	}
	return "", errors.New("unknown tool")
}

func (f *fakeExecutor) FileExists(path string) bool {
	return f.files[path]
}

// fakeEnv serves canned environment variables.
type fakeEnv struct {
	vars map[string]string
}

func (f *fakeEnv) Getenv(key string) string {
	return f.vars[key]
}

func TestCheckRsync(t *testing.T) {
	exec := &fakeExecutor{tools: map[string]string{
		"rsync": "rsync  version 3.2.7  protocol version 31",
	}}

	check := CheckRsync(exec)
	assert.Equal(t, StatusOK, check.Status)
	assert.Equal(t, "3.2.7", check.Message)
}

func TestCheckRsync_Missing(t *testing.T) {
	check := CheckRsync(&fakeExecutor{tools: map[string]string{}})

	assert.Equal(t, StatusMissing, check.Status)
	assert.Equal(t, "not installed", check.Message)
	require.NotNil(t, check.FixCommand)
	assert.Contains(t, check.FixCommand.Command, "rsync")
}

func TestCheckSSH(t *testing.T) {
	exec := &fakeExecutor{tools: map[string]string{
		"ssh": "OpenSSH_9.6p1 Ubuntu-3ubuntu13, OpenSSL 3.0.13",
	}}

	check := CheckSSH(exec)
	assert.Equal(t, StatusOK, check.Status)
	assert.Equal(t, "9.6p1", check.Message)
}

func TestCheckAWSCredentials(t *testing.T) {
	tests := []struct {
		name       string
		env        map[string]string
		files      map[string]bool
		wantStatus CheckStatus
		wantMsg    string
	}{
		{
			name:       "environment credentials",
			env:        map[string]string{"AWS_ACCESS_KEY_ID": "AKIA..."},
			wantStatus: StatusOK,
			wantMsg:    "environment credentials",
		},
		{
			name:       "shared credentials file via env override",
			env:        map[string]string{"AWS_SHARED_CREDENTIALS_FILE": "/tmp/creds"},
			files:      map[string]bool{"/tmp/creds": true},
			wantStatus: StatusOK,
			wantMsg:    "shared credentials file",
		},
		{
			name:       "no credentials",
			env:        map[string]string{},
			wantStatus: StatusWarning,
			wantMsg:    "no credentials found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &fakeExecutor{files: tt.files}
			check := CheckAWSCredentials(exec, &fakeEnv{vars: tt.env})

			assert.Equal(t, tt.wantStatus, check.Status)
			assert.Equal(t, tt.wantMsg, check.Message)
		})
	}
}

func TestRunAll(t *testing.T) {
	exec := &fakeExecutor{tools: map[string]string{
		"rsync": "rsync  version 3.2.7  protocol version 31",
		"ssh":   "OpenSSH_9.6p1",
	}}
	env := &fakeEnv{vars: map[string]string{"AWS_ACCESS_KEY_ID": "AKIA..."}}

	checks := RunAll(exec, env)
	require.Len(t, checks, 3)
	assert.True(t, AllOK(checks))
}

func TestAllOK_MissingTool(t *testing.T) {
	exec := &fakeExecutor{tools: map[string]string{"ssh": "OpenSSH_9.6p1"}}
	env := &fakeEnv{vars: map[string]string{}}

	checks := RunAll(exec, env)
	assert.False(t, AllOK(checks), "missing rsync should fail the doctor")

	// A credentials warning alone does not fail it.
	exec.tools["rsync"] = "rsync  version 3.2.7"
	checks = RunAll(exec, env)
	assert.True(t, AllOK(checks))
}
