package doctor

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
)

// EnvGetter is an interface for reading environment variables (allows
// testing).
type EnvGetter interface {
	Getenv(key string) string
}

// RealEnvGetter reads from the real environment.
type RealEnvGetter struct{}

// Getenv gets an environment variable.
func (e *RealEnvGetter) Getenv(key string) string {
	return os.Getenv(key)
}

// CommandExecutor is an interface for probing the system, allowing for
// testing.
type CommandExecutor interface {
	LookPath(file string) (string, error)
	Run(name string, args ...string) (string, error)
	FileExists(path string) bool
}

// RealExecutor is the default executor that uses the real system.
type RealExecutor struct{}

// LookPath finds the path to an executable.
func (e *RealExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Run executes a command and returns its output.
func (e *RealExecutor) Run(name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	// Prefer stdout, fall back to stderr (ssh -V writes to stderr).
	output := stdout.String()
	if output == "" {
		output = stderr.String()
	}
	return output, err
}

// FileExists checks if a file exists.
func (e *RealExecutor) FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// checkTool checks if a tool is installed and extracts its version.
func checkTool(exec CommandExecutor, id, name, desc string, versionArgs []string, versionRegex *regexp.Regexp, fixCmd *FixCommand) Check {
	check := Check{
		ID:          id,
		Name:        name,
		Description: desc,
		FixCommand:  fixCmd,
	}

	path, err := exec.LookPath(id)
	if err != nil {
		check.Status = StatusMissing
		check.Message = "not installed"
		return check
	}

	output, _ := exec.Run(path, versionArgs...)
	if matches := versionRegex.FindStringSubmatch(output); len(matches) >= 2 {
		check.Status = StatusOK
		check.Message = matches[1]
	} else {
		check.Status = StatusOK
		check.Message = "installed"
	}
	return check
}

var (
	rsyncVersionRegex = regexp.MustCompile(`rsync\s+version\s+(\d+\.\d+(?:\.\d+)?)`)
	sshVersionRegex   = regexp.MustCompile(`OpenSSH_([\w.]+)`)
)

// CheckRsync checks if rsync is installed.
func CheckRsync(exec CommandExecutor) Check {
	return checkTool(
		exec,
		IDRsync,
		"rsync",
		"Transfers file groups to the remote host",
		[]string{"--version"},
		rsyncVersionRegex,
		&FixCommand{
			Description: "Install rsync",
			Command:     "sudo apt install rsync",
			Platform:    "linux",
		},
	)
}

// CheckSSH checks if the ssh client is installed.
func CheckSSH(exec CommandExecutor) Check {
	return checkTool(
		exec,
		IDSSH,
		"OpenSSH client",
		"Runs the remote install step",
		[]string{"-V"},
		sshVersionRegex,
		&FixCommand{
			Description: "Install the OpenSSH client",
			Command:     "sudo apt install openssh-client",
			Platform:    "linux",
		},
	)
}

// CheckAWSCredentials checks whether AWS credentials are discoverable, via
// either the environment or the shared credentials file. Only needed when
// instance lifecycle management is used, so a miss is a warning.
func CheckAWSCredentials(exec CommandExecutor, env EnvGetter) Check {
	check := Check{
		ID:          IDAWSCred,
		Name:        "AWS credentials",
		Description: "Used to start/stop the EC2 instance (only with -s)",
	}

	if env.Getenv("AWS_ACCESS_KEY_ID") != "" {
		check.Status = StatusOK
		check.Message = "environment credentials"
		return check
	}

	credFile := env.Getenv("AWS_SHARED_CREDENTIALS_FILE")
	if credFile == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			credFile = filepath.Join(home, ".aws", "credentials")
		}
	}
	if credFile != "" && exec.FileExists(credFile) {
		check.Status = StatusOK
		check.Message = "shared credentials file"
		return check
	}

	check.Status = StatusWarning
	check.Message = "no credentials found"
	check.FixCommand = &FixCommand{
		Description: "Configure AWS credentials",
		Command:     "aws configure",
	}
	return check
}
