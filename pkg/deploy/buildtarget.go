package deploy

import "fmt"

// buildTargets maps an EC2 CPU architecture to the target triple used in the
// local bot binary path.
var buildTargets = map[string]string{
	"x86_64": "x86_64-unknown-linux-gnu",
	"arm64":  "aarch64-unknown-linux-gnu",
}

// UnknownArchitectureError is returned when an instance reports a CPU
// architecture with no known build target.
type UnknownArchitectureError struct {
	Architecture string
}

func (e *UnknownArchitectureError) Error() string {
	return fmt.Sprintf("no build target for architecture %q (known: x86_64, arm64)", e.Architecture)
}

// BuildTarget returns the build target triple for an EC2 CPU architecture.
func BuildTarget(arch string) (string, error) {
	target, ok := buildTargets[arch]
	if !ok {
		return "", &UnknownArchitectureError{Architecture: arch}
	}
	return target, nil
}
