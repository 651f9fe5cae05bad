package deploy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTarget(t *testing.T) {
	tests := []struct {
		arch string
		want string
	}{
		{"x86_64", "x86_64-unknown-linux-gnu"},
		{"arm64", "aarch64-unknown-linux-gnu"},
	}

	for _, tt := range tests {
		t.Run(tt.arch, func(t *testing.T) {
			got, err := BuildTarget(tt.arch)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildTarget_Unknown(t *testing.T) {
	for _, arch := range []string{"i386", "riscv64", ""} {
		t.Run("arch="+arch, func(t *testing.T) {
			_, err := BuildTarget(arch)
			require.Error(t, err)

			var archErr *UnknownArchitectureError
			require.ErrorAs(t, err, &archErr)
			assert.Equal(t, arch, archErr.Architecture)
			assert.Contains(t, err.Error(), "no build target")
		})
	}
}
