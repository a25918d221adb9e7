package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"precondition", NewPreconditionError("runtime", "too old"), 1},
		{"wrapped precondition", fmt.Errorf("setup: %w", NewPreconditionError("pm", "missing")), 1},
		{"configuration", NewConfigurationError("config.yaml", errors.New("bad yaml")), 2},
		{"plain", errors.New("boom"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func Test_StepError_Unwrap(t *testing.T) {
	cause := errors.New("exit status 2")
	err := NewStepError("build", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), `"build"`)
}
