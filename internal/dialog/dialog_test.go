package dialog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"yuki/internal/config"
)

func Test_keyLabel(t *testing.T) {
	assert.Equal(t, "Space", keyLabel(config.KeySpace))
	assert.Equal(t, "Return", keyLabel(config.KeyReturn))
	assert.Equal(t, "F9", keyLabel(config.KeyF9))
	assert.Equal(t, "Y", keyLabel(config.KeyY))
}
