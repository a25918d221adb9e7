package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_PowerCommands(t *testing.T) {
	tests := []struct {
		goos   string
		action PowerAction
		want   [][]string
	}{
		{"darwin", PowerShutdown, [][]string{{"sudo", "shutdown", "-h", "now"}}},
		{"linux", PowerRestart, [][]string{{"sudo", "reboot"}}},
		{"windows", PowerRestart, [][]string{{"shutdown", "/r", "/t", "0"}}},
		{"darwin", PowerSleep, [][]string{{"pmset", "sleepnow"}}},
		{"linux", PowerSleep, [][]string{{"systemctl", "suspend"}}},
	}

	for _, tt := range tests {
		t.Run(tt.goos+"_"+string(tt.action), func(t *testing.T) {
			got, err := PowerCommands(tt.goos, tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	windowsSleep, err := PowerCommands("windows", PowerSleep)
	require.NoError(t, err)
	assert.Len(t, windowsSleep, 2)

	_, err = PowerCommands("linux", PowerAction("hibernate"))
	assert.Error(t, err)
}

func Test_Exec_Exists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app")
	require.NoError(t, os.WriteFile(path, nil, 0755))

	assert.True(t, Exec{}.Exists(path))
	assert.False(t, Exec{}.Exists(path+".missing"))
}

func Test_Name(t *testing.T) {
	assert.Contains(t, []string{"macOS", "Windows", "Linux"}, Name())
}
