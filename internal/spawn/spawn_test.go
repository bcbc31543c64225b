package spawn

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArgsFiltersFieldCodes(t *testing.T) {
	args, err := Args("firefox %u --new-window %F")
	require.NoError(t, err)
	require.Equal(t, []string{"firefox", "--new-window"}, args)
}

func TestArgsKeepsQuotedTokens(t *testing.T) {
	args, err := Args(`sh -c "echo hello world"`)
	require.NoError(t, err)
	require.Equal(t, []string{"sh", "-c", "echo hello world"}, args)
}

func TestArgsAllFieldCodesFails(t *testing.T) {
	_, err := Args("%f %u")
	require.Error(t, err)
}

func TestArgsEmptyFails(t *testing.T) {
	_, err := Args("")
	require.Error(t, err)
}

func TestRunMissingBinaryFails(t *testing.T) {
	err := Run("/nonexistent/binary-xyz %u")
	require.Error(t, err)
}

func TestRunStartsDetached(t *testing.T) {
	require.NoError(t, Run("true"))
}
