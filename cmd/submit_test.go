package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitRequiresCorrectAnswer(t *testing.T) {
	err := submitCmd.ValidateRequiredFlags()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"correct"`)

	require.NoError(t, submitCmd.Flags().Set("correct", "0"))
	t.Cleanup(func() { submitCmd.Flags().Lookup("correct").Changed = false })
	assert.NoError(t, submitCmd.ValidateRequiredFlags())
}
