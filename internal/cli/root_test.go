package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "berth", cmd.Use)
	assert.Contains(t, cmd.Long, "CUE")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"rank", "reserve", "render", "simulate", "history", "validate", "test"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestRankCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	rankCmd, _, err := cmd.Find([]string{"rank"})
	require.NoError(t, err)

	catalogFlag := rankCmd.Flags().Lookup("catalog")
	require.NotNil(t, catalogFlag)
	// --catalog is required, so default is empty
	assert.Equal(t, "", catalogFlag.DefValue)

	seatsFlag := rankCmd.Flags().Lookup("seats")
	require.NotNil(t, seatsFlag)

	dateFlag := rankCmd.Flags().Lookup("date")
	require.NotNil(t, dateFlag)
}

func TestReserveCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	reserveCmd, _, err := cmd.Find([]string{"reserve"})
	require.NoError(t, err)

	ledgerFlag := reserveCmd.Flags().Lookup("ledger")
	require.NotNil(t, ledgerFlag)
	// --ledger is optional, journaling is skipped when empty
	assert.Equal(t, "", ledgerFlag.DefValue)
}

func TestSimulateCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	simulateCmd, _, err := cmd.Find([]string{"simulate"})
	require.NoError(t, err)

	requestsFlag := simulateCmd.Flags().Lookup("requests")
	require.NotNil(t, requestsFlag)

	parallelFlag := simulateCmd.Flags().Lookup("parallel")
	require.NotNil(t, parallelFlag)
	assert.Equal(t, "0", parallelFlag.DefValue)
}

func TestHistoryCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	historyCmd, _, err := cmd.Find([]string{"history"})
	require.NoError(t, err)

	ledgerFlag := historyCmd.Flags().Lookup("ledger")
	require.NotNil(t, ledgerFlag)

	trainFlag := historyCmd.Flags().Lookup("train")
	require.NotNil(t, trainFlag)
	assert.Equal(t, "", trainFlag.DefValue)
}

func TestTestCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	testCmd, _, err := cmd.Find([]string{"test"})
	require.NoError(t, err)

	filterFlag := testCmd.Flags().Lookup("filter")
	require.NotNil(t, filterFlag)
	assert.Equal(t, "", filterFlag.DefValue)
}

func TestCommandHelp(t *testing.T) {
	cmd := NewRootCommand()

	// Verify help text contains key elements
	assert.Contains(t, cmd.Short, "berth")
	assert.Contains(t, cmd.Long, "least-loaded")
}

func TestFormatValidation(t *testing.T) {
	// Test valid formats
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	// Test invalid formats
	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--format", "invalid", "rank", "--catalog", "testdata/catalog.cue", "--seats", "2"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}
