package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berthd/berth/internal/ledger"
	"github.com/berthd/berth/internal/rail"
)

func TestReserveCommand_Books(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewReserveCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--catalog", "testdata/catalog.cue", "--seats", "2"})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "✓ Booked T1/A seats [1 2]")
	assert.NotContains(t, buf.String(), "journaled", "no ref line without --ledger")
}

func TestReserveCommand_JSONOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewReserveCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--catalog", "testdata/catalog.cue", "--seats", "2"})

	err := cmd.Execute()
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   ReserveResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Booked)
	assert.Equal(t, "T1", resp.Data.Train)
	assert.Equal(t, "A", resp.Data.Coach)
	assert.Equal(t, []int{1, 2}, resp.Data.Seats)
	assert.Empty(t, resp.Data.Ref)
}

func TestReserveCommand_NoSeats(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewReserveCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--catalog", "testdata/catalog.cue", "--seats", "20"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no coach can take 20 seat(s)")
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "✗ No seats")
}

func TestReserveCommand_NoSeatsJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewReserveCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--catalog", "testdata/catalog.cue", "--seats", "20"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E_NO_SEATS", resp.Error.Code)

	details, ok := resp.Error.Details.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, details["booked"])
}

func TestReserveCommand_JournalsToLedger(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "bookings.db")

	run := func() string {
		buf := &bytes.Buffer{}
		rootOpts := &RootOptions{Format: "text"}
		cmd := NewReserveCommand(rootOpts)
		cmd.SetOut(buf)
		cmd.SetErr(buf)
		cmd.SetArgs([]string{"--catalog", "testdata/catalog.cue", "--seats", "2", "--ledger", dbPath})
		require.NoError(t, cmd.Execute())
		return buf.String()
	}

	// Each invocation starts from the catalog, so both book the same
	// seats. The journal keeps both as separate commits.
	assert.Contains(t, run(), "journaled at seq 1")
	assert.Contains(t, run(), "journaled at seq 2")

	journal, err := ledger.Open(dbPath)
	require.NoError(t, err)
	defer journal.Close()

	bookings, err := journal.List(context.Background())
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.Equal(t, int64(1), bookings[0].Seq)
	assert.Equal(t, int64(2), bookings[1].Seq)
	for _, b := range bookings {
		assert.Equal(t, rail.TrainID("T1"), b.TrainID)
		assert.Equal(t, rail.CoachID("A"), b.CoachID)
		assert.NotEmpty(t, b.Ref)
	}
	assert.NotEqual(t, bookings[0].ID, bookings[1].ID)
	assert.NotEqual(t, bookings[0].Ref, bookings[1].Ref)
}

func TestReserveCommand_LedgerOpenFails(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewReserveCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--catalog", "testdata/catalog.cue", "--seats", "2",
		"--ledger", filepath.Join(t.TempDir(), "missing-dir", "bookings.db")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open ledger")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
