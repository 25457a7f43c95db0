package cli

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evid-cli/evid/internal/adapters/driving/tui"
)

func stubProgram(t *testing.T, run func(tea.Model) error) {
	t.Helper()
	old := runProgram
	runProgram = run
	t.Cleanup(func() { runProgram = old })
}

func TestTUICmd_Metadata(t *testing.T) {
	assert.Equal(t, "tui", tuiCmd.Use)
	assert.NotEmpty(t, tuiCmd.Short)
	assert.Contains(t, tuiCmd.Long, "Filter documents")
}

func TestTUICmd_RunsApp(t *testing.T) {
	var got tea.Model
	stubProgram(t, func(m tea.Model) error {
		got = m
		return nil
	})

	_, err := execute(t, newTestServices(), "tui")

	require.NoError(t, err)
	app, ok := got.(*tui.App)
	require.True(t, ok)
	assert.False(t, app.Ready())
}

func TestTUICmd_ProgramError(t *testing.T) {
	stubProgram(t, func(tea.Model) error { return errors.New("no tty") })

	_, err := execute(t, newTestServices(), "tui")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "TUI error: no tty")
}

func TestTUICmd_MissingServices(t *testing.T) {
	stubProgram(t, func(tea.Model) error {
		t.Fatal("program must not start")
		return nil
	})

	_, err := execute(t, nil, "tui")

	require.Error(t, err)
	assert.ErrorIs(t, err, tui.ErrMissingDatasetService)
}

func TestTUICmd_RejectsArgs(t *testing.T) {
	_, err := execute(t, newTestServices(), "tui", "extra")

	assert.Error(t, err)
}
