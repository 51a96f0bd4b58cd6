//go:build e2e && unix

package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestApplicationStartsAndExits(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	workspace, err := tf.CreateTestWorkspace()
	require.NoError(t, err, "Failed to create test workspace")

	err = tf.StartApp("-d", workspace)
	require.NoError(t, err, "Failed to start app")

	require.True(t, tf.Ready(), "Should show symgrip title")
	require.True(t, tf.SeePlain("Press / to search"), "Should show the empty-state hint")

	// Set up exit monitoring before sending 'q'
	done := make(chan error, 1)
	go func() {
		done <- tf.cmd.Wait()
	}()

	tf.Quit()

	select {
	case exitErr := <-done:
		t.Logf("Process exited with 'q' command (exit: %v)", exitErr)
		return
	case <-time.After(1500 * time.Millisecond):
		t.Logf("'q' didn't work within 1.5 seconds, using Ctrl+C")
		tf.SendCtrlC()
	}

	select {
	case exitErr := <-done:
		t.Logf("Process exited with Ctrl+C (exit: %v)", exitErr)
	case <-time.After(750 * time.Millisecond):
		t.Error("Application did not exit within total timeout")
		tf.DumpTailOnFail(t, "exit-failure", 4096)
		tf.SendCtrlC()
	}
}

func TestSearchShowsDefinitionsAndReferences(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	workspace, err := tf.CreateTestWorkspace()
	require.NoError(t, err, "Failed to create test workspace")

	err = tf.StartApp("-d", workspace)
	require.NoError(t, err, "Failed to start app")
	require.True(t, tf.Ready(), "Should show symgrip title")

	require.NoError(t, tf.Search("Greet"))

	require.True(t, tf.SeePlain("usages of Greet"), "Should show the session title")
	require.True(t, tf.SeePlain("2 sites"), "Greet is declared in two files")
	require.True(t, tf.SeePlain("use.go"), "Should list the referencing file")
	require.True(t, tf.SeePlain("1 definitions, 1 references"), "Should report the result counts")
}

func TestSearchSuggestsNearbyName(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	workspace, err := tf.CreateTestWorkspace()
	require.NoError(t, err, "Failed to create test workspace")

	err = tf.StartApp("-d", workspace)
	require.NoError(t, err, "Failed to start app")
	require.True(t, tf.Ready(), "Should show symgrip title")

	require.NoError(t, tf.Search("Gret"))

	require.True(t, tf.SeePlain("No results"), "Should show the empty result state")
	require.True(t, tf.SeePlain("Did you mean"), "Should suggest the closest symbol name")
	require.True(t, tf.SeePlain("Greet"), "Suggestion should name the nearby symbol")
}

func TestNewSearchSupersedesSession(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	workspace, err := tf.CreateTestWorkspace()
	require.NoError(t, err, "Failed to create test workspace")

	err = tf.StartApp("-d", workspace)
	require.NoError(t, err, "Failed to start app")
	require.True(t, tf.Ready(), "Should show symgrip title")

	require.NoError(t, tf.Search("Greet"))
	require.True(t, tf.SeePlain("usages of Greet"), "First session should open")

	require.NoError(t, tf.Search("Solo"))
	require.True(t, tf.SeePlain("usages of Solo"), "Second search replaces the session title")
}

func TestDirectJumpArgumentWithAmbiguousSymbol(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	workspace, err := tf.CreateTestWorkspace()
	require.NoError(t, err, "Failed to create test workspace")

	// Greet has two declaration sites, so the jump argument must land in
	// the usage browser instead of opening anything directly.
	err = tf.StartApp("-d", workspace, "Greet")
	require.NoError(t, err, "Failed to start app")

	require.True(t, tf.Ready(), "Should show symgrip title")
	require.True(t, tf.SeePlainWithin("usages of Greet", 5*time.Second),
		"Ambiguous symbol should open the usage browser")
}
