package cmd

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mouse-blink/pyintroduce/internal/domain"
	domainmocks "github.com/mouse-blink/pyintroduce/internal/domain/mocks"
	m "github.com/mouse-blink/pyintroduce/internal/model"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// newTestRoot builds a root command with every subcommand attached and the
// global workflow replaced by wf for the duration of the test.
func newTestRoot(t *testing.T, wf domain.Workflow) (*cobra.Command, *bytes.Buffer) {
	t.Helper()

	originalWorkflow := workflow
	workflow = wf

	t.Cleanup(func() { workflow = originalWorkflow })

	var out bytes.Buffer

	cmd := newRootCmd()
	cmd.AddCommand(newIntroduceCmd(), newSuggestCmd(), newScanCmd())
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	return cmd, &out
}

func TestNewRootCmd(t *testing.T) {
	cmd := newRootCmd()
	if cmd.Use != "pyintroduce" {
		t.Errorf("newRootCmd() Use = %v, want %v", cmd.Use, "pyintroduce")
	}

	if cmd.Short == "" || cmd.Long == "" {
		t.Error("newRootCmd() descriptions should not be empty")
	}

	for _, name := range []string{"config", "log-level", "log-format"} {
		if cmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("newRootCmd() missing --%s flag", name)
		}
	}
}

func TestInit(t *testing.T) {
	names := map[string]bool{}
	for _, sub := range rootCmd.Commands() {
		names[sub.Name()] = true
	}

	for _, want := range []string{"introduce", "suggest", "scan"} {
		if !names[want] {
			t.Errorf("rootCmd missing %q subcommand", want)
		}
	}
}

func TestRootCmd_Setup(t *testing.T) {
	t.Run("loads config file and log flags", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "pyintroduce.yaml")
		require.NoError(t, os.WriteFile(file, []byte("scan:\n  parallel: 3\n"), 0o600))

		mockWorkflow := domainmocks.NewMockWorkflow(t)
		cmd, _ := newTestRoot(t, mockWorkflow)

		mockWorkflow.On("Scan", mock.Anything, mock.MatchedBy(func(args domain.ScanArgs) bool {
			return args.Parallel == 3
		})).Return(nil)

		cmd.SetArgs([]string{"--config", file, "--log-level", "debug", "--log-format", "json", "scan"})
		require.NoError(t, cmd.Execute())

		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "json", cfg.Log.Format)
	})

	t.Run("invalid log level", func(t *testing.T) {
		cmd, _ := newTestRoot(t, domainmocks.NewMockWorkflow(t))

		cmd.SetArgs([]string{"--log-level", "loud", "scan"})
		assert.Error(t, cmd.Execute())
	})

	t.Run("missing config file", func(t *testing.T) {
		cmd, _ := newTestRoot(t, domainmocks.NewMockWorkflow(t))

		cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml"), "scan"})
		assert.Error(t, cmd.Execute())
	})

	t.Run("wires a workflow when none is injected", func(t *testing.T) {
		cmd, _ := newTestRoot(t, nil)

		cmd.SetArgs([]string{"scan", t.TempDir()})
		require.NoError(t, cmd.Execute())
		assert.NotNil(t, workflow)
	})
}

func TestParsePosition(t *testing.T) {
	tests := []struct {
		in      string
		want    m.Position
		wantErr bool
	}{
		{in: "3:7", want: m.Position{Line: 3, Column: 7}},
		{in: "1:1", want: m.Position{Line: 1, Column: 1}},
		{in: "3", wantErr: true},
		{in: "0:1", wantErr: true},
		{in: "2:x", wantErr: true},
		{in: "1:2:3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parsePosition(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExecute(t *testing.T) {
	originalRootCmd := rootCmd

	mockCmd := &cobra.Command{
		Use: "test",
		RunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
	}
	mockCmd.SetOut(&bytes.Buffer{})
	mockCmd.SetErr(&bytes.Buffer{})

	rootCmd = mockCmd

	Execute()

	rootCmd = originalRootCmd
}

func TestExecute_ProcessLevel_Failure(t *testing.T) {
	if os.Getenv("TEST_EXECUTE_SUBPROCESS_FAIL") == "1" {
		originalRootCmd := rootCmd
		mockCmd := &cobra.Command{
			Use: "test",
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprintln(os.Stderr, "error occurred")
				return fmt.Errorf("command failed")
			},
		}
		mockCmd.SetOut(os.Stdout)
		mockCmd.SetErr(os.Stderr)
		rootCmd = mockCmd
		defer func() { rootCmd = originalRootCmd }()

		Execute() // This should call os.Exit(1)
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestExecute_ProcessLevel_Failure")
	cmd.Env = append(os.Environ(), "TEST_EXECUTE_SUBPROCESS_FAIL=1")
	output, err := cmd.CombinedOutput()

	if exitErr, ok := err.(*exec.ExitError); ok {
		if exitErr.ExitCode() != 1 {
			t.Errorf("Expected exit code 1, got %d", exitErr.ExitCode())
		}
	} else {
		t.Errorf("Expected exec.ExitError, got %T", err)
	}

	if !strings.Contains(string(output), "error occurred") {
		t.Logf("Output: %s", output)
	}
}
