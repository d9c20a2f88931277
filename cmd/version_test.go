package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestVersionCommand(t *testing.T) {
	// Save original values
	origVersion := Version
	origCommitSHA := CommitSHA
	origBuildDate := BuildDate

	Version = "1.2.3"
	CommitSHA = "abc123"
	BuildDate = "2026-01-15"

	defer func() {
		Version = origVersion
		CommitSHA = origCommitSHA
		BuildDate = origBuildDate
	}()

	output := &bytes.Buffer{}
	versionCmd.SetOut(output)
	versionCmd.SetErr(output)

	versionCmd.Run(versionCmd, []string{})

	result := output.String()

	for _, want := range []string{"sqlclass 1.2.3", "abc123", "2026-01-15", "MySQL 8.0", "Keyword fallback"} {
		if !strings.Contains(result, want) {
			t.Errorf("output should contain %q, got: %s", want, result)
		}
	}
}

func TestVersionCommand_DevBuild(t *testing.T) {
	origVersion := Version
	Version = "dev"
	defer func() { Version = origVersion }()

	output := &bytes.Buffer{}
	versionCmd.SetOut(output)
	versionCmd.SetErr(output)

	versionCmd.Run(versionCmd, []string{})

	if !strings.Contains(output.String(), "dev") {
		t.Errorf("dev build should show 'dev' version, got: %s", output.String())
	}
}

func TestVersionCommand_Structure(t *testing.T) {
	if versionCmd == nil {
		t.Fatal("versionCmd should not be nil")
	}

	if versionCmd.Use != "version" {
		t.Errorf("versionCmd.Use = %q, want %q", versionCmd.Use, "version")
	}

	if versionCmd.Short == "" {
		t.Error("versionCmd.Short should not be empty")
	}

	if rootCmd.Version == "" {
		t.Error("rootCmd.Version should be set for --version")
	}
}
