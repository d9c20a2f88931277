package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

// runConfigInit runs config init with HOME at a temp dir and the given
// answers on standard input.
func runConfigInit(t *testing.T, home, input string) (string, error) {
	t.Helper()
	t.Setenv("HOME", home)

	output := &bytes.Buffer{}
	configInitCmd.SetIn(strings.NewReader(input))
	configInitCmd.SetOut(output)
	configInitCmd.SetErr(output)

	err := configInitCmd.RunE(configInitCmd, []string{})
	return output.String(), err
}

func TestConfigInitCmd_NewConfig(t *testing.T) {
	tmpDir := t.TempDir()

	// Accept every default
	if _, err := runConfigInit(t, tmpDir, "\n\n\n\n\n\n"); err != nil {
		t.Fatalf("config init should succeed: %v", err)
	}

	configPath := filepath.Join(tmpDir, ".sqlclass", "config.yaml")
	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("failed to read config file: %v", err)
	}
	contentStr := string(content)

	expectedStrings := []string{
		"connections:",
		"default:",
		"host: 127.0.0.1",
		"port: 3306",
		"user: sqlclass",
		"defaults:",
		"format: text",
		"log_unrecognized_statements: 0",
		"cache_size: 4096",
		"listen: 127.0.0.1:8080",
	}
	for _, expected := range expectedStrings {
		if !strings.Contains(contentStr, expected) {
			t.Errorf("config should contain %q, content:\n%s", expected, contentStr)
		}
	}
	if strings.Contains(contentStr, "database:") {
		t.Errorf("config should omit an empty database, content:\n%s", contentStr)
	}

	fileInfo, err := os.Stat(configPath)
	if err != nil {
		t.Fatalf("failed to stat config file: %v", err)
	}
	if perm := fileInfo.Mode().Perm(); perm != 0600 {
		t.Errorf("config file permissions = %o, want 0600", perm)
	}

	dirInfo, err := os.Stat(filepath.Dir(configPath))
	if err != nil {
		t.Fatalf(".sqlclass directory should be created: %v", err)
	}
	if perm := dirInfo.Mode().Perm(); perm != 0700 {
		t.Errorf(".sqlclass directory permissions = %o, want 0700", perm)
	}
}

func TestConfigInitCmd_CustomAnswers(t *testing.T) {
	tmpDir := t.TempDir()

	input := "db.internal\n3307\nproxy\nshop\njson\n0.0.0.0:9000\n"
	result, err := runConfigInit(t, tmpDir, input)
	if err != nil {
		t.Fatalf("config init should succeed: %v", err)
	}

	content, _ := os.ReadFile(filepath.Join(tmpDir, ".sqlclass", "config.yaml"))
	contentStr := string(content)
	for _, expected := range []string{"host: db.internal", "port: 3307", "user: proxy", "database: shop", "format: json", "listen: 0.0.0.0:9000"} {
		if !strings.Contains(contentStr, expected) {
			t.Errorf("config should contain %q, content:\n%s", expected, contentStr)
		}
	}

	// Should show SQL recommendations for non-root user
	if !strings.Contains(result, "CREATE USER 'proxy'") {
		t.Error("should show CREATE USER recommendation for non-root user")
	}
	if !strings.Contains(result, "GRANT SELECT ON performance_schema.*") {
		t.Error("should show GRANT recommendations")
	}
}

func TestConfigInitCmd_RootUserNoRecommendation(t *testing.T) {
	result, err := runConfigInit(t, t.TempDir(), "\n\nroot\n\n\n\n")
	if err != nil {
		t.Fatalf("config init should succeed: %v", err)
	}
	if strings.Contains(result, "CREATE USER") {
		t.Error("should not recommend creating a user when configured as root")
	}
}

func TestConfigInitCmd_AlreadyExists_Abort(t *testing.T) {
	tmpDir := t.TempDir()

	configDir := filepath.Join(tmpDir, ".sqlclass")
	os.MkdirAll(configDir, 0700)
	configPath := filepath.Join(configDir, "config.yaml")
	os.WriteFile(configPath, []byte("existing: config"), 0600)

	result, err := runConfigInit(t, tmpDir, "n\n")
	if err != nil {
		t.Fatalf("config init should handle abort gracefully: %v", err)
	}

	content, _ := os.ReadFile(configPath)
	if string(content) != "existing: config" {
		t.Error("config should not be overwritten when user aborts")
	}
	if !strings.Contains(result, "Aborted") {
		t.Errorf("output should indicate abort, got: %s", result)
	}
}

func TestConfigInitCmd_AlreadyExists_Overwrite(t *testing.T) {
	tmpDir := t.TempDir()

	configDir := filepath.Join(tmpDir, ".sqlclass")
	os.MkdirAll(configDir, 0700)
	configPath := filepath.Join(configDir, "config.yaml")
	os.WriteFile(configPath, []byte("old: config"), 0600)

	if _, err := runConfigInit(t, tmpDir, "y\nlocalhost\n3307\ntestuser\ntestdb\njson\n\n"); err != nil {
		t.Fatalf("config init should succeed: %v", err)
	}

	content, _ := os.ReadFile(configPath)
	contentStr := string(content)

	if !strings.Contains(contentStr, "host: localhost") {
		t.Error("config should contain new host")
	}
	if !strings.Contains(contentStr, "port: 3307") {
		t.Error("config should contain new port")
	}
	if strings.Contains(contentStr, "old: config") {
		t.Error("config should not contain old content")
	}
}

func TestConfigShowCmd_NoConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	viper.Reset()
	cfgFile = ""

	output := &bytes.Buffer{}
	configShowCmd.SetOut(output)
	configShowCmd.SetErr(output)

	if err := configShowCmd.RunE(configShowCmd, []string{}); err != nil {
		t.Fatalf("config show should handle missing config: %v", err)
	}

	result := output.String()
	if !strings.Contains(result, "No config file found") {
		t.Errorf("should indicate no config found, got: %s", result)
	}
	if !strings.Contains(result, "sqlclass config init") {
		t.Errorf("should suggest running 'sqlclass config init', got: %s", result)
	}
}

func TestConfigShowCmd_WithConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")

	configContent := `connections:
  default:
    host: testhost
classifier:
  cache_size: 512
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	viper.Reset()
	viper.SetConfigFile(configPath)
	viper.ReadInConfig()

	output := &bytes.Buffer{}
	configShowCmd.SetOut(output)
	configShowCmd.SetErr(output)

	if err := configShowCmd.RunE(configShowCmd, []string{}); err != nil {
		t.Fatalf("config show should succeed: %v", err)
	}

	result := output.String()
	if !strings.Contains(result, configPath) {
		t.Errorf("should show config file path, got: %s", result)
	}
	if !strings.Contains(result, "cache_size: 512") {
		t.Errorf("should show config content, got: %s", result)
	}
}

func TestConfigCmd_Structure(t *testing.T) {
	if configCmd.Use != "config" {
		t.Errorf("configCmd.Use = %q, want %q", configCmd.Use, "config")
	}

	var foundInit, foundShow bool
	for _, cmd := range configCmd.Commands() {
		switch cmd.Use {
		case "init":
			foundInit = true
		case "show":
			foundShow = true
		}
	}
	if !foundInit {
		t.Error("configCmd should have 'init' subcommand")
	}
	if !foundShow {
		t.Error("configCmd should have 'show' subcommand")
	}
}
