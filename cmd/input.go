package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"vitess.io/vitess/go/vt/sqlparser"
)

// maxSQLFileSize bounds statement files and standard input.
const maxSQLFileSize = 10 * 1024 * 1024

// validateSQLFilePath checks that path names a regular file small enough to
// read in one go.
func validateSQLFilePath(path string) error {
	clean := filepath.Clean(path)
	info, err := os.Stat(clean)
	if err != nil {
		return fmt.Errorf("cannot access file %s: %w", clean, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", clean)
	}
	if info.Size() > maxSQLFileSize {
		return fmt.Errorf("file too large: %s is %d bytes, limit is %d", clean, info.Size(), maxSQLFileSize)
	}
	return nil
}

// getSQLInput returns the statement text from --file, --stdin or the first
// argument, in that order.
func getSQLInput(cmd *cobra.Command, args []string) (string, error) {
	filePath, _ := cmd.Flags().GetString("file")
	fromStdin, _ := cmd.Flags().GetBool("stdin")

	if filePath != "" {
		if err := validateSQLFilePath(filePath); err != nil {
			return "", err
		}
		data, err := os.ReadFile(filepath.Clean(filePath))
		if err != nil {
			return "", fmt.Errorf("could not read file %s: %w", filePath, err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	if fromStdin {
		data, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), maxSQLFileSize+1))
		if err != nil {
			return "", fmt.Errorf("could not read standard input: %w", err)
		}
		if len(data) > maxSQLFileSize {
			return "", fmt.Errorf("standard input too large: limit is %d bytes", maxSQLFileSize)
		}
		return strings.TrimSpace(string(data)), nil
	}

	if len(args) > 0 {
		return strings.TrimSpace(args[0]), nil
	}

	return "", fmt.Errorf("provide a SQL statement as argument or use --file or --stdin")
}

// splitStatements cuts text into single statements at top-level
// semicolons. Empty pieces are dropped.
func splitStatements(text string) (stmts []string, err error) {
	parser, err := sqlparser.New(sqlparser.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to create SQL parser: %w", err)
	}

	// The splitter panics on some malformed quoting.
	defer func() {
		if r := recover(); r != nil {
			stmts, err = nil, fmt.Errorf("splitting statements: malformed input: %v", r)
		}
	}()

	pieces, err := parser.SplitStatementToPieces(text)
	if err != nil {
		return nil, fmt.Errorf("splitting statements: %w", err)
	}

	stmts = make([]string, 0, len(pieces))
	for _, p := range pieces {
		p = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(p), ";"))
		if p != "" {
			stmts = append(stmts, p)
		}
	}
	return stmts, nil
}
