//go:build integration

package mysql_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/nethalo/sqlclass/internal/classifier"
	"github.com/nethalo/sqlclass/internal/mysql"
)

/*
Integration tests against real MySQL instances.

To run these tests:
1. Start a MySQL 8.0 (and optionally 8.4) server with performance_schema on
2. Run tests: go test -tags=integration ./internal/mysql

Environment variables:
- MYSQL_STANDALONE_DSN: DSN for MySQL 8.0 (default: sqlclass:test_password@tcp(localhost:13306)/testdb)
- MYSQL_LTS_DSN: DSN for MySQL 8.4 LTS
*/

func getStandaloneDSN() string {
	if dsn := os.Getenv("MYSQL_STANDALONE_DSN"); dsn != "" {
		return dsn
	}
	return "sqlclass:test_password@tcp(localhost:13306)/testdb?parseTime=true"
}

func getLTSDSN() string {
	if dsn := os.Getenv("MYSQL_LTS_DSN"); dsn != "" {
		return dsn
	}
	return "sqlclass:test_password@tcp(localhost:13307)/testdb?parseTime=true"
}

func waitForMySQL(dsn string, maxAttempts int) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	for i := 0; i < maxAttempts; i++ {
		if err := db.Ping(); err == nil {
			return db, nil
		}
		time.Sleep(1 * time.Second)
	}
	db.Close()
	return nil, fmt.Errorf("MySQL not ready after %d attempts", maxAttempts)
}

func TestIntegration_DigestsAreClassified(t *testing.T) {
	db, err := waitForMySQL(getStandaloneDSN(), 30)
	if err != nil {
		t.Skip("MySQL standalone not available:", err)
	}
	defer db.Close()

	ctx := context.Background()
	table := "integration_digest_orders"
	stmts := []string{
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (id INT PRIMARY KEY AUTO_INCREMENT, status VARCHAR(20))", table),
		fmt.Sprintf("INSERT INTO %s (status) VALUES ('new'), ('paid')", table),
		fmt.Sprintf("SELECT id FROM %s WHERE status = 'paid'", table),
		fmt.Sprintf("UPDATE %s SET status = 'shipped' WHERE id = 1", table),
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			t.Fatalf("%s: %v", s, err)
		}
	}
	defer db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", table))

	info, err := mysql.GetServerInfo(ctx, db)
	if err != nil {
		t.Fatalf("GetServerInfo() error = %v", err)
	}
	if info.Version.Major != 8 {
		t.Errorf("expected MySQL 8, got %s", info.Version.String())
	}

	digests, err := mysql.TopDigests(ctx, db, info.Version, "testdb", 100)
	if err != nil {
		t.Fatalf("TopDigests() error = %v", err)
	}

	c, err := classifier.New()
	if err != nil {
		t.Fatal(err)
	}

	ops := make(map[classifier.Operation]bool)
	for _, d := range digests {
		rec := c.Classify(d.Statement())
		if rec.Status() == classifier.Invalid {
			t.Errorf("digest %s could not be classified: %q", d.Digest, d.Statement())
		}
		ops[rec.Operation()] = true
	}
	for _, op := range []classifier.Operation{classifier.OpSelect, classifier.OpUpdate, classifier.OpInsert} {
		if !ops[op] {
			t.Errorf("no %s digest found among %d digests", op, len(digests))
		}
	}
}

func TestIntegration_MySQLLTS(t *testing.T) {
	db, err := waitForMySQL(getLTSDSN(), 30)
	if err != nil {
		t.Skip("MySQL LTS not available:", err)
	}
	defer db.Close()

	version, err := mysql.GetServerVersion(context.Background(), db)
	if err != nil {
		t.Fatalf("version detection failed: %v", err)
	}

	if !version.IsLTS {
		t.Errorf("expected LTS version, got %s", version.String())
	}
	if !version.HasQuerySample() {
		t.Errorf("8.4 should expose QUERY_SAMPLE_TEXT")
	}
}
