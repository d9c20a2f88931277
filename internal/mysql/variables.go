package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ServerVersion represents a parsed MySQL version.
type ServerVersion struct {
	Raw           string // e.g. "8.0.35-27-Percona XtraDB Cluster"
	Major         int    // 8
	Minor         int    // 0
	Patch         int    // 35 (0 for Aurora)
	Flavor        string // "mysql", "percona", "percona-xtradb-cluster", "aurora-mysql", "mariadb"
	IsLTS         bool   // true for 8.4.x
	AuroraVersion string // e.g., "3.04.0" (empty for non-Aurora)
}

var (
	auroraVersionRe = regexp.MustCompile(`^(\d+)\.(\d+)\.mysql_aurora\.(\d+\.\d+\.\d+)`)
	versionRe       = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)`)
)

// String returns a human-readable version string.
func (v ServerVersion) String() string {
	if v.AuroraVersion != "" {
		return fmt.Sprintf("%d.%d (aurora-mysql %s)", v.Major, v.Minor, v.AuroraVersion)
	}
	return fmt.Sprintf("%d.%d.%d (%s)", v.Major, v.Minor, v.Patch, v.Flavor)
}

// IsAurora returns true if this is an Aurora MySQL instance.
func (v ServerVersion) IsAurora() bool {
	return v.Flavor == "aurora-mysql"
}

// AtLeast returns true if the server version is >= the given version.
func (v ServerVersion) AtLeast(major, minor, patch int) bool {
	if v.Major != major {
		return v.Major > major
	}
	if v.Minor != minor {
		return v.Minor > minor
	}
	return v.Patch >= patch
}

// HasQuerySample reports whether the digest summary table carries
// QUERY_SAMPLE_TEXT. MySQL 8.0.3+, and every Aurora 3.x release.
func (v ServerVersion) HasQuerySample() bool {
	if v.Flavor == "mariadb" {
		return false
	}
	if v.IsAurora() {
		return v.Major >= 8
	}
	return v.AtLeast(8, 0, 3)
}

// UsesReplicaKeywords reports whether SHOW REPLICA STATUS is understood.
// MySQL 8.0.22+
func (v ServerVersion) UsesReplicaKeywords() bool {
	return v.Flavor != "mariadb" && v.AtLeast(8, 0, 22)
}

// GetServerVersion queries and parses the MySQL server version.
func GetServerVersion(ctx context.Context, db *sql.DB) (ServerVersion, error) {
	var raw string
	err := db.QueryRowContext(ctx, "SELECT VERSION()").Scan(&raw)
	if err != nil {
		return ServerVersion{}, fmt.Errorf("querying version: %w", err)
	}
	return ParseVersion(raw)
}

// ParseVersion parses a MySQL version string.
func ParseVersion(raw string) (ServerVersion, error) {
	v := ServerVersion{Raw: raw}

	// Aurora versions carry no numeric patch, so they are matched first.
	if m := auroraVersionRe.FindStringSubmatch(raw); len(m) >= 4 {
		v.Major, _ = strconv.Atoi(m[1])
		v.Minor, _ = strconv.Atoi(m[2])
		v.Flavor = "aurora-mysql"
		v.AuroraVersion = m[3]
		return v, nil
	}

	matches := versionRe.FindStringSubmatch(raw)
	if len(matches) < 4 {
		return v, fmt.Errorf("could not parse version: %s", raw)
	}

	v.Major, _ = strconv.Atoi(matches[1])
	v.Minor, _ = strconv.Atoi(matches[2])
	v.Patch, _ = strconv.Atoi(matches[3])

	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, "percona xtradb cluster"):
		v.Flavor = "percona-xtradb-cluster"
	case strings.Contains(lower, "percona"):
		v.Flavor = "percona"
	case strings.Contains(lower, "mariadb"):
		v.Flavor = "mariadb"
	default:
		v.Flavor = "mysql"
	}

	// 8.4.x is LTS
	v.IsLTS = v.Major == 8 && v.Minor == 4

	return v, nil
}

// GetVariable reads a single MySQL variable.
// Returns the value, or empty string if variable doesn't exist.
func GetVariable(ctx context.Context, db *sql.DB, name string) (string, error) {
	var varName, value sql.NullString

	// Escape the variable name for the LIKE pattern
	escapedName := strings.ReplaceAll(name, "_", "\\_")
	escapedName = strings.ReplaceAll(escapedName, "%", "\\%")

	// SHOW does not take placeholders with every driver setting
	query := fmt.Sprintf("SHOW GLOBAL VARIABLES LIKE '%s'", escapedName)
	err := db.QueryRowContext(ctx, query).Scan(&varName, &value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("query failed: %w", err)
	}

	if !value.Valid {
		return "", nil
	}
	return value.String, nil
}

// GetVariableBool reads an ON/OFF style variable.
func GetVariableBool(ctx context.Context, db *sql.DB, name string) (bool, error) {
	val, err := GetVariable(ctx, db, name)
	if err != nil {
		return false, err
	}
	switch strings.ToUpper(val) {
	case "ON", "1", "TRUE":
		return true, nil
	default:
		return false, nil
	}
}
