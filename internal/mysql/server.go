package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
)

// ServerInfo is what the digest report needs to know about the server the
// statements ran on.
type ServerInfo struct {
	Version       ServerVersion
	ReadOnly      bool
	SuperReadOnly bool
	IsReplica     bool
	ReplicaLag    *int64 // seconds, nil when unknown
}

// Writable reports whether ordinary clients can write on the server.
func (s *ServerInfo) Writable() bool {
	return !s.ReadOnly && !s.SuperReadOnly
}

// GetServerInfo reads version, read-only state and replication role.
func GetServerInfo(ctx context.Context, db *sql.DB) (*ServerInfo, error) {
	version, err := GetServerVersion(ctx, db)
	if err != nil {
		return nil, err
	}
	info := &ServerInfo{Version: version}

	if info.ReadOnly, err = GetVariableBool(ctx, db, "read_only"); err != nil {
		return nil, fmt.Errorf("reading read_only: %w", err)
	}
	// MariaDB has no super_read_only.
	if version.Flavor != "mariadb" {
		if info.SuperReadOnly, err = GetVariableBool(ctx, db, "super_read_only"); err != nil {
			return nil, fmt.Errorf("reading super_read_only: %w", err)
		}
	}

	if err := detectReplica(ctx, db, info); err != nil {
		return nil, err
	}
	return info, nil
}

func detectReplica(ctx context.Context, db *sql.DB, info *ServerInfo) error {
	query := "SHOW SLAVE STATUS"
	if info.Version.UsesReplicaKeywords() {
		query = "SHOW REPLICA STATUS"
	}

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		// Missing REPLICATION CLIENT privilege: report as not a replica.
		return nil
	}
	defer rows.Close()

	if !rows.Next() {
		return rows.Err()
	}
	info.IsReplica = true

	cols, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("reading replica status columns: %w", err)
	}
	values := make([]sql.NullString, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return fmt.Errorf("reading replica status: %w", err)
	}

	for i, col := range cols {
		switch col {
		case "Seconds_Behind_Source", "Seconds_Behind_Master":
			if values[i].Valid {
				if lag, err := strconv.ParseInt(values[i].String, 10, 64); err == nil {
					info.ReplicaLag = &lag
				}
			}
		}
	}
	return nil
}
