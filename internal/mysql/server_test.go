package mysql

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func expectVariable(mock sqlmock.Sqlmock, pattern, name, value string) {
	mock.ExpectQuery("SHOW GLOBAL VARIABLES LIKE '" + pattern + "'").
		WillReturnRows(sqlmock.NewRows([]string{"Variable_name", "Value"}).AddRow(name, value))
}

func TestGetServerInfo(t *testing.T) {
	tests := []struct {
		name         string
		setupMock    func(mock sqlmock.Sqlmock)
		wantReadOnly bool
		wantSuperRO  bool
		wantReplica  bool
		wantLag      int64
		wantWritable bool
		wantErr      bool
	}{
		{
			name: "writable primary",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT VERSION()").
					WillReturnRows(sqlmock.NewRows([]string{"VERSION()"}).AddRow("8.0.35"))
				expectVariable(mock, "read\\\\_only", "read_only", "OFF")
				expectVariable(mock, "super\\\\_read\\\\_only", "super_read_only", "OFF")
				mock.ExpectQuery("SHOW REPLICA STATUS").
					WillReturnRows(sqlmock.NewRows([]string{"Replica_IO_State"}))
			},
			wantWritable: true,
		},
		{
			name: "read-only replica with lag",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT VERSION()").
					WillReturnRows(sqlmock.NewRows([]string{"VERSION()"}).AddRow("8.0.35"))
				expectVariable(mock, "read\\\\_only", "read_only", "ON")
				expectVariable(mock, "super\\\\_read\\\\_only", "super_read_only", "ON")
				mock.ExpectQuery("SHOW REPLICA STATUS").
					WillReturnRows(sqlmock.NewRows([]string{"Replica_IO_State", "Seconds_Behind_Source"}).
						AddRow("Waiting for source to send event", "12"))
			},
			wantReadOnly: true,
			wantSuperRO:  true,
			wantReplica:  true,
			wantLag:      12,
		},
		{
			name: "old server uses slave keywords",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT VERSION()").
					WillReturnRows(sqlmock.NewRows([]string{"VERSION()"}).AddRow("5.7.44-log"))
				expectVariable(mock, "read\\\\_only", "read_only", "ON")
				expectVariable(mock, "super\\\\_read\\\\_only", "super_read_only", "OFF")
				mock.ExpectQuery("SHOW SLAVE STATUS").
					WillReturnRows(sqlmock.NewRows([]string{"Slave_IO_State", "Seconds_Behind_Master"}).
						AddRow("Waiting for master to send event", "3"))
			},
			wantReadOnly: true,
			wantReplica:  true,
			wantLag:      3,
		},
		{
			name: "MariaDB skips super_read_only",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT VERSION()").
					WillReturnRows(sqlmock.NewRows([]string{"VERSION()"}).AddRow("10.11.6-MariaDB"))
				expectVariable(mock, "read\\\\_only", "read_only", "OFF")
				mock.ExpectQuery("SHOW SLAVE STATUS").
					WillReturnError(sql.ErrConnDone)
			},
			wantWritable: true,
		},
		{
			name: "version error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT VERSION()").WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			if err != nil {
				t.Fatalf("failed to create mock: %v", err)
			}
			defer db.Close()

			tt.setupMock(mock)

			info, err := GetServerInfo(context.Background(), db)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if info.ReadOnly != tt.wantReadOnly {
				t.Errorf("ReadOnly = %v, want %v", info.ReadOnly, tt.wantReadOnly)
			}
			if info.SuperReadOnly != tt.wantSuperRO {
				t.Errorf("SuperReadOnly = %v, want %v", info.SuperReadOnly, tt.wantSuperRO)
			}
			if info.IsReplica != tt.wantReplica {
				t.Errorf("IsReplica = %v, want %v", info.IsReplica, tt.wantReplica)
			}
			if tt.wantLag != 0 {
				if info.ReplicaLag == nil || *info.ReplicaLag != tt.wantLag {
					t.Errorf("ReplicaLag = %v, want %d", info.ReplicaLag, tt.wantLag)
				}
			}
			if info.Writable() != tt.wantWritable {
				t.Errorf("Writable = %v, want %v", info.Writable(), tt.wantWritable)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unfulfilled expectations: %v", err)
			}
		})
	}
}
