package mysql

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestDriverConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ConnectionConfig
		net     string
		addr    string
		dbName  string
		tls     string
		wantErr bool
	}{
		{
			name: "TCP with database",
			cfg: ConnectionConfig{
				Host:     "localhost",
				Port:     3306,
				User:     "root",
				Password: "secret",
				Database: "mydb",
			},
			net:    "tcp",
			addr:   "localhost:3306",
			dbName: "mydb",
		},
		{
			name:   "TCP defaults to performance_schema",
			cfg:    ConnectionConfig{Host: "192.168.1.100", Port: 3307, User: "sqlclass"},
			net:    "tcp",
			addr:   "192.168.1.100:3307",
			dbName: "performance_schema",
		},
		{
			name:   "IPv6 host",
			cfg:    ConnectionConfig{Host: "::1", Port: 3306, User: "sqlclass"},
			net:    "tcp",
			addr:   "[::1]:3306",
			dbName: "performance_schema",
		},
		{
			name: "socket takes precedence",
			cfg: ConnectionConfig{
				Host:     "localhost",
				Port:     3306,
				Socket:   "/var/run/mysqld/mysqld.sock",
				User:     "app",
				Database: "production",
			},
			net:    "unix",
			addr:   "/var/run/mysqld/mysqld.sock",
			dbName: "production",
		},
		{
			name:   "TLS required",
			cfg:    ConnectionConfig{Host: "db.example.com", Port: 3306, User: "u", TLSMode: "required"},
			net:    "tcp",
			addr:   "db.example.com:3306",
			dbName: "performance_schema",
			tls:    "true",
		},
		{
			name:   "TLS disabled",
			cfg:    ConnectionConfig{Host: "db.example.com", Port: 3306, User: "u", TLSMode: "disabled"},
			net:    "tcp",
			addr:   "db.example.com:3306",
			dbName: "performance_schema",
		},
		{
			name:   "TLS custom",
			cfg:    ConnectionConfig{Host: "db.example.com", Port: 3306, User: "u", TLSMode: "custom"},
			net:    "tcp",
			addr:   "db.example.com:3306",
			dbName: "performance_schema",
			tls:    customTLSName,
		},
		{
			name:    "invalid TLS mode",
			cfg:     ConnectionConfig{Host: "localhost", Port: 3306, TLSMode: "sometimes"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dc, err := tt.cfg.driverConfig()
			if tt.wantErr {
				if err == nil {
					t.Errorf("driverConfig() succeeded, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if dc.Net != tt.net {
				t.Errorf("Net = %q, want %q", dc.Net, tt.net)
			}
			if dc.Addr != tt.addr {
				t.Errorf("Addr = %q, want %q", dc.Addr, tt.addr)
			}
			if dc.DBName != tt.dbName {
				t.Errorf("DBName = %q, want %q", dc.DBName, tt.dbName)
			}
			if dc.TLSConfig != tt.tls {
				t.Errorf("TLSConfig = %q, want %q", dc.TLSConfig, tt.tls)
			}
			if dc.User != tt.cfg.User || dc.Passwd != tt.cfg.Password {
				t.Errorf("credentials = %q/%q, want %q/%q", dc.User, dc.Passwd, tt.cfg.User, tt.cfg.Password)
			}
			if !dc.ParseTime || !dc.InterpolateParams {
				t.Errorf("ParseTime = %v, InterpolateParams = %v, want both set", dc.ParseTime, dc.InterpolateParams)
			}
		})
	}
}

func TestDriverConfig_Timeout(t *testing.T) {
	dc, err := ConnectionConfig{Host: "localhost", Port: 3306}.driverConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dc.Timeout != DefaultTimeout || dc.ReadTimeout != DefaultTimeout {
		t.Errorf("timeouts = %v/%v, want %v", dc.Timeout, dc.ReadTimeout, DefaultTimeout)
	}

	dc, err = ConnectionConfig{Host: "localhost", Port: 3306, Timeout: 3 * time.Second}.driverConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dc.Timeout != 3*time.Second {
		t.Errorf("Timeout = %v, want 3s", dc.Timeout)
	}
}

func TestDriverConfig_FormatDSN(t *testing.T) {
	dc, err := ConnectionConfig{Socket: "/tmp/mysql.sock", User: "user"}.driverConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dsn := dc.FormatDSN()
	if !strings.Contains(dsn, "unix(/tmp/mysql.sock)") {
		t.Errorf("DSN with socket should use unix protocol, got: %s", dsn)
	}
	if strings.Contains(dsn, "tcp") {
		t.Errorf("DSN with socket should not contain tcp, got: %s", dsn)
	}
	if !strings.Contains(dsn, "parseTime=true") {
		t.Errorf("DSN should request parseTime, got: %s", dsn)
	}
}

func TestConnect_CustomTLSNeedsCA(t *testing.T) {
	_, err := Connect(context.Background(), ConnectionConfig{TLSMode: "custom"})
	if err == nil || !strings.Contains(err.Error(), "--tls-ca") {
		t.Errorf("Connect() error = %v, want --tls-ca hint", err)
	}
}

func TestConnect_CustomTLSMissingFile(t *testing.T) {
	_, err := Connect(context.Background(), ConnectionConfig{TLSMode: "custom", TLSCA: "/nonexistent/ca.pem"})
	if err == nil || !strings.Contains(err.Error(), "TLS setup failed") {
		t.Errorf("Connect() error = %v, want TLS setup failure", err)
	}
}

func TestConnect_InvalidTLSMode(t *testing.T) {
	_, err := Connect(context.Background(), ConnectionConfig{Host: "localhost", Port: 3306, TLSMode: "maybe"})
	if err == nil || !strings.Contains(err.Error(), "invalid TLS mode") {
		t.Errorf("Connect() error = %v, want invalid TLS mode", err)
	}
}
