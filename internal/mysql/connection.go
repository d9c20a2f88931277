package mysql

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"database/sql"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"golang.org/x/term"
)

// DefaultTimeout bounds dialing and each read of the digest queries.
const DefaultTimeout = 10 * time.Second

const customTLSName = "sqlclass-custom"

// tlsModes maps the --tls values to the driver's tls parameter.
var tlsModes = map[string]string{
	"":            "",
	"disabled":    "",
	"preferred":   "preferred",
	"required":    "true",
	"skip-verify": "skip-verify",
	"custom":      customTLSName,
}

// ConnectionConfig says where the digest reader connects to.
type ConnectionConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	Socket   string
	TLSMode  string // "", "disabled", "preferred", "required", "skip-verify", "custom"
	TLSCA    string // CA bundle for TLSMode "custom"
	Timeout  time.Duration
}

// driverConfig translates cfg into the driver's configuration. The
// database defaults to performance_schema, where the digests live.
func (cfg ConnectionConfig) driverConfig() (*mysqldriver.Config, error) {
	tlsName, ok := tlsModes[cfg.TLSMode]
	if !ok {
		return nil, fmt.Errorf("invalid TLS mode %q: valid values are disabled, preferred, required, skip-verify, custom", cfg.TLSMode)
	}

	dc := mysqldriver.NewConfig()
	dc.User = cfg.User
	dc.Passwd = cfg.Password
	if cfg.Socket != "" {
		dc.Net = "unix"
		dc.Addr = cfg.Socket
	} else {
		dc.Net = "tcp"
		dc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	}

	dc.DBName = cfg.Database
	if dc.DBName == "" {
		dc.DBName = "performance_schema"
	}

	dc.ParseTime = true
	dc.InterpolateParams = true
	dc.TLSConfig = tlsName

	dc.Timeout = cfg.Timeout
	if dc.Timeout <= 0 {
		dc.Timeout = DefaultTimeout
	}
	dc.ReadTimeout = dc.Timeout

	return dc, nil
}

// Connect opens a small pool against the server and checks it answers.
func Connect(ctx context.Context, cfg ConnectionConfig) (*sql.DB, error) {
	if cfg.TLSMode == "custom" {
		if cfg.TLSCA == "" {
			return nil, fmt.Errorf("--tls-ca is required when --tls=custom")
		}
		if err := registerCustomTLS(cfg.TLSCA); err != nil {
			return nil, fmt.Errorf("TLS setup failed: %w", err)
		}
	}

	dc, err := cfg.driverConfig()
	if err != nil {
		return nil, err
	}
	connector, err := mysqldriver.NewConnector(dc)
	if err != nil {
		return nil, fmt.Errorf("invalid connection settings: %w", err)
	}

	db := sql.OpenDB(connector)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connection failed: %w", err)
	}

	// digest runs its queries one after another
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)

	return db, nil
}

func registerCustomTLS(caPath string) error {
	pem, err := os.ReadFile(caPath)
	if err != nil {
		return fmt.Errorf("reading CA certificate %q: %w", caPath, err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return fmt.Errorf("no valid certificates found in %q", caPath)
	}

	return mysqldriver.RegisterTLSConfig(customTLSName, &tls.Config{RootCAs: pool})
}

// PromptPassword asks for the password on the terminal without echo. The
// prompt goes to w so that stdout stays clean for JSON output.
func PromptPassword(w io.Writer) string {
	fmt.Fprint(w, "Enter password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return ""
	}
	return string(password)
}
