package classifier

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// LogLevel selects which statements are logged because the classifier did
// not fully understand them.
type LogLevel int

const (
	LogNothing            LogLevel = iota // no statements are logged
	LogNonParsed                          // statements not parsed completely
	LogNonPartiallyParsed                 // statements not even partially parsed
	LogNonTokenized                       // statements not even recognised by keyword
)

// ArgLogUnrecognizedStatements is the option key for the log level.
const ArgLogUnrecognizedStatements = "log_unrecognized_statements"

func (l LogLevel) notice() string {
	switch l {
	case LogNonParsed:
		return "Statements that cannot be parsed completely are logged."
	case LogNonPartiallyParsed:
		return "Statements that cannot even be partially parsed are logged."
	case LogNonTokenized:
		return "Statements that cannot even be classified by keyword matching are logged."
	default:
		return ""
	}
}

// threshold returns the status below which a statement is logged.
func (l LogLevel) threshold() Status {
	switch l {
	case LogNonParsed:
		return Parsed
	case LogNonPartiallyParsed:
		return PartiallyParsed
	case LogNonTokenized:
		return Tokenized
	default:
		return Invalid
	}
}

// ParseOptions parses an argument string of the form
// "log_unrecognized_statements=N". The level falls back to LogNothing when
// the string cannot be used; the returned errors describe why and are
// meant to be logged as warnings.
func ParseOptions(args string) (LogLevel, []error) {
	args = strings.TrimSpace(args)
	if args == "" {
		return LogNothing, nil
	}

	key, value, ok := strings.Cut(args, "=")
	if !ok {
		return LogNothing, []error{fmt.Errorf("'%s' is not a recognized argument string", args)}
	}
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)

	if key != ArgLogUnrecognizedStatements {
		return LogNothing, []error{fmt.Errorf("'%s' is not a recognized argument", key)}
	}

	n, err := strconv.ParseInt(value, 0, 64)
	if err != nil || n < int64(LogNothing) || n > int64(LogNonTokenized) {
		return LogNothing, []error{fmt.Errorf("'%s' is not a number between %d and %d", value, LogNothing, LogNonTokenized)}
	}
	return LogLevel(n), nil
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithLogger sets the logger used for diagnostics.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Classifier) {
		c.log = log
	}
}

// WithLogLevel sets which unrecognised statements are logged.
func WithLogLevel(level LogLevel) Option {
	return func(c *Classifier) {
		c.level = level
	}
}

// WithArgs configures the classifier from an argument string; see
// ParseOptions. It takes precedence over WithLogLevel.
func WithArgs(args string) Option {
	return func(c *Classifier) {
		c.args = &args
	}
}

// WithRegisterer registers classification metrics with reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *Classifier) {
		c.registerer = reg
	}
}
