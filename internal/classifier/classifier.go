// Package classifier determines what a single SQL statement does: whether
// it reads or writes, its principal operation, the tables, databases and
// columns it touches and the routing hints a proxy needs. Statements are
// parsed with the vitess MySQL grammar; when the grammar rejects a
// statement the classification degrades to a partial parse of its prefix
// and finally to the leading keywords.
package classifier

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"vitess.io/vitess/go/vt/sqlparser"
)

// maxLoggedStatement bounds the statement text echoed in diagnostics.
const maxLoggedStatement = 512

// Classifier classifies statements. All its fields are set by New and never
// written afterwards, so one Classifier may be shared by many goroutines.
type Classifier struct {
	parser *sqlparser.Parser
	log    zerolog.Logger
	level  LogLevel

	args       *string
	registerer prometheus.Registerer
	metrics    *metrics
}

// New returns a Classifier configured by opts.
func New(opts ...Option) (*Classifier, error) {
	c := &Classifier{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(c)
	}

	if c.args != nil {
		level, warnings := ParseOptions(*c.args)
		for _, w := range warnings {
			c.log.Warn().Err(w).Msg("ignoring classifier argument")
		}
		c.level = level
	}
	if c.level < LogNothing || c.level > LogNonTokenized {
		return nil, fmt.Errorf("invalid log level %d", c.level)
	}

	parser, err := sqlparser.New(sqlparser.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to create SQL parser: %w", err)
	}
	c.parser = parser

	if c.registerer != nil {
		m, err := newMetrics(c.registerer)
		if err != nil {
			return nil, err
		}
		c.metrics = m
	}

	if notice := c.level.notice(); notice != "" {
		c.log.Info().Msg(notice)
	}
	return c, nil
}

// LogLevel returns the active diagnostics level.
func (c *Classifier) LogLevel() LogLevel { return c.level }

// Classify classifies one statement. It never fails; how much was
// understood is reported by the record's Status.
func (c *Classifier) Classify(sql string) (rec *Record) {
	start := time.Now()
	defer func() {
		// The grammar's splitter and tokenizer can panic on some malformed
		// input. Such a statement is Invalid.
		if r := recover(); r != nil {
			c.log.Error().Interface("panic", r).Str("statement", preview(sql)).
				Msg("Parsing the statement failed unexpectedly")
			rec = newRecord()
		}
		c.metrics.observe(rec, time.Since(start))
	}()
	return c.classify(sql)
}

func (c *Classifier) classify(sql string) *Record {
	rec := newRecord()

	if strings.TrimSpace(sql) == "" {
		c.log.Debug().Msg("empty statement")
		return rec
	}

	if isCommentOnly(sql) {
		rec.parsed(TypeRead, OpUndefined)
		return rec
	}

	if pieces, err := c.parser.SplitStatementToPieces(sql); err == nil && len(pieces) > 1 {
		if c.level > LogNothing {
			c.log.Warn().
				Int("statements", len(pieces)).
				Str("statement", preview(sql)).
				Msg("Multiple statements in one buffer cannot be classified")
		}
		return rec
	}

	w := &walker{rec: rec, log: c.log}
	scanKeywords(c.parser, sql, rec)

	if !c.prepass(sql, w) {
		c.parse(sql, w)
	}

	if rec.types&TypePrepareNamedStmt != 0 && rec.preparableStmt != "" {
		inner := c.classify(rec.preparableStmt)
		rec.prepareOperation = inner.operation
	}

	return rec
}

// parse runs the grammar over sql and dispatches the statement hooks,
// falling back to the statement prefix when the grammar fails.
func (c *Classifier) parse(sql string, w *walker) {
	rec := w.rec

	stmt, err := c.parser.Parse(sql)
	switch {
	case err == nil:
		w.dispatch(stmt)
		if rec.status == Parsed && !fullyParsed(stmt) {
			rec.setStatus(PartiallyParsed)
		}
		c.logParsed(rec, sql)

	case errors.Is(err, sqlparser.ErrEmpty):
		if rec.status == Invalid {
			rec.parsed(TypeRead, OpUndefined)
		}

	default:
		c.parsePrefix(sql, err, w)
		c.logFailed(rec, sql, err)
	}
}

var reErrorPosition = regexp.MustCompile(`(?s)at position (\d+)(?: near '(.*)')?`)

// maxPrefixAttempts bounds how often a failing prefix is cut back again.
const maxPrefixAttempts = 4

// parsePrefix classifies the part of sql in front of the token the grammar
// choked on. A prefix that fails as well is cut back at its own error.
func (c *Classifier) parsePrefix(sql string, parseErr error, w *walker) {
	text, err := sql, parseErr
	for i := 0; i < maxPrefixAttempts; i++ {
		prefix := errorPrefix(text, err)
		if prefix == "" {
			return
		}

		stmt, perr := c.parser.Parse(prefix)
		if perr != nil {
			text, err = prefix, perr
			continue
		}

		rec := w.rec
		keywordTypes, keywordStatus := rec.types, rec.status
		if !w.dispatch(stmt) {
			rec.types, rec.status = keywordTypes, keywordStatus
			return
		}
		if rec.hasNamesOrFields() {
			rec.setStatus(PartiallyParsed)
		} else {
			rec.setStatus(Tokenized)
		}
		return
	}
}

// errorPrefix returns the text in front of the token a syntax error points
// at, or "" when no shorter statement remains. The reported position is one
// past the end of that token; without a token the input ended early and the
// last word is dropped.
func errorPrefix(text string, err error) string {
	m := reErrorPosition.FindStringSubmatch(err.Error())
	if m == nil {
		return ""
	}
	pos, convErr := strconv.Atoi(m[1])
	if convErr != nil || pos <= 0 {
		return ""
	}
	end := min(pos-1, len(text))

	var cut int
	if near := m[2]; near != "" {
		cut = strings.LastIndex(text[:end], near)
		if cut < 0 {
			cut = end - len(near)
		}
	} else {
		cut = strings.LastIndexAny(strings.TrimRight(text[:end], " \t\r\n;"), " \t\r\n")
	}
	if cut <= 0 || cut >= len(text) {
		return ""
	}
	return strings.TrimSpace(text[:cut])
}

func (c *Classifier) shouldLog(rec *Record) bool {
	return c.level > LogNothing && rec.status < c.level.threshold()
}

func (c *Classifier) logFailed(rec *Record, sql string, err error) {
	if !c.shouldLog(rec) {
		return
	}

	var msg string
	switch rec.status {
	case Tokenized:
		msg = "Statement was classified only based on keywords"
	case PartiallyParsed, Parsed:
		msg = "Statement was only partially parsed"
	default:
		msg = "Statement was neither parsed nor recognized from keywords"
	}
	c.log.Warn().Err(err).Str("statement", preview(sql)).Msg(msg)
}

func (c *Classifier) logParsed(rec *Record, sql string) {
	if c.level == LogNothing {
		return
	}

	switch {
	case rec.status == Tokenized:
		c.log.Warn().Str("statement", preview(sql)).
			Msg("Statement was classified only based on keywords, even though the statement was parsed")
	case rec.status < PartiallyParsed:
		c.log.Warn().Str("statement", preview(sql)).
			Msg("Statement was parsed, but not classified")
	}
}

// preview shortens sql for logging.
func preview(sql string) string {
	if len(sql) <= maxLoggedStatement {
		return sql
	}
	return sql[:maxLoggedStatement] + "..."
}
