package output

import (
	"io"

	"github.com/nethalo/sqlclass/internal/classifier"
	"github.com/nethalo/sqlclass/internal/mysql"
)

// Result is one classified statement of a batch.
type Result struct {
	SQL    string
	Record *classifier.Record
}

// DigestReport is one statement digest together with the classification of
// its sample text.
type DigestReport struct {
	Digest  mysql.Digest
	Record  *classifier.Record
	Warning string
}

// Renderer defines the output interface.
type Renderer interface {
	RenderRecord(sql string, rec *classifier.Record)
	RenderBatch(results []Result)
	RenderDigests(server *mysql.ServerInfo, reports []DigestReport)
}

// NewRenderer creates a renderer for the given format.
func NewRenderer(format string, w io.Writer) Renderer {
	switch format {
	case "json":
		return &JSONRenderer{w: w}
	case "markdown":
		return &MarkdownRenderer{w: w}
	case "plain":
		return &PlainRenderer{w: w}
	default:
		return &TextRenderer{w: w}
	}
}
