package classifier

import (
	"bytes"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/go-mysql-org/go-mysql/mysql"
	"github.com/rs/zerolog"

	"github.com/nethalo/sqlclass/internal/buffer"
)

func TestGetCachedOrClassify_AttachesOnce(t *testing.T) {
	c := newTestClassifier(t)
	buf := buffer.NewQuery("SELECT a FROM t")

	first := c.GetCachedOrClassify(buf)
	second := c.GetCachedOrClassify(buf)
	if first != second {
		t.Error("second call classified again instead of using the attached record")
	}

	data, ok := buf.Attached(buffer.SlotClassification)
	if !ok || data.(*Record) != first {
		t.Error("record was not attached to the buffer")
	}
}

func TestGetCachedOrClassify_Concurrent(t *testing.T) {
	c := newTestClassifier(t)
	buf := buffer.NewQuery("UPDATE t SET a = 1")

	records := make([]*Record, 16)
	var wg sync.WaitGroup
	for i := range records {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			records[i] = c.GetCachedOrClassify(buf)
		}(i)
	}
	wg.Wait()

	for i, rec := range records {
		if rec != records[0] {
			t.Fatalf("goroutine %d got a different record", i)
		}
	}
}

func TestGetCachedOrClassify_PrepareBuffer(t *testing.T) {
	c := newTestClassifier(t)
	buf := buffer.NewPrepare("DELETE FROM t WHERE id = ?")

	if op := c.Operation(buf); op != OpDelete {
		t.Errorf("Operation = %v, want DELETE", op)
	}
}

func TestGetCachedOrClassify_NotSQL(t *testing.T) {
	var out bytes.Buffer
	c := newTestClassifier(t, WithLogger(zerolog.New(&out)))
	buf := &buffer.Buffer{Command: mysql.COM_PING}

	if st := c.Status(buf); st != Invalid {
		t.Errorf("Status = %v, want INVALID", st)
	}
	if !strings.Contains(out.String(), "does not contain a COM_QUERY") {
		t.Errorf("missing error log: %s", out.String())
	}
}

func TestAccessors(t *testing.T) {
	c := newTestClassifier(t)
	buf := buffer.NewQuery("SELECT t1.a FROM db1.t1 WHERE t1.b = 2")

	if got := c.Status(buf); got != Parsed {
		t.Errorf("Status = %v", got)
	}
	if got := c.TypeMask(buf); got != TypeRead {
		t.Errorf("TypeMask = %v", got)
	}
	if got := c.Operation(buf); got != OpSelect {
		t.Errorf("Operation = %v", got)
	}
	if got := c.TableNames(buf, true); !reflect.DeepEqual(got, []string{"db1.t1"}) {
		t.Errorf("TableNames = %v", got)
	}
	if got := c.DatabaseNames(buf); !reflect.DeepEqual(got, []string{"db1"}) {
		t.Errorf("DatabaseNames = %v", got)
	}
	if !c.HasClause(buf) {
		t.Error("HasClause = false")
	}
	if !c.IsRealQuery(buf) {
		t.Error("IsRealQuery = false")
	}
	if c.IsDropTable(buf) {
		t.Error("IsDropTable = true")
	}
	if got := c.CreatedTableName(buf); got != "" {
		t.Errorf("CreatedTableName = %q", got)
	}
	if got := len(c.FieldInfos(buf)); got != 2 {
		t.Errorf("len(FieldInfos) = %d, want 2", got)
	}
	if got := c.PrepareName(buf); got != "" {
		t.Errorf("PrepareName = %q", got)
	}
	if got := c.PrepareOperation(buf); got != OpUndefined {
		t.Errorf("PrepareOperation = %v", got)
	}
}

func TestAccessors_InvalidStatement(t *testing.T) {
	var out bytes.Buffer
	c := newTestClassifier(t, WithLogger(zerolog.New(&out)))
	buf := buffer.NewQuery("SELECT 1; SELECT 2")

	if got := c.TypeMask(buf); got != 0 {
		t.Errorf("TypeMask = %v, want none", got)
	}
	if got := c.TableNames(buf, false); got != nil {
		t.Errorf("TableNames = %v, want nil", got)
	}
	if got := c.FieldInfos(buf); got != nil {
		t.Errorf("FieldInfos = %v, want nil", got)
	}
	if !strings.Contains(out.String(), "Parsing the query failed, cannot report query type") {
		t.Errorf("missing debug log: %s", out.String())
	}
}
