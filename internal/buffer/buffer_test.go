package buffer

import (
	"errors"
	"sync"
	"testing"

	"github.com/go-mysql-org/go-mysql/mysql"
)

func packet(cmd byte, sql string) []byte {
	n := len(sql) + 1
	pkt := []byte{byte(n), byte(n >> 8), byte(n >> 16), 0, cmd}
	return append(pkt, sql...)
}

func TestFromPacket(t *testing.T) {
	tests := []struct {
		name    string
		pkt     []byte
		cmd     byte
		sql     string
		wantErr error
	}{
		{
			name: "query",
			pkt:  packet(mysql.COM_QUERY, "SELECT 1"),
			cmd:  mysql.COM_QUERY,
			sql:  "SELECT 1",
		},
		{
			name: "prepare",
			pkt:  packet(mysql.COM_STMT_PREPARE, "SELECT ?"),
			cmd:  mysql.COM_STMT_PREPARE,
			sql:  "SELECT ?",
		},
		{
			name: "command only",
			pkt:  packet(mysql.COM_PING, ""),
			cmd:  mysql.COM_PING,
		},
		{
			name:    "header only",
			pkt:     []byte{1, 0, 0, 0},
			wantErr: ErrShortPacket,
		},
		{
			name:    "nil",
			wantErr: ErrShortPacket,
		},
		{
			name:    "length larger than buffer",
			pkt:     append([]byte{9, 0, 0, 0}, mysql.COM_QUERY, 'x'),
			wantErr: ErrPacketLength,
		},
		{
			name:    "trailing bytes",
			pkt:     append(packet(mysql.COM_QUERY, "SELECT 1"), 'x'),
			wantErr: ErrPacketLength,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := FromPacket(tt.pkt)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if buf.Command != tt.cmd {
				t.Errorf("Command = %d, want %d", buf.Command, tt.cmd)
			}
			if buf.SQL != tt.sql {
				t.Errorf("SQL = %q, want %q", buf.SQL, tt.sql)
			}
		})
	}
}

func TestFromPacket_LargeLength(t *testing.T) {
	sql := make([]byte, 70000)
	for i := range sql {
		sql[i] = 'a'
	}
	buf, err := FromPacket(packet(mysql.COM_QUERY, string(sql)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(buf.SQL) != len(sql) {
		t.Errorf("len(SQL) = %d, want %d", len(buf.SQL), len(sql))
	}
}

func TestIsSQL(t *testing.T) {
	if !NewQuery("SELECT 1").IsSQL() {
		t.Error("COM_QUERY is not SQL")
	}
	if !NewPrepare("SELECT 1").IsSQL() {
		t.Error("COM_STMT_PREPARE is not SQL")
	}
	if (&Buffer{Command: mysql.COM_INIT_DB}).IsSQL() {
		t.Error("COM_INIT_DB is SQL")
	}
}

func TestAttach(t *testing.T) {
	buf := NewQuery("SELECT 1")

	if _, ok := buf.Attached(SlotClassification); ok {
		t.Fatal("fresh buffer has attached data")
	}
	if !buf.Attach(SlotClassification, "first", nil) {
		t.Fatal("first Attach failed")
	}
	if buf.Attach(SlotClassification, "second", nil) {
		t.Error("second Attach replaced the data")
	}
	data, ok := buf.Attached(SlotClassification)
	if !ok || data != "first" {
		t.Errorf("Attached = %v %v, want first", data, ok)
	}
}

func TestRelease(t *testing.T) {
	buf := NewQuery("SELECT 1")

	var destroyed []any
	buf.Attach(SlotClassification, 42, func(v any) { destroyed = append(destroyed, v) })
	buf.Release()

	if len(destroyed) != 1 || destroyed[0] != 42 {
		t.Errorf("destroyed = %v, want [42]", destroyed)
	}
	if _, ok := buf.Attached(SlotClassification); ok {
		t.Error("data still attached after Release")
	}

	buf.Release()
	if len(destroyed) != 1 {
		t.Error("destructor ran twice")
	}
}

func TestAttach_Concurrent(t *testing.T) {
	buf := NewQuery("SELECT 1")

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if buf.Attach(SlotClassification, i, nil) {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	if wins != 1 {
		t.Errorf("%d goroutines attached, want exactly 1", wins)
	}
}
