package classifier

import (
	"testing"
)

// Benchmark classification performance

func benchmarkClassify(b *testing.B, sql string) {
	c, err := New()
	if err != nil {
		b.Fatalf("New() error: %v", err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = c.Classify(sql)
	}
}

func BenchmarkClassify_SimpleSelect(b *testing.B) {
	benchmarkClassify(b, "SELECT * FROM users WHERE id = 1")
}

func BenchmarkClassify_JoinWithSubquery(b *testing.B) {
	benchmarkClassify(b, `SELECT u.id, u.name, COUNT(o.id)
		FROM users u
		JOIN orders o ON o.user_id = u.id
		WHERE u.status IN (SELECT status FROM active_statuses)
		GROUP BY u.id, u.name
		HAVING COUNT(o.id) > 3`)
}

func BenchmarkClassify_Update(b *testing.B) {
	benchmarkClassify(b, "UPDATE accounts SET balance = balance - 10 WHERE id = 42")
}

func BenchmarkClassify_KeywordFallback(b *testing.B) {
	benchmarkClassify(b, "SELECT FROM WHERE")
}

func BenchmarkClassify_Prepass(b *testing.B) {
	benchmarkClassify(b, "CREATE TABLE t2 AS SELECT * FROM t1")
}

func BenchmarkClassify_Parallel(b *testing.B) {
	c, err := New()
	if err != nil {
		b.Fatalf("New() error: %v", err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = c.Classify("SELECT a, b FROM t WHERE c = 1")
		}
	})
}
