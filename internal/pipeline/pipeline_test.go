package pipeline

import (
	"strings"
	"testing"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type video struct {
	ID          uint64
	OwnerID     uint64
	Title       string
	Description string
}

// dryRunDB 只生成SQL，不连接数据库
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "test:test@tcp(127.0.0.1:3306)/vidtube?charset=utf8mb4&parseTime=True",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	if err != nil {
		t.Fatalf("open dry run db: %v", err)
	}
	return db
}

func TestNewRejectsOutOfOrderStages(t *testing.T) {
	if _, err := New(Limit{N: 5}, Match{}); err == nil {
		t.Fatal("match after limit must be rejected")
	}
	if _, err := New(Project{Fields: []string{"id"}}, Sort{Field: "id"}); err == nil {
		t.Fatal("sort after project must be rejected")
	}
	if _, err := New(Match{}, nil); err == nil {
		t.Fatal("nil stage must be rejected")
	}
	p, err := New(Match{}, Sort{Field: "title"}, Sort{Field: "id"}, Skip{N: 10}, Limit{N: 5}, Project{Fields: []string{"id"}})
	if err != nil {
		t.Fatalf("ordered pipeline: %v", err)
	}
	if p.Len() != 6 {
		t.Fatalf("expected 6 stages got %d", p.Len())
	}
}

func TestThenDoesNotMutateOriginal(t *testing.T) {
	base, err := New(Match{Conditions: []Condition{Eq("owner_id", 1)}})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	a, _ := base.Then(Limit{N: 1})
	b, _ := base.Then(Sort{Field: "title"})
	if base.Len() != 1 || a.Len() != 2 || b.Len() != 2 {
		t.Fatalf("unexpected lengths %d %d %d", base.Len(), a.Len(), b.Len())
	}
	if _, ok := a.Stages()[1].(Limit); !ok {
		t.Fatal("branch a should end with limit")
	}
	if _, ok := b.Stages()[1].(Sort); !ok {
		t.Fatal("branch b should end with sort")
	}
}

func TestApplyBuildsSQL(t *testing.T) {
	db := dryRunDB(t)
	p, err := New(
		Match{Conditions: []Condition{
			ContainsFold("title", "Rust"),
			ContainsFold("description", "Rust"),
			Eq("owner_id", uint64(3)),
		}},
		Sort{Field: "title", Desc: true},
		Sort{Field: "id"},
		Skip{N: 10},
		Limit{N: 5},
	)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	var rows []video
	stmt := p.Apply(db.Table("videos")).Find(&rows).Statement
	sql := stmt.SQL.String()

	for _, fragment := range []string{
		"LOWER(`title`) LIKE ?",
		"LOWER(`description`) LIKE ?",
		"`owner_id` = ?",
		"ORDER BY `title` DESC,`id`",
		"LIMIT",
		"OFFSET",
	} {
		if !strings.Contains(sql, fragment) {
			t.Fatalf("expected %q in %s", fragment, sql)
		}
	}
	if strings.Index(sql, "WHERE") > strings.Index(sql, "ORDER BY") {
		t.Fatalf("filter must come before sort: %s", sql)
	}

	found := 0
	for _, v := range stmt.Vars {
		if v == "%rust%" {
			found++
		}
	}
	if found != 2 {
		t.Fatalf("expected lower-cased pattern twice in vars %v", stmt.Vars)
	}
}

func TestEscapeLike(t *testing.T) {
	if got := escapeLike(`100%_off\`); got != `100\%\_off\\` {
		t.Fatalf("unexpected escape result %q", got)
	}
}

func TestZeroSkipAndLimitAreNoops(t *testing.T) {
	db := dryRunDB(t)
	p, _ := New(Skip{}, Limit{})
	var rows []video
	sql := p.Apply(db.Table("videos")).Find(&rows).Statement.SQL.String()
	if strings.Contains(sql, "LIMIT") || strings.Contains(sql, "OFFSET") {
		t.Fatalf("zero skip/limit should not paginate: %s", sql)
	}
}
