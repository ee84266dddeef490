// Package pipeline 把“过滤 → 排序 → 跳过 → 截取 → 投影”这样的聚合查询表示成一串有类型的阶段，
// 声明的顺序就是语义上的执行顺序，顺序不对的管道在构造时就会被拒绝。
package pipeline

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type phase int

const (
	phaseMatch phase = iota
	phaseSort
	phaseSkip
	phaseLimit
	phaseProject
)

func (p phase) String() string {
	return [...]string{"match", "sort", "skip", "limit", "project"}[p]
}

// Stage 管道中的一个阶段，Apply 把自己翻译成gorm的查询条件
type Stage interface {
	phase() phase
	Apply(db *gorm.DB) *gorm.DB
}

type Op int

const (
	OpEq Op = iota
	// OpContainsFold 大小写不敏感的子串匹配
	OpContainsFold
)

type Condition struct {
	Field string
	Op    Op
	Value interface{}
}

func Eq(field string, value interface{}) Condition {
	return Condition{Field: field, Op: OpEq, Value: value}
}

func ContainsFold(field, substr string) Condition {
	return Condition{Field: field, Op: OpContainsFold, Value: substr}
}

// Match 所有条件之间是AND关系
type Match struct {
	Conditions []Condition
}

func (Match) phase() phase { return phaseMatch }

func (m Match) Apply(db *gorm.DB) *gorm.DB {
	for _, c := range m.Conditions {
		col := clause.Column{Name: c.Field}
		switch c.Op {
		case OpContainsFold:
			pattern := "%" + escapeLike(strings.ToLower(fmt.Sprint(c.Value))) + "%"
			db = db.Where(clause.Expr{SQL: "LOWER(?) LIKE ?", Vars: []interface{}{col, pattern}})
		default:
			db = db.Where(clause.Eq{Column: col, Value: c.Value})
		}
	}
	return db
}

// MySQL的LIKE默认用反斜杠转义
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

type Sort struct {
	Field string
	Desc  bool
}

func (Sort) phase() phase { return phaseSort }

func (s Sort) Apply(db *gorm.DB) *gorm.DB {
	return db.Order(clause.OrderByColumn{Column: clause.Column{Name: s.Field}, Desc: s.Desc})
}

type Skip struct {
	N int
}

func (Skip) phase() phase { return phaseSkip }

func (s Skip) Apply(db *gorm.DB) *gorm.DB {
	if s.N <= 0 {
		return db
	}
	return db.Offset(s.N)
}

type Limit struct {
	N int
}

func (Limit) phase() phase { return phaseLimit }

func (l Limit) Apply(db *gorm.DB) *gorm.DB {
	if l.N <= 0 {
		return db
	}
	return db.Limit(l.N)
}

// Project 只取出指定的列
type Project struct {
	Fields []string
}

func (Project) phase() phase { return phaseProject }

func (p Project) Apply(db *gorm.DB) *gorm.DB {
	if len(p.Fields) == 0 {
		return db
	}
	return db.Select(p.Fields)
}

// Pipeline 不可变，Then 返回新的管道
type Pipeline struct {
	stages []Stage
}

func New(stages ...Stage) (Pipeline, error) {
	var p Pipeline
	for _, s := range stages {
		next, err := p.Then(s)
		if err != nil {
			return Pipeline{}, err
		}
		p = next
	}
	return p, nil
}

// Then 追加一个阶段，阶段只能按 match → sort → skip → limit → project 的顺序出现
func (p Pipeline) Then(s Stage) (Pipeline, error) {
	if s == nil {
		return Pipeline{}, fmt.Errorf("pipeline: nil stage")
	}
	if n := len(p.stages); n > 0 && s.phase() < p.stages[n-1].phase() {
		return Pipeline{}, fmt.Errorf("pipeline: %s stage cannot follow %s stage", s.phase(), p.stages[n-1].phase())
	}
	stages := make([]Stage, len(p.stages), len(p.stages)+1)
	copy(stages, p.stages)
	return Pipeline{stages: append(stages, s)}, nil
}

func (p Pipeline) Stages() []Stage {
	out := make([]Stage, len(p.stages))
	copy(out, p.stages)
	return out
}

func (p Pipeline) Len() int {
	return len(p.stages)
}

// Apply 按声明顺序把每个阶段作用到查询上
func (p Pipeline) Apply(db *gorm.DB) *gorm.DB {
	for _, s := range p.stages {
		db = s.Apply(db)
	}
	return db
}

// Scope 方便和 db.Scopes(...) 组合使用
func (p Pipeline) Scope() func(*gorm.DB) *gorm.DB {
	return p.Apply
}
