package diag

import (
	"fmt"
	"sort"
)

type Bag struct {
	items []Message
	max   int
}

// NewBag creates a bag holding at most max messages; max <= 0 means no limit.
func NewBag(max int) *Bag {
	capacity := max
	if capacity <= 0 {
		capacity = 16
	}
	return &Bag{
		items: make([]Message, 0, capacity),
		max:   max,
	}
}

// Add добавляет сообщение, учитывая лимит.
// Возвращает false, если сообщение не добавлено (достигнут лимит).
func (b *Bag) Add(m Message) bool {
	if b.max > 0 && len(b.items) >= b.max {
		return false
	}
	b.items = append(b.items, m)
	return true
}

// AddAll adds messages until the limit is reached and returns how many were kept.
func (b *Bag) AddAll(ms []Message) int {
	n := 0
	for _, m := range ms {
		if !b.Add(m) {
			break
		}
		n++
	}
	return n
}

// HasErrors возвращает true, если есть хотя бы одно сообщение с Severity >= Error
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// HasWarnings возвращает true, если есть хотя бы одно сообщение с Severity >= Warning
func (b *Bag) HasWarnings() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevWarning {
			return true
		}
	}
	return false
}

// длина
func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает read-only slice сообщений.
// ВАЖНО: не модифицируйте возвращаемый срез! (он указывает на внутренний массив Bag)
func (b *Bag) Items() []Message {
	return b.items
}

// Merge объединяет сообщения из другого Bag.
// Снимает лимит, если нужно вместить все элементы.
func (b *Bag) Merge(other *Bag) {
	if b.max > 0 && len(b.items)+len(other.items) > b.max {
		b.max = len(b.items) + len(other.items)
	}
	b.items = append(b.items, other.items...)
}

// Sort сортирует сообщения по: file, start, end, severity (desc), rule (asc)
// для стабильного и детерминированного порядка вывода.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		mi, mj := b.items[i], b.items[j]
		if mi.Filename != mj.Filename {
			return mi.Filename < mj.Filename
		}
		if mi.Line != mj.Line {
			return mi.Line < mj.Line
		}
		if mi.Column != mj.Column {
			return mi.Column < mj.Column
		}
		if mi.EndLine != mj.EndLine {
			return mi.EndLine < mj.EndLine
		}
		if mi.EndColumn != mj.EndColumn {
			return mi.EndColumn < mj.EndColumn
		}
		// по severity (по убыванию: Error > Warning)
		if mi.Severity != mj.Severity {
			return mi.Severity > mj.Severity
		}
		return mi.RuleID < mj.RuleID
	})
}

// простая дедупликация (по RuleID+Loc+Message)
func (b *Bag) Dedup() {
	seen := make(map[string]bool)
	newitems := make([]Message, 0, len(b.items))
	for _, m := range b.items {
		key := fmt.Sprintf("%s|%s|%s|%s", m.Filename, m.RuleID, m.Loc(), m.Message)
		if seen[key] {
			continue
		}
		seen[key] = true
		newitems = append(newitems, m)
	}
	b.items = newitems
}

// Flatten concatenates per-virtual-file message batches in order. It never
// returns nil.
func Flatten(batches [][]Message) []Message {
	n := 0
	for _, batch := range batches {
		n += len(batch)
	}
	out := make([]Message, 0, n)
	for _, batch := range batches {
		out = append(out, batch...)
	}
	return out
}
