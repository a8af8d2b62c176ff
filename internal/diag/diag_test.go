package diag

import (
	"encoding/json"
	"strings"
	"testing"
)

func msg(file, rule string, sev Severity, line, col uint32) Message {
	return Message{RuleID: rule, Severity: sev, Filename: file, Line: line, Column: col, EndLine: line, EndColumn: col + 1, Message: rule}
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in      string
		want    Severity
		wantErr bool
	}{
		{"off", SevOff, false},
		{"0", SevOff, false},
		{"warn", SevWarning, false},
		{"Warning", SevWarning, false},
		{"1", SevWarning, false},
		{"error", SevError, false},
		{" 2 ", SevError, false},
		{"fatal", SevOff, true},
	}
	for _, tt := range tests {
		got, err := ParseSeverity(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseSeverity(%q) err = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseSeverity(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMessageJSON(t *testing.T) {
	m := Report{Message: "bad", Loc: Loc{Start: LineCol{Line: 2, Column: 4}, End: LineCol{Line: 2, Column: 9}}}.
		ToMessage("@x/no-eval-usage", SevError)
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	s := string(data)
	for _, want := range []string{`"severity":"error"`, `"ruleId":"@x/no-eval-usage"`, `"line":2`, `"column":5`, `"endColumn":10`} {
		if !strings.Contains(s, want) {
			t.Errorf("expected %s in %s", want, s)
		}
	}
}

func TestBagLimitAndErrors(t *testing.T) {
	b := NewBag(2)
	if !b.Add(msg("a", "r1", SevWarning, 1, 0)) || !b.Add(msg("a", "r2", SevWarning, 1, 0)) {
		t.Fatal("expected first two adds to succeed")
	}
	if b.Add(msg("a", "r3", SevError, 1, 0)) {
		t.Fatal("expected add over the limit to fail")
	}
	if b.HasErrors() || !b.HasWarnings() {
		t.Fatal("unexpected severity summary")
	}
	other := NewBag(0)
	other.Add(msg("b", "r4", SevError, 3, 0))
	b.Merge(other)
	if b.Len() != 3 || !b.HasErrors() {
		t.Fatalf("Merge: len=%d errors=%v", b.Len(), b.HasErrors())
	}
}

func TestBagSortAndDedup(t *testing.T) {
	b := NewBag(0)
	b.AddAll([]Message{
		msg("b.js", "r1", SevWarning, 1, 0),
		msg("a.js", "r2", SevWarning, 5, 0),
		msg("a.js", "r1", SevWarning, 2, 3),
		msg("a.js", "r3", SevError, 2, 3),
		msg("a.js", "r1", SevWarning, 2, 3),
	})
	b.Sort()
	b.Dedup()
	var got []string
	for _, m := range b.Items() {
		got = append(got, m.Filename+":"+m.RuleID)
	}
	want := "a.js:r3 a.js:r1 a.js:r2 b.js:r1"
	if strings.Join(got, " ") != want {
		t.Fatalf("got %v, want %s", got, want)
	}
}

func TestFlatten(t *testing.T) {
	if out := Flatten(nil); out == nil || len(out) != 0 {
		t.Fatalf("Flatten(nil) = %#v", out)
	}
	out := Flatten([][]Message{
		{msg("x", "a", SevWarning, 1, 0)},
		nil,
		{msg("x", "b", SevWarning, 1, 0), msg("x", "c", SevWarning, 1, 0)},
	})
	if len(out) != 3 || out[0].RuleID != "a" || out[2].RuleID != "c" {
		t.Fatalf("unexpected flatten result %+v", out)
	}
}

func TestBagReporter(t *testing.T) {
	b := NewBag(0)
	rep := Report{Message: "m", Loc: Loc{Start: LineCol{1, 2}, End: LineCol{1, 5}}}
	BagReporter{Bag: b, RuleID: "r", Severity: SevOff}.Report(rep)
	if b.Len() != 0 {
		t.Fatal("off rules must not report")
	}
	BagReporter{Bag: b, RuleID: "r", Severity: SevWarning, Filename: "f.js"}.Report(rep)
	if b.Len() != 1 {
		t.Fatal("expected one message")
	}
	m := b.Items()[0]
	if m.Filename != "f.js" || m.Line != 1 || m.Column != 3 || m.EndColumn != 6 {
		t.Fatalf("unexpected message %+v", m)
	}

	var c Collector
	c.Report(rep)
	NopReporter{}.Report(rep)
	if len(c.Reports) != 1 {
		t.Fatal("collector should keep reports")
	}
}
