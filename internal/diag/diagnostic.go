package diag

import "fmt"

// LineCol is a report position: 1-based line, 0-based column.
type LineCol struct {
	Line   uint32 `json:"line"`
	Column uint32 `json:"column"`
}

// Loc is a start/end range in host coordinates.
type Loc struct {
	Start LineCol `json:"start"`
	End   LineCol `json:"end"`
}

func (l Loc) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", l.Start.Line, l.Start.Column, l.End.Line, l.End.Column)
}

// Report is what a rule hands to the host: a message and where it applies.
type Report struct {
	Message string
	Loc     Loc
}

// Message is a finished host message, after the host has attached the rule
// id and its configured severity. Lines and columns are both 1-based.
type Message struct {
	RuleID    string   `json:"ruleId"`
	Severity  Severity `json:"severity"`
	Message   string   `json:"message"`
	Filename  string   `json:"filename,omitempty"`
	Line      uint32   `json:"line"`
	Column    uint32   `json:"column"`
	EndLine   uint32   `json:"endLine"`
	EndColumn uint32   `json:"endColumn"`
}

// ToMessage stamps r with the rule id and severity and shifts columns to
// 1-based.
func (r Report) ToMessage(ruleID string, sev Severity) Message {
	return Message{
		RuleID:    ruleID,
		Severity:  sev,
		Message:   r.Message,
		Line:      r.Loc.Start.Line,
		Column:    r.Loc.Start.Column + 1,
		EndLine:   r.Loc.End.Line,
		EndColumn: r.Loc.End.Column + 1,
	}
}

// Loc returns the message range in message (1-based) coordinates.
func (m Message) Loc() Loc {
	return Loc{
		Start: LineCol{Line: m.Line, Column: m.Column},
		End:   LineCol{Line: m.EndLine, Column: m.EndColumn},
	}
}
