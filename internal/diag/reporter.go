package diag

// Reporter: минимальный контракт получения отчётов от правил.
// Реализации: BagReporter (кладёт в Bag), NopReporter, Collector.
type Reporter interface {
	Report(r Report)
}

// BagReporter: адаптер, который пишет в *Bag, проставляя правило и severity.
type BagReporter struct {
	Bag      *Bag
	RuleID   string
	Severity Severity
	Filename string
}

func (r BagReporter) Report(rep Report) {
	if r.Bag == nil || r.Severity == SevOff {
		return
	}
	m := rep.ToMessage(r.RuleID, r.Severity)
	m.Filename = r.Filename
	r.Bag.Add(m)
}

// NopReporter drops every report.
type NopReporter struct{}

func (NopReporter) Report(Report) {}

// Collector keeps reports in arrival order.
type Collector struct {
	Reports []Report
}

func (c *Collector) Report(r Report) {
	c.Reports = append(c.Reports, r)
}
