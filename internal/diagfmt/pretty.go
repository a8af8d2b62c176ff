package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"lwcgraph/internal/diag"
)

const tabWidth = 4

// группировка разрядов в итоговой строке: "1,024 problems"
var summaryPrinter = message.NewPrinter(language.English)

type palette struct {
	path, pos, err, warn, rule, caret, summaryErr, summaryWarn *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		path:        color.New(color.Underline),
		pos:         color.New(color.Faint),
		err:         color.New(color.FgRed),
		warn:        color.New(color.FgYellow),
		rule:        color.New(color.Faint),
		caret:       color.New(color.FgRed, color.Bold),
		summaryErr:  color.New(color.FgRed, color.Bold),
		summaryWarn: color.New(color.FgYellow, color.Bold),
	}
	for _, c := range []*color.Color{p.path, p.pos, p.err, p.warn, p.rule, p.caret, p.summaryErr, p.summaryWarn} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Pretty форматирует сообщения в человекочитаемый вид, сгруппированные по файлу.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого файла печатает путь, затем строки:
//
//	<line>:<col>  <severity>  <message>  <rule>
//
// затем итог "N problems (E errors, W warnings)".
func Pretty(w io.Writer, bag *diag.Bag, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	items := bag.Items()
	var errors, warnings int
	sources := map[string][]string{}

	for _, group := range groupByFile(items) {
		if _, err := fmt.Fprintf(w, "\n%s\n", p.path.Sprint(formatPath(group[0].Filename, opts.PathMode, opts.BaseDir))); err != nil {
			return err
		}
		for _, m := range group {
			sev := p.warn.Sprint("warning")
			if m.Severity >= diag.SevError {
				sev = p.err.Sprint("error  ")
				errors++
			} else {
				warnings++
			}
			pos := fmt.Sprintf("%d:%d", m.Line, m.Column)
			if _, err := fmt.Fprintf(w, "  %s  %s  %s  %s\n", p.pos.Sprint(pad(pos, 7)), sev, m.Message, p.rule.Sprint(m.RuleID)); err != nil {
				return err
			}
			if opts.Context && opts.FS != nil {
				lines, ok := sources[m.Filename]
				if !ok {
					if text, err := opts.FS.ReadFile(m.Filename); err == nil {
						lines = strings.Split(text, "\n")
					}
					sources[m.Filename] = lines
				}
				if err := writeContext(w, p, lines, m); err != nil {
					return err
				}
			}
		}
	}

	if errors+warnings == 0 {
		return nil
	}
	summary := summaryPrinter.Sprintf("\n%d %s (%d %s, %d %s)\n",
		errors+warnings, plural(errors+warnings, "problem"),
		errors, plural(errors, "error"),
		warnings, plural(warnings, "warning"))
	if errors > 0 {
		summary = p.summaryErr.Sprint(summary)
	} else {
		summary = p.summaryWarn.Sprint(summary)
	}
	_, err := io.WriteString(w, summary)
	return err
}

// writeContext prints the source line of m with a caret run under the
// reported columns. Multi-line ranges are underlined to the end of the line.
func writeContext(w io.Writer, p palette, lines []string, m diag.Message) error {
	if m.Line == 0 || int(m.Line) > len(lines) {
		return nil
	}
	line := strings.TrimRight(lines[m.Line-1], "\r")
	runes := []rune(line)
	start := min(max(int(m.Column)-1, 0), len(runes))
	end := len(runes)
	if m.EndLine == m.Line {
		end = min(max(int(m.EndColumn)-1, start+1), len(runes))
	}

	indent := runewidth.StringWidth(expandTabs(string(runes[:start])))
	width := max(runewidth.StringWidth(expandTabs(string(runes[start:max(end, start)]))), 1)
	carets := "^" + strings.Repeat("~", width-1)
	_, err := fmt.Fprintf(w, "        | %s\n        | %s%s\n", expandTabs(line), strings.Repeat(" ", indent), p.caret.Sprint(carets))
	return err
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

func pad(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
