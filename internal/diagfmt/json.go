package diagfmt

import (
	"encoding/json"
	"io"

	"lwcgraph/internal/diag"
)

// FileJSON представляет сообщения одного файла
type FileJSON struct {
	Path         string         `json:"path"`
	Messages     []diag.Message `json:"messages"`
	ErrorCount   int            `json:"errorCount"`
	WarningCount int            `json:"warningCount"`
}

// MessagesOutput представляет корневую структуру JSON вывода
type MessagesOutput struct {
	Files []FileJSON `json:"files"`
	Count int        `json:"count"`
}

// BuildMessagesOutput формирует структуру JSON-вывода без сериализации.
func BuildMessagesOutput(bag *diag.Bag, opts JSONOpts) MessagesOutput {
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	out := MessagesOutput{Files: []FileJSON{}, Count: len(items)}
	for _, group := range groupByFile(items) {
		f := FileJSON{
			Path:     formatPath(group[0].Filename, opts.PathMode, opts.BaseDir),
			Messages: make([]diag.Message, len(group)),
		}
		for i, m := range group {
			m.Filename = ""
			f.Messages[i] = m
			if m.Severity >= diag.SevError {
				f.ErrorCount++
			} else {
				f.WarningCount++
			}
		}
		out.Files = append(out.Files, f)
	}
	return out
}

// JSON форматирует сообщения в JSON формат.
func JSON(w io.Writer, bag *diag.Bag, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildMessagesOutput(bag, opts))
}
