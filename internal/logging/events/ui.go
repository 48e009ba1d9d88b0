package events

import "github.com/atomicstack/winadmin/internal/logging"

type UITracer struct{}

type FilterTracer struct{}

type CommandTracer struct{}

var (
	UI      = UITracer{}
	Filter  = FilterTracer{}
	Command = CommandTracer{}
)

func (UITracer) Select(section, item string) {
	logging.Trace("ui.select", map[string]interface{}{"section": section, "item": item})
}

func (UITracer) Cursor(section string, cursor int) {
	logging.Trace("ui.cursor", map[string]interface{}{"section": section, "cursor": cursor})
}

func (UITracer) Mode(from, to string) {
	logging.Trace("ui.mode", map[string]interface{}{"from": from, "to": to})
}

func (FilterTracer) Changed(section, filter string) {
	logging.Trace("filter.change", map[string]interface{}{"section": section, "filter": filter})
}

func (FilterTracer) Cleared(section string) {
	logging.Trace("filter.clear", map[string]interface{}{"section": section})
}

func (CommandTracer) Queue(id, label string) {
	logging.Trace("command.queue", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Skip(id, label string) {
	logging.Trace("command.skip", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Result(id, label, state string) {
	logging.Trace("command.result", map[string]interface{}{"id": id, "label": label, "state": state})
}
