package events

import "github.com/atomicstack/winadmin/internal/logging"

type TargetTracer struct{}

type SectionTracer struct{}

type LayoutTracer struct{}

var (
	Target  = TargetTracer{}
	Section = SectionTracer{}
	Layout  = LayoutTracer{}
)

func (TargetTracer) Submit(value string) {
	logging.Trace("target.submit", map[string]interface{}{"target": value})
}

func (TargetTracer) Set(value string) {
	logging.Trace("target.set", map[string]interface{}{"target": value})
}

func (TargetTracer) Rejected(value string, err error) {
	logging.Trace("target.rejected", map[string]interface{}{"target": value, "error": errString(err)})
}

func (SectionTracer) Switch(from, to string) {
	logging.Trace("section.switch", map[string]interface{}{"from": from, "to": to})
}

func (LayoutTracer) Set(section string, entries int) {
	logging.Trace("layout.set", map[string]interface{}{"section": section, "entries": entries})
}

func (LayoutTracer) Invalid(section string, err error) {
	logging.Trace("layout.invalid", map[string]interface{}{"section": section, "error": errString(err)})
}

func (LayoutTracer) Persisted(section, backend string) {
	logging.Trace("layout.persisted", map[string]interface{}{"section": section, "backend": backend})
}

func (LayoutTracer) Loaded(backend string, sections int) {
	logging.Trace("layout.loaded", map[string]interface{}{"backend": backend, "sections": sections})
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
