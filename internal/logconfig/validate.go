package logconfig

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Validate checks the structural invariants of a document: required sections,
// known levels and styles, and that every reference between sections resolves.
func Validate(doc Document) ValidationErrors {
	var errs ValidationErrors

	if doc.Formatters == nil {
		errs.Add("formatters", "section is required")
	}
	if doc.Handlers == nil {
		errs.Add("handlers", "section is required")
	}
	if doc.Loggers == nil {
		errs.Add("loggers", "section is required")
	}

	for _, name := range doc.FormatterNames() {
		f := doc.Formatters[name]
		field := "formatters." + name
		switch f.EffectiveStyle() {
		case StyleTemplate:
			if strings.TrimSpace(f.Format) == "" {
				errs.Add(field+".format", "is required for the template style")
			}
		case StyleText, StyleJSON:
		default:
			errs.Add(field+".style", "unknown style %q", f.Style)
		}
	}

	for _, name := range doc.HandlerNames() {
		h := doc.Handlers[name]
		field := "handlers." + name
		if strings.TrimSpace(string(h.Class)) == "" {
			errs.Add(field+".class", "is required")
		}
		if h.Class.FileBacked() {
			switch {
			case strings.TrimSpace(h.Filename) == "":
				errs.Add(field+".filename", "is required for %s handlers", h.Class)
			case !isLocalLeaf(h.Filename):
				errs.Add(field+".filename", "%q must stay inside the log directory", h.Filename)
			}
		}
		if _, err := ParseLevel(h.Level); err != nil {
			errs.Add(field+".level", "%v", err)
		}
		if h.Formatter != "" {
			if _, ok := doc.Formatters[h.Formatter]; !ok {
				errs.Add(field+".formatter", "references unknown formatter %q", h.Formatter)
			}
		}
	}

	for _, name := range doc.LoggerNames() {
		l := doc.Loggers[name]
		field := "loggers." + name
		if _, err := ParseLevel(l.Level); err != nil {
			errs.Add(field+".level", "%v", err)
		}
		for i, ref := range l.Handlers {
			if _, ok := doc.Handlers[ref]; !ok {
				errs.Add(fmt.Sprintf("%s.handlers[%d]", field, i), "references unknown handler %q", ref)
			}
		}
	}

	return errs
}

// isLocalLeaf reports whether name, with any leading separators dropped,
// resolves to a path inside the directory it is joined onto.
func isLocalLeaf(name string) bool {
	return filepath.IsLocal(strings.TrimLeft(name, `/`+string(filepath.Separator)))
}
