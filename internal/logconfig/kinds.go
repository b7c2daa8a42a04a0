package logconfig

// SinkKind is the value of a handler's `class` tag.
type SinkKind string

const (
	KindFile           SinkKind = "file"
	KindRestrictedFile SinkKind = "restricted-file"
	KindVerboseFile    SinkKind = "verbose-file"
	KindConsole        SinkKind = "console"
	KindJournal        SinkKind = "journal"
	KindNull           SinkKind = "null"
)

// fileBackedKinds is the closed allow-list of kinds whose filename is
// rewritten into the log directory.
var fileBackedKinds = map[SinkKind]bool{
	KindFile:           true,
	KindRestrictedFile: true,
	KindVerboseFile:    true,
}

// builtinKinds are the kinds the logging package can construct without
// caller-provided factories.
var builtinKinds = map[SinkKind]bool{
	KindFile:           true,
	KindRestrictedFile: true,
	KindVerboseFile:    true,
	KindConsole:        true,
	KindJournal:        true,
	KindNull:           true,
}

// FileBacked reports whether handlers of this kind write to a path under the
// log directory.
func (k SinkKind) FileBacked() bool {
	return fileBackedKinds[k]
}

// Builtin reports whether k is one of the kinds shipped with this module.
// Anything else is a custom kind and must be registered by the caller.
func (k SinkKind) Builtin() bool {
	return builtinKinds[k]
}

// FileBackedKinds returns the file-backed kinds in a stable order.
func FileBackedKinds() []SinkKind {
	return []SinkKind{KindFile, KindRestrictedFile, KindVerboseFile}
}
