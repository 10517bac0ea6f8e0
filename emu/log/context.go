package log

// A Context adds fields to every log entry, for example the current CPU
// program counter or the PPU beam position.
type Context interface {
	AddLogContext(entry *EntryZ)
}

var contexts []Context

// AddContext registers ctx, its fields are appended to all entries.
func AddContext(ctx Context) {
	contexts = append(contexts, ctx)
}

// RemoveContext unregisters ctx.
func RemoveContext(ctx Context) {
	for i, c := range contexts {
		if c == ctx {
			contexts = append(contexts[:i], contexts[i+1:]...)
			return
		}
	}
}
