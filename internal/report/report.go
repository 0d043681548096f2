package report

import "fmt"

// Reporter receives status updates and warnings from the pipeline and
// the enricher. Implementations surface them to an operator; the
// default discards them so core logic never depends on process-wide
// logging state.
type Reporter interface {
	Statusf(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Nop discards all events.
type Nop struct{}

func (Nop) Statusf(string, ...any) {}
func (Nop) Warnf(string, ...any)   {}
func (Nop) Errorf(string, ...any)  {}

// Console prints events to stdout.
type Console struct{}

func (Console) Statusf(format string, args ...any) {
	fmt.Printf(format+"\n", args...)
}

func (Console) Warnf(format string, args ...any) {
	fmt.Printf("⚠️  "+format+"\n", args...)
}

func (Console) Errorf(format string, args ...any) {
	fmt.Printf("❌ "+format+"\n", args...)
}
