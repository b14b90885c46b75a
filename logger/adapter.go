package logger

// Std adapts the package-level logger to the interfaces.Logger contract so
// that components can take a logger as a dependency instead of reaching for
// the global.
type Std struct{}

func (Std) Info(msg string, args ...any)  { Info(msg, args...) }
func (Std) Warn(msg string, args ...any)  { Warn(msg, args...) }
func (Std) Error(msg string, args ...any) { Error(msg, args...) }
func (Std) Fatal(msg string, args ...any) { Fatal(msg, args...) }
