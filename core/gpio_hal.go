package core

// Output is a single open-loop digital output: the shutter-release line or
// an indicator LED. Implementations are called from handler context and
// must not block.
type Output interface {
	// Set drives the output asserted (true) or de-asserted (false)
	Set(on bool) error
}

// Input is a sampled digital input such as a push button
type Input interface {
	// Get reads the current raw pin level
	Get() bool
}

// OutputFunc adapts a plain function to the Output interface
type OutputFunc func(on bool) error

// Set calls f(on)
func (f OutputFunc) Set(on bool) error {
	return f(on)
}

// InputFunc adapts a plain function to the Input interface
type InputFunc func() bool

// Get calls f()
func (f InputFunc) Get() bool {
	return f()
}

// nopOutput is used wherever the board has no line wired
type nopOutput struct{}

func (nopOutput) Set(bool) error { return nil }

func outputOrNop(o Output) Output {
	if o == nil {
		return nopOutput{}
	}
	return o
}
