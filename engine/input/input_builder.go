package input

// InputBuilderOption is a functional option used to configure an Input during construction.
type InputBuilderOption func(*input)

// WithBindings replaces the default key bindings.
//
// Parameters:
//   - bindings: the key bindings
//
// Returns:
//   - InputBuilderOption: a function that sets the bindings
func WithBindings(bindings Bindings) InputBuilderOption {
	return func(in *input) {
		in.bindings = bindings
	}
}
