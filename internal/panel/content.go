package panel

// Content is the caller-supplied payload rendered inside a panel body.
// Render receives the body size in cells and returns the body text.
type Content interface {
	Render(width, height int) (string, error)
}

// ContentFunc adapts a plain function to Content.
type ContentFunc func(width, height int) (string, error)

// Render implements Content.
func (f ContentFunc) Render(width, height int) (string, error) {
	return f(width, height)
}

// Text is static content.
type Text string

// Render implements Content.
func (t Text) Render(int, int) (string, error) { return string(t), nil }
