package srv

import "context"

// cleanupService owns a resource that only needs releasing, such as a
// database handle.
type cleanupService struct {
	name    string
	cleanup func() error
}

func (c *cleanupService) Name() string { return c.name }

func (c *cleanupService) Start(context.Context) error { return nil }

func (c *cleanupService) Shutdown(context.Context) error {
	if c.cleanup == nil {
		return nil
	}
	return c.cleanup()
}

// NewCleanup wraps fn as a Service that runs it on shutdown.
func NewCleanup(name string, fn func() error) Service {
	return &cleanupService{name: name, cleanup: fn}
}
