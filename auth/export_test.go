package auth

// QueuedWaiters returns the queued callers' channels in queue order.
func QueuedWaiters(c *Coordinator) []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]any, len(c.queue))
	for i, ch := range c.queue {
		out[i] = ch
	}
	return out
}

// OnRelease calls fn with each queued caller's channel as it is released.
func OnRelease(c *Coordinator, fn func(waiter any)) {
	c.release = func(ch chan outcome, res outcome) {
		fn(ch)
		deliver(ch, res)
	}
}
