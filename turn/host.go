package turn

// Host is the framework side of the tree: it learns about every mount,
// evaluation and unmount so it can reconcile whatever it renders.
type Host interface {
	Mounted(c *Consumer)
	Rendered(c *Consumer)
	Unmounted(c *Consumer)
}

// NopHost ignores every callback.
type NopHost struct{}

func (NopHost) Mounted(*Consumer)   {}
func (NopHost) Rendered(*Consumer)  {}
func (NopHost) Unmounted(*Consumer) {}
