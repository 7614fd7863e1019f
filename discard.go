package btevict

// discard frees page and, if it is internal, every child edge not left
// on disk (spec.md section 4.7). Those children are by construction
// the ones excl locked for merging: they were absorbed by
// reconciliation's output and are never unlocked back to MEM, so the
// recursion terminates naturally without needing its own visited set.
func discard(page *Page, hooks Hooks) error {
	if page.Type.IsInternal() {
		for i := range page.Children {
			ref := &page.Children[i]
			if ref.State() == StateDisk {
				continue
			}
			if child := ref.page.Load(); child != nil {
				if err := discard(child, hooks); err != nil {
					return err
				}
			}
		}
	}
	if page.modify != nil {
		if err := hooks.TrackWrapup(page); err != nil {
			return err
		}
	}
	hooks.PageOut(page)
	return nil
}
