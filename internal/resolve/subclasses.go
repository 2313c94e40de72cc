package resolve

import "github.com/rocket-tycoon/rocketindex/internal/schema"

// Subclasses returns every symbol whose Parent is exactly qualified,
// deferring to the disk index's query; Mixins and Implements lists are not
// searched.
func (r *Resolver) Subclasses(qualified string) ([]schema.Symbol, error) {
	if r.Disk == nil {
		return nil, nil
	}
	return r.Disk.FindSubclasses(qualified)
}
