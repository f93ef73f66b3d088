package library

import "github.com/mesh-intelligence/booklib/pkg/types"

// UpdateItem writes changes to the row of ent and commits.
func (l *Library) UpdateItem(ent types.Entity, changes map[string]any) error {
	l.success = false
	if err := l.exec.Update(ent, changes); err != nil {
		return l.abort(err)
	}
	return l.commit()
}

// DelItem deletes the row of ent and commits.
func (l *Library) DelItem(ent types.Entity) error {
	l.success = false
	if err := l.exec.Delete(ent); err != nil {
		return l.abort(err)
	}
	return l.commit()
}
