package state

import "encoding/json"

// Merge picks the snapshot to keep when two copies of a save diverge. The
// newer UpdatedAt wins wholesale and local wins ties. Either argument may be
// nil.
func Merge(local, remote *Save) *Save {
	switch {
	case local == nil:
		return remote
	case remote == nil:
		return local
	case local.UpdatedAt.Before(remote.UpdatedAt):
		return remote
	default:
		return local
	}
}

// Clone returns a deep copy of the save.
func (s *Save) Clone() (*Save, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var out Save
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	out.Normalize()
	return &out, nil
}
