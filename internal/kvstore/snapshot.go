package kvstore

// Child is a direct child of a folder.
type Child struct {
	Key    string
	Folder bool
	Value  string // leaves only
	Count  int    // folders only: number of leaves below
}

// Snapshot is the state of one node.
type Snapshot struct {
	Path     string
	Exists   bool
	Leaf     bool
	Value    string
	Children []Child
}

// Folder reports whether the snapshot is an existing folder.
func (s Snapshot) Folder() bool {
	return s.Exists && !s.Leaf
}
