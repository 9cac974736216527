package model

// Action is a resolved unit of work for one repo: a relative path and the
// category that decides what happens to it.
type Action struct {
	Path     string
	Category Category
	// Scope records which catalog list produced a copy action. Empty for deletes.
	Scope Scope
}

// String returns "category path".
func (a Action) String() string {
	return string(a.Category) + " " + a.Path
}
