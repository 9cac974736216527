package sync

import "github.com/klauern/repodist/internal/model"

// Resolve returns the ordered actions to evaluate for repo. Copy categories
// come first in the fixed order mandatory, optional, new; within each the
// common list, then lib and git when the repo has them. Delete actions follow
// all copy actions. Resolve performs no I/O.
func Resolve(repo model.Repo, catalog model.Catalog) []model.Action {
	var actions []model.Action

	if repo.CopyEnabled {
		for _, category := range model.CopyCategories() {
			paths := catalog.Copy(category)
			for _, scope := range repo.Scopes() {
				for _, p := range paths.For(scope) {
					actions = append(actions, model.Action{Path: p, Category: category, Scope: scope})
				}
			}
		}
	}

	if repo.DeleteEnabled {
		for _, p := range catalog.Delete {
			actions = append(actions, model.Action{Path: p, Category: model.CategoryDelete})
		}
	}

	return actions
}
