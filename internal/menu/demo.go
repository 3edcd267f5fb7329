package menu

// DefaultDocument is the built-in demo scene: a wrapping tab bar whose tabs
// open column pages, a nested grid, a menu anchored by name and items that
// cancel, lock or are blocked.
func DefaultDocument() Document {
	return Document{
		Title: "popup-nav demo",
		Menus: []MenuDecl{
			{
				ID:       "tabs",
				Wrapping: true,
				Scope:    true,
				Layout:   LayoutRow,
				Gap:      1,
				Items: []ItemDecl{
					{ID: "tab-files", Label: "Files"},
					{ID: "tab-edit", Label: "Edit"},
					{ID: "tab-view", Label: "View"},
					{ID: "tab-help", Label: "Help"},
				},
			},
			{
				ID:     "files",
				Anchor: "tab-files",
				Layout: LayoutColumn,
				Origin: Point{X: 0, Y: 2},
				Items: []ItemDecl{
					{ID: "file-new", Label: "New"},
					{ID: "file-open", Label: "Open Recent"},
					{ID: "file-save", Label: "Save", Priority: true},
					{ID: "file-back", Label: "Back", Behavior: "cancel"},
				},
			},
			{
				ID:       "recent",
				Anchor:   "file-open",
				Wrapping: true,
				Layout:   LayoutGrid,
				Columns:  2,
				Gap:      1,
				Origin:   Point{X: 15, Y: 3},
				Marker:   "recent",
				Items: []ItemDecl{
					{ID: "recent-notes", Label: "notes.md"},
					{ID: "recent-todo", Label: "todo.txt"},
					{ID: "recent-main", Label: "main.go"},
					{ID: "recent-plan", Label: "plan.yaml"},
				},
			},
			{
				ID:     "edit",
				Anchor: "tab-edit",
				Layout: LayoutColumn,
				Origin: Point{X: 8, Y: 2},
				Items: []ItemDecl{
					{ID: "edit-undo", Label: "Undo"},
					{ID: "edit-redo", Label: "Redo"},
					{ID: "edit-prefs", Label: "Preferences", Name: "settings"},
					{ID: "edit-back", Label: "Back", Behavior: "cancel"},
				},
			},
			{
				ID:         "settings",
				AnchorName: "settings",
				Layout:     LayoutColumn,
				Origin:     Point{X: 23, Y: 4},
				Items: []ItemDecl{
					{ID: "set-theme", Label: "Theme"},
					{ID: "set-keys", Label: "Key Bindings"},
					{ID: "set-lock", Label: "Lock Navigation", Behavior: "lock"},
				},
			},
			{
				ID:     "view",
				Anchor: "tab-view",
				Layout: LayoutColumn,
				Origin: Point{X: 15, Y: 2},
				Items: []ItemDecl{
					{ID: "view-zoom-in", Label: "Zoom In"},
					{ID: "view-zoom-out", Label: "Zoom Out"},
					{ID: "view-fullscreen", Label: "Fullscreen", Blocked: true},
				},
			},
			{
				ID:     "help",
				Anchor: "tab-help",
				Layout: LayoutColumn,
				Origin: Point{X: 22, Y: 2},
				Items: []ItemDecl{
					{ID: "help-about", Label: "About"},
					{ID: "help-keys", Label: "Shortcuts"},
				},
			},
		},
	}
}
