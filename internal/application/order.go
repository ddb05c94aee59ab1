package application

import "github.com/Rudy-Tmc/backupAndRestoreAssetsCloud/internal/domain"

// LevelOrder arranges object types so every parent appears in an earlier
// level than its children. Level 0 holds the root types. Types whose parent
// never appears in any level (a broken export, or a parent outside the
// snapshot) come back in stuck and must not be created.
func LevelOrder(types []domain.ObjectType) (levels [][]domain.ObjectType, stuck []domain.ObjectType) {
	var current []domain.ObjectType
	var remaining []domain.ObjectType
	for _, ot := range types {
		if ot.ParentObjectTypeID == "" {
			current = append(current, ot)
		} else {
			remaining = append(remaining, ot)
		}
	}

	for len(current) > 0 {
		levels = append(levels, current)

		parents := make(map[string]bool, len(current))
		for _, ot := range current {
			parents[ot.ID] = true
		}

		var next []domain.ObjectType
		var rest []domain.ObjectType
		for _, ot := range remaining {
			if parents[ot.ParentObjectTypeID] {
				next = append(next, ot)
			} else {
				rest = append(rest, ot)
			}
		}
		current = next
		remaining = rest
	}

	return levels, remaining
}

// Flatten concatenates levels into a single creation-ordered list.
func Flatten(levels [][]domain.ObjectType) []domain.ObjectType {
	var out []domain.ObjectType
	for _, level := range levels {
		out = append(out, level...)
	}
	return out
}
