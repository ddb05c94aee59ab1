package application

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/Rudy-Tmc/backupAndRestoreAssetsCloud/internal/domain"
)

// restoreObjects replays object instances in two passes. The first pass
// creates every instance with only its label so all objects exist before
// anything refers to them; the second pass writes the full attribute
// values, with references rewritten through the translation table.
func (r *Restorer) restoreObjects(ctx context.Context, dataPath string) error {
	newInstances := make(map[string]domain.ObjectInstance)
	var mu sync.Mutex

	metaFiles, err := r.store.ListJSON(filepath.Join(dataPath, "objectsmeta"))
	if err != nil {
		return fmt.Errorf("list object meta: %w", err)
	}
	for _, file := range metaFiles {
		var objects []domain.ObjectInstance
		if err := r.store.LoadJSON(file, &objects); err != nil {
			return fmt.Errorf("load %s: %w", file, err)
		}

		RunAll(ctx, r.opts.Workers, len(objects), func(i int) {
			created, ok := r.createInstance(ctx, objects[i])
			if !ok {
				return
			}
			mu.Lock()
			newInstances[created.ID] = created
			mu.Unlock()
		})
	}

	dataFiles, err := r.store.ListJSON(filepath.Join(dataPath, "objects"))
	if err != nil {
		return fmt.Errorf("list object data: %w", err)
	}
	for _, file := range dataFiles {
		var perObject map[string]domain.ObjectData
		if err := r.store.LoadJSON(file, &perObject); err != nil {
			return fmt.Errorf("load %s: %w", file, err)
		}

		type updateUnit struct {
			newID   string
			typeID  string
			data    domain.ObjectData
			oldID   string
			oldName string
		}
		var units []updateUnit
		for oldID, data := range perObject {
			newID, ok := r.table.Lookup(domain.CategoryObject, oldID)
			if !ok {
				r.log.Warn().Str("objectId", oldID).Msg("object was never created, skipping attribute update")
				continue
			}
			mu.Lock()
			instance, ok := newInstances[newID]
			mu.Unlock()
			if !ok {
				r.log.Warn().Str("objectId", newID).Msg("created object missing from this run, skipping attribute update")
				continue
			}
			units = append(units, updateUnit{newID: newID, typeID: instance.ObjectType.ID, data: data, oldID: oldID, oldName: instance.Name})
		}

		RunAll(ctx, r.opts.Workers, len(units), func(i int) {
			unit := units[i]
			if err := r.updateInstance(ctx, unit.newID, unit.typeID, unit.data); err != nil {
				r.log.Warn().Err(err).Str("objectId", unit.newID).Msg("object update failed")
				r.record(domain.CategoryObject, unit.oldName, unit.oldID, unit.newID, domain.OutcomeFailed, err.Error())
				return
			}
			r.log.Info().Str("objectId", unit.newID).Msg("object updated")
		})
	}
	return nil
}

func (r *Restorer) createInstance(ctx context.Context, obj domain.ObjectInstance) (domain.ObjectInstance, bool) {
	newTypeID, ok := r.table.Lookup(domain.CategoryObjectType, obj.ObjectType.ID)
	if !ok {
		r.log.Warn().Str("object", obj.Label).Str("objectType", obj.ObjectType.Name).Msg("object type untranslated, skipping object")
		r.record(domain.CategoryObject, obj.Label, obj.ID, "", domain.OutcomeSkipped, "object type untranslated")
		return domain.ObjectInstance{}, false
	}

	if newID, ok := r.table.Lookup(domain.CategoryObject, obj.ID); ok {
		found, err := r.gw.Objects(ctx, fmt.Sprintf("objectId=%q", newID))
		if err == nil && len(found) == 1 {
			r.log.Info().Str("object", obj.Name).Str("objectType", obj.ObjectType.Name).Msg("existing object")
			r.record(domain.CategoryObject, obj.Name, obj.ID, newID, domain.OutcomeReused, "")
			return found[0], true
		}
	}

	labelAttr, err := r.gw.LabelAttribute(ctx, newTypeID)
	if err != nil {
		r.log.Warn().Err(err).Str("objectType", obj.ObjectType.Name).Msg("label attribute not found, skipping object")
		r.record(domain.CategoryObject, obj.Label, obj.ID, "", domain.OutcomeFailed, "label attribute not found")
		return domain.ObjectInstance{}, false
	}

	r.log.Info().Str("object", obj.Label).Str("objectType", obj.ObjectType.Name).Msg("creating object")
	payload, err := r.builder.Build(ctx, newTypeID, map[string]Field{labelAttr.Name: ScalarField(obj.Label)})
	if err != nil {
		r.record(domain.CategoryObject, obj.Label, obj.ID, "", domain.OutcomeFailed, err.Error())
		return domain.ObjectInstance{}, false
	}
	created, err := r.gw.CreateObject(ctx, payload)
	if err != nil {
		r.log.Warn().Err(err).Str("object", obj.Label).Str("objectType", obj.ObjectType.Name).Msg("object could not be created")
		r.record(domain.CategoryObject, obj.Label, obj.ID, "", domain.OutcomeFailed, err.Error())
		return domain.ObjectInstance{}, false
	}
	r.table.Record(domain.CategoryObject, obj.ID, created.ID)
	r.record(domain.CategoryObject, obj.Label, obj.ID, created.ID, domain.OutcomeCreated, "")
	return created, true
}

// updateInstance writes the full attribute values of one object. Reference
// values carry the source site's "<KEY>-<id>" search value; the id part
// translates to the destination object id, and values whose target was
// never created are dropped with a warning.
func (r *Restorer) updateInstance(ctx context.Context, newID, newTypeID string, data domain.ObjectData) error {
	attrs, err := r.gw.ObjectTypeAttributes(ctx, newTypeID)
	if err != nil {
		return err
	}
	referenceAttrs := make(map[string]bool)
	for _, attr := range attrs {
		if attr.Type == domain.KindReference {
			referenceAttrs[attr.Name] = true
		}
	}

	fields := make(map[string]Field, len(data))
	for name, values := range data {
		if referenceAttrs[name] {
			var ids []string
			for _, value := range values {
				oldRefID := refObjectID(value.SearchValue)
				translated, ok := r.table.Lookup(domain.CategoryObject, oldRefID)
				if !ok {
					r.log.Warn().Str("display", value.DisplayValue).Str("search", value.SearchValue).Str("objectId", newID).Msg("referenced object untranslated, dropping value")
					continue
				}
				ids = append(ids, translated)
			}
			fields[name] = ListField(ids)
			continue
		}

		displays := make([]string, 0, len(values))
		for _, value := range values {
			displays = append(displays, value.DisplayValue)
		}
		if len(displays) == 1 {
			fields[name] = ScalarField(displays[0])
		} else {
			fields[name] = ListField(displays)
		}
	}

	payload, err := r.builder.Build(ctx, newTypeID, fields)
	if err != nil {
		return err
	}
	_, err = r.gw.UpdateObject(ctx, newID, payload)
	return err
}

// refObjectID extracts the numeric object id from a "<KEY>-<id>" search
// value. Schema keys never contain a dash, so the split is on the first.
func refObjectID(searchValue string) string {
	if _, id, ok := strings.Cut(searchValue, "-"); ok {
		return id
	}
	return searchValue
}

func (r *Restorer) restoreComments(ctx context.Context, dataPath string) {
	dir := filepath.Join(dataPath, "objects", "comments")
	if !r.store.Exists(dir) {
		return
	}
	files, err := r.store.ListJSON(dir)
	if err != nil {
		r.log.Warn().Err(err).Msg("listing comment exports failed")
		return
	}
	r.log.Info().Msg("start restoring comments")

	RunAll(ctx, r.opts.Workers, len(files), func(i int) {
		var comments []domain.Comment
		if err := r.store.LoadJSON(files[i], &comments); err != nil {
			r.log.Warn().Err(err).Str("file", files[i]).Msg("comment export unreadable")
			return
		}
		if len(comments) == 0 {
			return
		}
		// All comments in one file belong to the same object.
		newID, ok := r.table.Lookup(domain.CategoryObject, comments[0].ObjectID)
		if !ok {
			r.log.Warn().Str("objectId", comments[0].ObjectID).Msg("object untranslated, skipping comments")
			return
		}
		r.log.Info().Str("objectId", comments[0].ObjectID).Msg("comments")
		for _, comment := range comments {
			date, clock := splitTimestamp(comment.Created)
			body := fmt.Sprintf("<p><strong>Comment by: %s on %s at %s</strong></p><p>%s</p>",
				comment.Actor.DisplayName, date, clock, comment.Comment)
			if err := r.gw.CreateComment(ctx, newID, body); err != nil {
				r.log.Warn().Err(err).Str("objectId", newID).Msg("comment create failed")
			}
		}
	})
	r.log.Info().Msg("comments created")
}

// historyTypeLabels names the remote change types worth showing; ids
// absent from the catalog render as their number.
var historyTypeLabels = map[int]string{
	0:  "Created",
	1:  "Added value",
	2:  "Changed value",
	3:  "Deleted value",
	4:  "Added reference",
	5:  "Changed reference",
	6:  "Deleted reference",
	7:  "Added attachment",
	8:  "Deleted attachment",
	9:  "Added User",
	10: "Changed user",
	11: "Deleted user",
	15: "Added group",
	16: "Changed group",
	17: "Deleted group",
	25: "Added avatar",
	26: "Changed avatar",
	27: "Deleted avatar",
}

// restoreHistory flattens an object's exported history into one preformatted
// comment. The remote API has no way to write history entries back.
func (r *Restorer) restoreHistory(ctx context.Context, dataPath string) {
	dir := filepath.Join(dataPath, "objects", "history")
	if !r.store.Exists(dir) {
		return
	}
	files, err := r.store.ListJSON(dir)
	if err != nil {
		r.log.Warn().Err(err).Msg("listing history exports failed")
		return
	}
	r.log.Info().Msg("start restoring history")

	RunAll(ctx, r.opts.Workers, len(files), func(i int) {
		var history []domain.HistoryEntry
		if err := r.store.LoadJSON(files[i], &history); err != nil {
			r.log.Warn().Err(err).Str("file", files[i]).Msg("history export unreadable")
			return
		}
		if len(history) == 0 {
			return
		}
		newID, ok := r.table.Lookup(domain.CategoryObject, history[0].ObjectID)
		if !ok {
			r.log.Warn().Str("objectId", history[0].ObjectID).Msg("object untranslated, skipping history")
			return
		}

		var b strings.Builder
		fmt.Fprintf(&b, "%-25s %-20s %-35s %-20s %-18s %s\n", "Created", "Type", "Actor", "Attribute", "Old value", "New value")
		b.WriteString(strings.Repeat("-", 139))
		b.WriteString("\n")
		for _, entry := range history {
			label, ok := historyTypeLabels[entry.Type]
			if !ok {
				label = strconv.Itoa(entry.Type)
			}
			fmt.Fprintf(&b, "%-25s %-20s %-35s %-20s %-18s %s\n",
				entry.Created, label, entry.Actor.DisplayName, entry.AffectedAttribute, entry.OldValue, entry.NewValue)
		}

		r.log.Info().Str("objectId", newID).Msg("history comment")
		if err := r.gw.CreateComment(ctx, newID, "<pre>"+b.String()+"</pre>"); err != nil {
			r.log.Warn().Err(err).Str("objectId", newID).Msg("history comment create failed")
		}
	})
	r.log.Info().Msg("history comments created")
}

// splitTimestamp decomposes "2022-03-01T09:46:32.409Z" into its date and
// clock parts for the comment header.
func splitTimestamp(created string) (date, clock string) {
	date, rest, ok := strings.Cut(created, "T")
	if !ok {
		return created, ""
	}
	clock, _, _ = strings.Cut(rest, ".")
	return date, clock
}
