package application

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"github.com/Rudy-Tmc/backupAndRestoreAssetsCloud/internal/adapters/snapshot"
	"github.com/Rudy-Tmc/backupAndRestoreAssetsCloud/internal/domain"
	"github.com/rs/zerolog"
)

// createdObjectsFile holds the object id translations of finished and
// aborted runs alike. It lives at the top of the snapshot folder and is the
// single artifact a rerun resumes from.
const createdObjectsFile = "createdObjects.json"

type RestoreOptions struct {
	Folder  string
	Workers int

	ProcessObjects           bool
	ProcessComments          bool
	ProcessHistory           bool
	SetAttributeRestrictions bool
}

// Restorer replays one exported schema onto the connected site. Every
// entity is create-or-reuse: an entity that already exists on the
// destination is recorded in the translation table and left untouched.
type Restorer struct {
	gw      domain.Gateway
	store   domain.SnapshotStore
	journal domain.RunJournal
	log     zerolog.Logger
	opts    RestoreOptions

	table   *Table
	builder *PayloadBuilder
	tally   tally
	runID   string
}

type tally struct {
	mu                               sync.Mutex
	created, reused, skipped, failed int
}

func (t *tally) add(outcome string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch outcome {
	case domain.OutcomeCreated:
		t.created++
	case domain.OutcomeReused:
		t.reused++
	case domain.OutcomeSkipped:
		t.skipped++
	case domain.OutcomeFailed:
		t.failed++
	}
}

func NewRestorer(gw domain.Gateway, store domain.SnapshotStore, journal domain.RunJournal, log zerolog.Logger, opts RestoreOptions) *Restorer {
	if opts.Workers < 1 {
		opts.Workers = 8
	}
	return &Restorer{
		gw:      gw,
		store:   store,
		journal: journal,
		log:     log,
		opts:    opts,
		table:   NewTable(),
		builder: NewPayloadBuilder(gw, log),
	}
}

func (r *Restorer) record(category domain.Category, name, oldID, newID, outcome, detail string) {
	r.tally.add(outcome)
	entry := domain.RunEntity{
		RunID:    r.runID,
		Category: category,
		Name:     name,
		OldID:    oldID,
		NewID:    newID,
		Outcome:  outcome,
		Detail:   detail,
	}
	if err := r.journal.RecordEntity(context.Background(), entry); err != nil {
		r.log.Warn().Err(err).Msg("journal entity write failed")
	}
}

// Run replays one migration job. The object id translations accumulated so
// far are flushed to createdObjects.json on every exit path, success or
// not, so an interrupted run can resume.
func (r *Restorer) Run(ctx context.Context, job domain.MigrationJob) (err error) {
	run, jerr := r.journal.StartRun(ctx, domain.RunKindRestore, job.NewObjectSchemaKey)
	if jerr != nil {
		return fmt.Errorf("start run: %w", jerr)
	}
	r.runID = run.ID

	defer func() {
		if serr := r.store.SaveJSON("createdObjects", r.opts.Folder, r.table.Snapshot(domain.CategoryObject)); serr != nil {
			r.log.Error().Err(serr).Msg("flushing created objects failed")
			if err == nil {
				err = serr
			}
		}
		outcome := "completed"
		if err != nil {
			outcome = "failed"
		}
		r.tally.mu.Lock()
		created, reused, skipped, failed := r.tally.created, r.tally.reused, r.tally.skipped, r.tally.failed
		r.tally.mu.Unlock()
		if jerr := r.journal.FinishRun(context.Background(), r.runID, outcome, created, reused, skipped, failed); jerr != nil {
			r.log.Warn().Err(jerr).Msg("journal finish failed")
		}
	}()

	// Resume from a previous partial run.
	resumePath := filepath.Join(r.opts.Folder, createdObjectsFile)
	if r.store.Exists(resumePath) {
		var previous map[string]string
		if err := r.store.LoadJSON(resumePath, &previous); err != nil {
			return fmt.Errorf("load %s: %w", createdObjectsFile, err)
		}
		r.table.Merge(domain.CategoryObject, previous)
		r.log.Info().Int("objects", len(previous)).Msg("resuming with previously created objects")
	}

	dataPath := filepath.Join(r.opts.Folder, job.OldObjectSchemaKey)

	if err := r.restoreGlobalReferenceTypes(ctx, dataPath); err != nil {
		return err
	}
	if err := r.restoreGlobalStatusTypes(ctx, dataPath); err != nil {
		return err
	}

	schema, err := r.restoreSchema(ctx, dataPath, job)
	if err != nil {
		return err
	}
	if err := r.loadSchemaTranslation(ctx, job); err != nil {
		return err
	}
	r.restoreSchemaProperties(ctx, dataPath, schema)
	if err := r.restoreScopedReferenceTypes(ctx, dataPath, schema); err != nil {
		return err
	}
	if err := r.restoreScopedStatusTypes(ctx, dataPath, schema); err != nil {
		return err
	}
	if err := r.restoreObjectTypes(ctx, dataPath, schema); err != nil {
		return err
	}
	if err := r.restoreAttributes(ctx, dataPath, schema); err != nil {
		return err
	}

	if r.opts.ProcessObjects {
		if err := r.restoreObjects(ctx, dataPath); err != nil {
			return err
		}
		if r.opts.ProcessComments {
			r.restoreComments(ctx, dataPath)
		}
		if r.opts.ProcessHistory {
			r.restoreHistory(ctx, dataPath)
		}
		if r.opts.SetAttributeRestrictions {
			if err := r.applyAttributeRestrictions(ctx, dataPath, schema); err != nil {
				return err
			}
		}
	}

	return nil
}

func (r *Restorer) restoreGlobalReferenceTypes(ctx context.Context, dataPath string) error {
	var referenceTypes []domain.ReferenceType
	if err := r.store.LoadJSON(filepath.Join(dataPath, "config", "global_referencetypes.json"), &referenceTypes); err != nil {
		return fmt.Errorf("load global reference types: %w", err)
	}
	for _, rt := range referenceTypes {
		if _, err := r.gw.ReferenceTypeByName(ctx, rt.Name); err == nil {
			continue
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		r.log.Info().Str("name", rt.Name).Msg("create global reference type")
		created, err := r.gw.CreateReferenceType(ctx, domain.ReferenceType{Name: rt.Name, Color: rt.Color, Description: rt.Description})
		if err != nil {
			r.record(domain.CategoryReferenceType, rt.Name, rt.ID, "", domain.OutcomeFailed, err.Error())
			continue
		}
		r.record(domain.CategoryReferenceType, rt.Name, rt.ID, created.ID, domain.OutcomeCreated, "")
	}
	return nil
}

func (r *Restorer) restoreGlobalStatusTypes(ctx context.Context, dataPath string) error {
	var statusTypes []domain.StatusType
	if err := r.store.LoadJSON(filepath.Join(dataPath, "config", "global_statustypes.json"), &statusTypes); err != nil {
		return fmt.Errorf("load global status types: %w", err)
	}
	for _, st := range statusTypes {
		existing, err := r.gw.StatusTypeByName(ctx, st.Name)
		if err == nil {
			r.table.Record(domain.CategoryStatusType, st.ID, existing.ID)
			r.record(domain.CategoryStatusType, st.Name, st.ID, existing.ID, domain.OutcomeReused, "")
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		r.log.Info().Str("name", st.Name).Msg("create global status type")
		created, err := r.gw.CreateStatusType(ctx, domain.StatusType{Name: st.Name, Category: st.Category, Description: st.Description})
		if err != nil {
			r.record(domain.CategoryStatusType, st.Name, st.ID, "", domain.OutcomeFailed, err.Error())
			continue
		}
		r.table.Record(domain.CategoryStatusType, st.ID, created.ID)
		r.record(domain.CategoryStatusType, st.Name, st.ID, created.ID, domain.OutcomeCreated, "")
	}
	return nil
}

func (r *Restorer) restoreSchema(ctx context.Context, dataPath string, job domain.MigrationJob) (domain.ObjectSchema, error) {
	var exported domain.ObjectSchema
	if err := r.store.LoadJSON(filepath.Join(dataPath, "config", "objectschema.json"), &exported); err != nil {
		return domain.ObjectSchema{}, fmt.Errorf("load object schema: %w", err)
	}

	schema, err := r.gw.ObjectSchemaByKey(ctx, job.NewObjectSchemaKey)
	if errors.Is(err, domain.ErrNotFound) {
		r.log.Info().Str("name", job.NewObjectSchemaName).Str("key", job.NewObjectSchemaKey).Msg("create object schema")
		schema, err = r.gw.CreateObjectSchema(ctx, job.NewObjectSchemaName, job.NewObjectSchemaKey, exported.Description)
		if err != nil {
			r.record(domain.CategorySchema, job.NewObjectSchemaName, exported.ID, "", domain.OutcomeFailed, err.Error())
			return domain.ObjectSchema{}, err
		}
		r.record(domain.CategorySchema, schema.Name, exported.ID, schema.ID, domain.OutcomeCreated, "")
	} else if err != nil {
		return domain.ObjectSchema{}, err
	} else {
		r.record(domain.CategorySchema, schema.Name, exported.ID, schema.ID, domain.OutcomeReused, "")
	}

	r.table.Record(domain.CategorySchema, exported.ID, schema.ID)
	return schema, nil
}

// loadSchemaTranslation maps every exported schema id onto its
// destination counterpart. Reference attributes may point into schemas
// other than the one being restored, so the whole exported schema list is
// matched, by the destination key for the job's own schema and by the
// unchanged key for the rest.
func (r *Restorer) loadSchemaTranslation(ctx context.Context, job domain.MigrationJob) error {
	var schemas []domain.ObjectSchema
	path := filepath.Join(r.opts.Folder, "config", "objectschemas.json")
	if err := r.store.LoadJSON(path, &schemas); err != nil {
		return fmt.Errorf("load exported schema list: %w", err)
	}
	for _, exported := range schemas {
		key := exported.Key
		if key == job.OldObjectSchemaKey {
			key = job.NewObjectSchemaKey
		}
		dest, err := r.gw.ObjectSchemaByKey(ctx, key)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		r.table.Record(domain.CategorySchema, exported.ID, dest.ID)
	}
	return nil
}

func (r *Restorer) restoreSchemaProperties(ctx context.Context, dataPath string, schema domain.ObjectSchema) {
	path := filepath.Join(dataPath, "config", "objectschema_properties.json")
	if !r.store.Exists(path) {
		return
	}
	var props domain.SchemaProperties
	if err := r.store.LoadJSON(path, &props); err != nil {
		r.log.Warn().Err(err).Msg("schema properties unreadable, skipping")
		return
	}
	r.log.Info().Msg("set object schema properties")
	if err := r.gw.UpdateSchemaProperties(ctx, schema.ID, props); err != nil {
		r.log.Warn().Err(err).Msg("schema properties update failed")
	}
}

func (r *Restorer) restoreScopedReferenceTypes(ctx context.Context, dataPath string, schema domain.ObjectSchema) error {
	var referenceTypes []domain.ReferenceType
	if err := r.store.LoadJSON(filepath.Join(dataPath, "config", "referencetypes.json"), &referenceTypes); err != nil {
		return fmt.Errorf("load reference types: %w", err)
	}
	for _, rt := range referenceTypes {
		existing, err := r.gw.ReferenceTypes(ctx, schema.ID)
		if err != nil {
			return err
		}
		found := false
		for _, have := range existing {
			if have.Name == rt.Name {
				found = true
				break
			}
		}
		if found {
			continue
		}
		r.log.Info().Str("name", rt.Name).Msg("create reference type")
		created, err := r.gw.CreateReferenceType(ctx, domain.ReferenceType{
			Name:           rt.Name,
			Color:          rt.Color,
			Description:    rt.Description,
			ObjectSchemaID: schema.ID,
		})
		if err != nil {
			r.record(domain.CategoryReferenceType, rt.Name, rt.ID, "", domain.OutcomeFailed, err.Error())
			continue
		}
		r.record(domain.CategoryReferenceType, rt.Name, rt.ID, created.ID, domain.OutcomeCreated, "")
	}
	return nil
}

func (r *Restorer) restoreScopedStatusTypes(ctx context.Context, dataPath string, schema domain.ObjectSchema) error {
	var statusTypes []domain.StatusType
	if err := r.store.LoadJSON(filepath.Join(dataPath, "config", "statustypes.json"), &statusTypes); err != nil {
		return fmt.Errorf("load status types: %w", err)
	}
	for _, st := range statusTypes {
		existing, err := r.gw.StatusTypeByName(ctx, st.Name)
		if err == nil {
			r.table.Record(domain.CategoryStatusType, st.ID, existing.ID)
			r.record(domain.CategoryStatusType, st.Name, st.ID, existing.ID, domain.OutcomeReused, "")
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		r.log.Info().Str("name", st.Name).Msg("create status type")
		created, err := r.gw.CreateStatusType(ctx, domain.StatusType{
			Name:           st.Name,
			Category:       st.Category,
			Description:    st.Description,
			ObjectSchemaID: schema.ID,
		})
		if err != nil {
			r.record(domain.CategoryStatusType, st.Name, st.ID, "", domain.OutcomeFailed, err.Error())
			continue
		}
		r.table.Record(domain.CategoryStatusType, st.ID, created.ID)
		r.record(domain.CategoryStatusType, st.Name, st.ID, created.ID, domain.OutcomeCreated, "")
	}
	return nil
}

// restoreObjectTypes recreates the exported type forest level by level so
// a child is never created before its parent. Types whose parent never
// resolves are reported and skipped.
func (r *Restorer) restoreObjectTypes(ctx context.Context, dataPath string, schema domain.ObjectSchema) error {
	var exported []domain.ObjectType
	if err := r.store.LoadJSON(filepath.Join(dataPath, "config", "objecttypes.json"), &exported); err != nil {
		return fmt.Errorf("load object types: %w", err)
	}

	levels, stuck := LevelOrder(exported)
	for _, ot := range stuck {
		r.log.Warn().Str("name", ot.Name).Str("parent", ot.ParentObjectTypeID).Msg("object type parent missing from export, skipping")
		r.record(domain.CategoryObjectType, ot.Name, ot.ID, "", domain.OutcomeSkipped, "parent not in export")
	}

	for _, ot := range Flatten(levels) {
		parentID := ""
		if ot.ParentObjectTypeID != "" {
			parentID, _ = r.table.Lookup(domain.CategoryObjectType, ot.ParentObjectTypeID)
		}

		existing, err := r.gw.ObjectTypeByName(ctx, ot.Name, schema.ID, parentID)
		if err == nil {
			r.table.Record(domain.CategoryObjectType, ot.ID, existing.ID)
			r.record(domain.CategoryObjectType, ot.Name, ot.ID, existing.ID, domain.OutcomeReused, "")
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		req := domain.CreateObjectTypeRequest{
			ObjectSchemaID:     schema.ID,
			Name:               ot.Name,
			IconID:             ot.Icon.ID,
			Description:        ot.Description,
			Inherited:          ot.Inherited,
			AbstractObjectType: ot.AbstractObjectType,
			ParentObjectTypeID: parentID,
		}
		r.log.Info().Str("name", ot.Name).Msg("create object type")
		created, err := r.gw.CreateObjectType(ctx, req)
		if err != nil {
			r.record(domain.CategoryObjectType, ot.Name, ot.ID, "", domain.OutcomeFailed, err.Error())
			continue
		}
		r.table.Record(domain.CategoryObjectType, ot.ID, created.ID)
		r.record(domain.CategoryObjectType, ot.Name, ot.ID, created.ID, domain.OutcomeCreated, "")
	}

	// Second pass: restore the sibling order recorded in the export.
	for _, ot := range Flatten(levels) {
		if ot.ParentObjectTypeID == "" {
			continue
		}
		newID, ok := r.table.Lookup(domain.CategoryObjectType, ot.ID)
		newParentID, okParent := r.table.Lookup(domain.CategoryObjectType, ot.ParentObjectTypeID)
		if !ok || !okParent {
			continue
		}
		if err := r.gw.MoveObjectType(ctx, newID, newParentID, ot.Position); err != nil {
			r.log.Warn().Err(err).Str("name", ot.Name).Msg("object type reposition failed")
		}
	}
	return nil
}

// typeIDLess orders object type ids numerically, so "9" sorts before
// "10". Ids that are not numbers fall back to string order.
func typeIDLess(a, b string) bool {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	switch {
	case aerr == nil && berr == nil:
		return ai < bi
	case aerr == nil:
		return true
	case berr == nil:
		return false
	}
	return a < b
}

func (r *Restorer) attributesFile(dataPath, typeName, oldTypeID string) string {
	name := snapshot.Sanitize(fmt.Sprintf("%s_%s", typeName, oldTypeID))
	return filepath.Join(dataPath, "config", "attributes", name+".json")
}

func (r *Restorer) restoreAttributes(ctx context.Context, dataPath string, schema domain.ObjectSchema) error {
	newTypes, err := r.gw.ObjectTypes(ctx, schema.ID)
	if err != nil {
		return err
	}
	sort.Slice(newTypes, func(i, j int) bool { return typeIDLess(newTypes[i].ID, newTypes[j].ID) })

	for _, newType := range newTypes {
		oldTypeID, ok := r.table.ReverseLookup(domain.CategoryObjectType, newType.ID)
		if !ok {
			continue
		}
		path := r.attributesFile(dataPath, newType.Name, oldTypeID)
		if !r.store.Exists(path) {
			r.log.Warn().Str("objectType", newType.Name).Str("path", path).Msg("attribute export missing, skipping")
			continue
		}
		var attributes []domain.Attribute
		if err := r.store.LoadJSON(path, &attributes); err != nil {
			return fmt.Errorf("load attributes for %s: %w", newType.Name, err)
		}

		var mu sync.Mutex
		var created []domain.Attribute
		RunAll(ctx, r.opts.Workers, len(attributes), func(i int) {
			newAttr, ok := r.restoreAttribute(ctx, newType, attributes[i])
			if !ok {
				return
			}
			r.table.Record(domain.CategoryAttribute, attributes[i].ID, newAttr.ID)
			mu.Lock()
			created = append(created, newAttr)
			mu.Unlock()
		})

		// Highest target position first, matching how the remote move
		// call settles a full reorder.
		sort.Slice(created, func(i, j int) bool { return created[i].Position > created[j].Position })
		for _, attr := range created {
			if err := r.gw.MoveAttribute(ctx, newType.ID, attr.ID, attr.Position); err != nil {
				r.log.Warn().Err(err).Str("attribute", attr.Name).Msg("attribute move failed")
			}
		}
		r.log.Info().Str("objectType", newType.Name).Int("attributes", len(created)).Msg("attributes restored")
	}
	return nil
}

func (r *Restorer) restoreAttribute(ctx context.Context, newType domain.ObjectType, attr domain.Attribute) (domain.Attribute, bool) {
	existing, err := r.gw.AttributeByName(ctx, newType.ID, attr.Name)
	if err == nil {
		r.record(domain.CategoryAttribute, attr.Name, attr.ID, existing.ID, domain.OutcomeReused, "")
		return existing, true
	}
	if !errors.Is(err, domain.ErrNotFound) {
		r.record(domain.CategoryAttribute, attr.Name, attr.ID, "", domain.OutcomeFailed, err.Error())
		return domain.Attribute{}, false
	}

	req := domain.CreateAttributeRequest{
		ObjectTypeID: newType.ID,
		Type:         attr.Type,
		Name:         attr.Name,
		Description:  attr.Description,
	}
	if attr.DefaultType != nil {
		id := attr.DefaultType.ID
		req.DefaultTypeID = &id
	}

	if attr.Type == domain.KindReference {
		if attr.ReferenceObjectType == nil {
			r.record(domain.CategoryAttribute, attr.Name, attr.ID, "", domain.OutcomeSkipped, "reference target missing from export")
			return domain.Attribute{}, false
		}
		targetSchemaID, ok := r.table.Lookup(domain.CategorySchema, attr.ReferenceObjectType.ObjectSchemaID)
		if !ok {
			r.log.Warn().Str("attribute", attr.Name).Msg("referenced schema not found, skipping attribute")
			r.record(domain.CategoryAttribute, attr.Name, attr.ID, "", domain.OutcomeSkipped, "referenced schema not found")
			return domain.Attribute{}, false
		}
		parentID := ""
		if attr.ReferenceObjectType.ParentObjectTypeID != "" {
			parentID, _ = r.table.Lookup(domain.CategoryObjectType, attr.ReferenceObjectType.ParentObjectTypeID)
		}
		target, err := r.gw.ObjectTypeByName(ctx, attr.ReferenceObjectType.Name, targetSchemaID, parentID)
		if err != nil {
			r.log.Warn().Str("attribute", attr.Name).Str("target", attr.ReferenceObjectType.Name).Msg("referenced object type not found, skipping attribute")
			r.record(domain.CategoryAttribute, attr.Name, attr.ID, "", domain.OutcomeSkipped, "referenced object type not found")
			return domain.Attribute{}, false
		}
		req.TypeValue = target.ID
		if attr.ReferenceType != nil {
			if rt, err := r.gw.ReferenceTypeByName(ctx, attr.ReferenceType.Name); err == nil {
				req.AdditionalValue = rt.ID
			}
		}
	}

	r.log.Info().Str("attribute", attr.Name).Str("objectType", newType.Name).Msg("create attribute")
	createdAttr, err := r.gw.CreateAttribute(ctx, req)
	if err != nil {
		r.record(domain.CategoryAttribute, attr.Name, attr.ID, "", domain.OutcomeFailed, err.Error())
		return domain.Attribute{}, false
	}
	// The export's position is what the ordering pass restores later.
	createdAttr.Position = attr.Position
	r.record(domain.CategoryAttribute, attr.Name, attr.ID, createdAttr.ID, domain.OutcomeCreated, "")
	return createdAttr, true
}

// applyAttributeRestrictions replays cardinality bounds, validation rules
// and option lists after every attribute exists. Creation cannot carry
// them: several restriction fields are only writable on update.
func (r *Restorer) applyAttributeRestrictions(ctx context.Context, dataPath string, schema domain.ObjectSchema) error {
	newTypes, err := r.gw.ObjectTypes(ctx, schema.ID)
	if err != nil {
		return err
	}
	for _, newType := range newTypes {
		oldTypeID, ok := r.table.ReverseLookup(domain.CategoryObjectType, newType.ID)
		if !ok {
			continue
		}
		path := r.attributesFile(dataPath, newType.Name, oldTypeID)
		if !r.store.Exists(path) {
			r.log.Warn().Str("objectType", newType.Name).Str("path", path).Msg("attribute export missing, skipping restrictions")
			continue
		}
		var attributes []domain.Attribute
		if err := r.store.LoadJSON(path, &attributes); err != nil {
			return fmt.Errorf("load attributes for %s: %w", newType.Name, err)
		}

		RunAll(ctx, r.opts.Workers, len(attributes), func(i int) {
			attr := attributes[i]
			newAttrID, ok := r.table.Lookup(domain.CategoryAttribute, attr.ID)
			if !ok {
				return
			}
			req, ok := r.restrictionRequest(attr)
			if !ok {
				return
			}
			if _, err := r.gw.UpdateAttribute(ctx, newType.ID, newAttrID, req); err != nil {
				r.log.Warn().Err(err).Str("attribute", attr.Name).Msg("attribute restriction update failed")
				return
			}
			r.log.Info().Str("attribute", attr.Name).Msg("attribute restrictions applied")
		})
	}
	return nil
}

// restrictionRequest decodes the per-kind restrictions of one exported
// attribute into an update request.
func (r *Restorer) restrictionRequest(attr domain.Attribute) (domain.UpdateAttributeRequest, bool) {
	var req domain.UpdateAttributeRequest

	switch attr.Type {
	case domain.KindDefault:
		if attr.DefaultType == nil {
			return req, false
		}
		id := attr.DefaultType.ID
		req.DefaultTypeID = &id
		switch id {
		case domain.DefaultText:
			req.RegexValidation = attr.RegexValidation
		case domain.DefaultInteger, domain.DefaultDouble:
			req.Suffix = attr.Suffix
			summable := attr.Summable
			req.Summable = &summable
		case domain.DefaultURL:
			req.AdditionalValue = attr.AdditionalValue
		case domain.DefaultEmail:
			req.MinimumCardinality = attr.MinimumCardinality
			req.MaximumCardinality = attr.MaximumCardinality
			req.RegexValidation = attr.RegexValidation
		case domain.DefaultSelect:
			req.Options = attr.Options
			req.MinimumCardinality = attr.MinimumCardinality
			req.MaximumCardinality = attr.MaximumCardinality
		}

	case domain.KindReference:
		if attr.IncludeChildObjectTypes {
			include := true
			req.IncludeChildObjectTypes = &include
		}
		req.IQL = attr.IQL
		req.MinimumCardinality = attr.MinimumCardinality
		req.MaximumCardinality = attr.MaximumCardinality

	case domain.KindUser:
		req.TypeValueMulti = append([]string(nil), attr.TypeValueMulti...)
		req.AdditionalValue = attr.AdditionalValue
		req.MinimumCardinality = attr.MinimumCardinality
		req.MaximumCardinality = attr.MaximumCardinality

	case domain.KindGroup:
		req.MinimumCardinality = attr.MinimumCardinality
		req.MaximumCardinality = attr.MaximumCardinality

	case domain.KindStatus:
		for _, oldStatusID := range attr.TypeValueMulti {
			newStatusID, ok := r.table.Lookup(domain.CategoryStatusType, oldStatusID)
			if !ok {
				r.log.Warn().Str("attribute", attr.Name).Str("status", oldStatusID).Msg("status id untranslated, dropping from restriction")
				continue
			}
			req.TypeValueMulti = append(req.TypeValueMulti, newStatusID)
		}

	default:
		r.log.Error().Int("type", int(attr.Type)).Str("attribute", attr.Name).Msg("unknown attribute kind")
		return req, false
	}

	return req, true
}
