package application

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/Rudy-Tmc/backupAndRestoreAssetsCloud/internal/domain"
)

// fakeGateway is an in-memory destination site. Creating an object type
// seeds a "Name" label attribute, as the remote system does.
type fakeGateway struct {
	mu sync.Mutex

	schemas        []domain.ObjectSchema
	properties     map[string]domain.SchemaProperties
	globalStatuses []domain.StatusType
	scopedStatuses map[string][]domain.StatusType
	globalRefs     []domain.ReferenceType
	scopedRefs     map[string][]domain.ReferenceType
	objectTypes    map[string][]domain.ObjectType // schema id -> types
	attributes     map[string][]domain.Attribute  // object type id -> attrs
	objects        map[string]domain.ObjectInstance
	updates        map[string]domain.ObjectPayload
	comments       map[string][]string
	data           map[string]domain.ObjectData
	commentExports map[string][]domain.Comment
	historyExports map[string][]domain.HistoryEntry
	users          []domain.UserAccount
	groups         []domain.Group
	typeMoves      []string
	attrMoves      []string

	nextID int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		properties:     make(map[string]domain.SchemaProperties),
		scopedStatuses: make(map[string][]domain.StatusType),
		scopedRefs:     make(map[string][]domain.ReferenceType),
		objectTypes:    make(map[string][]domain.ObjectType),
		attributes:     make(map[string][]domain.Attribute),
		objects:        make(map[string]domain.ObjectInstance),
		updates:        make(map[string]domain.ObjectPayload),
		comments:       make(map[string][]string),
		data:           make(map[string]domain.ObjectData),
		commentExports: make(map[string][]domain.Comment),
		historyExports: make(map[string][]domain.HistoryEntry),
		nextID:         9000,
	}
}

func (f *fakeGateway) id() string {
	f.nextID++
	return strconv.Itoa(f.nextID)
}

func (f *fakeGateway) ObjectSchemas(ctx context.Context) ([]domain.ObjectSchema, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.ObjectSchema(nil), f.schemas...), nil
}

func (f *fakeGateway) ObjectSchemaByKey(ctx context.Context, key string) (domain.ObjectSchema, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.schemas {
		if s.Key == key {
			return s, nil
		}
	}
	return domain.ObjectSchema{}, domain.ErrNotFound
}

func (f *fakeGateway) ObjectSchemaByName(ctx context.Context, name string) (domain.ObjectSchema, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.schemas {
		if s.Name == name {
			return s, nil
		}
	}
	return domain.ObjectSchema{}, domain.ErrNotFound
}

func (f *fakeGateway) CreateObjectSchema(ctx context.Context, name, key, description string) (domain.ObjectSchema, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := domain.ObjectSchema{ID: f.id(), Key: key, Name: name, Description: description}
	f.schemas = append(f.schemas, s)
	return s, nil
}

func (f *fakeGateway) SchemaProperties(ctx context.Context, schemaID string) (domain.SchemaProperties, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.properties[schemaID], nil
}

func (f *fakeGateway) UpdateSchemaProperties(ctx context.Context, schemaID string, props domain.SchemaProperties) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.properties[schemaID] = props
	return nil
}

func (f *fakeGateway) GlobalStatusTypes(ctx context.Context) ([]domain.StatusType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.StatusType(nil), f.globalStatuses...), nil
}

func (f *fakeGateway) StatusTypes(ctx context.Context, schemaID string) ([]domain.StatusType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.StatusType(nil), f.scopedStatuses[schemaID]...), nil
}

func (f *fakeGateway) StatusTypeByName(ctx context.Context, name string) (domain.StatusType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, st := range f.globalStatuses {
		if st.Name == name {
			return st, nil
		}
	}
	for _, scoped := range f.scopedStatuses {
		for _, st := range scoped {
			if st.Name == name {
				return st, nil
			}
		}
	}
	return domain.StatusType{}, domain.ErrNotFound
}

func (f *fakeGateway) CreateStatusType(ctx context.Context, value domain.StatusType) (domain.StatusType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value.ID = f.id()
	if value.ObjectSchemaID == "" {
		f.globalStatuses = append(f.globalStatuses, value)
	} else {
		f.scopedStatuses[value.ObjectSchemaID] = append(f.scopedStatuses[value.ObjectSchemaID], value)
	}
	return value, nil
}

func (f *fakeGateway) GlobalReferenceTypes(ctx context.Context) ([]domain.ReferenceType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.ReferenceType(nil), f.globalRefs...), nil
}

func (f *fakeGateway) ReferenceTypes(ctx context.Context, schemaID string) ([]domain.ReferenceType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.ReferenceType(nil), f.scopedRefs[schemaID]...), nil
}

func (f *fakeGateway) ReferenceTypeByName(ctx context.Context, name string) (domain.ReferenceType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rt := range f.globalRefs {
		if rt.Name == name {
			return rt, nil
		}
	}
	for _, scoped := range f.scopedRefs {
		for _, rt := range scoped {
			if rt.Name == name {
				return rt, nil
			}
		}
	}
	return domain.ReferenceType{}, domain.ErrNotFound
}

func (f *fakeGateway) CreateReferenceType(ctx context.Context, value domain.ReferenceType) (domain.ReferenceType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value.ID = f.id()
	if value.ObjectSchemaID == "" {
		f.globalRefs = append(f.globalRefs, value)
	} else {
		f.scopedRefs[value.ObjectSchemaID] = append(f.scopedRefs[value.ObjectSchemaID], value)
	}
	return value, nil
}

func (f *fakeGateway) ObjectTypes(ctx context.Context, schemaID string) ([]domain.ObjectType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.ObjectType(nil), f.objectTypes[schemaID]...), nil
}

func (f *fakeGateway) ObjectTypeByName(ctx context.Context, name, schemaID, parentID string) (domain.ObjectType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ot := range f.objectTypes[schemaID] {
		if ot.Name != name {
			continue
		}
		if parentID != "" && ot.ParentObjectTypeID != parentID {
			continue
		}
		return ot, nil
	}
	return domain.ObjectType{}, domain.ErrNotFound
}

func (f *fakeGateway) CreateObjectType(ctx context.Context, req domain.CreateObjectTypeRequest) (domain.ObjectType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ot := domain.ObjectType{
		ID:                 f.id(),
		Name:               req.Name,
		Description:        req.Description,
		Icon:               domain.Icon{ID: req.IconID},
		ObjectSchemaID:     req.ObjectSchemaID,
		ParentObjectTypeID: req.ParentObjectTypeID,
	}
	f.objectTypes[req.ObjectSchemaID] = append(f.objectTypes[req.ObjectSchemaID], ot)
	text := domain.DefaultText
	f.attributes[ot.ID] = []domain.Attribute{{
		ID:          f.id(),
		Name:        "Name",
		Label:       true,
		Type:        domain.KindDefault,
		DefaultType: &domain.DefaultType{ID: text},
	}}
	return ot, nil
}

func (f *fakeGateway) MoveObjectType(ctx context.Context, id, parentID string, position int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.typeMoves = append(f.typeMoves, fmt.Sprintf("%s->%s@%d", id, parentID, position))
	return nil
}

func (f *fakeGateway) ObjectTypeAttributes(ctx context.Context, objectTypeID string) ([]domain.Attribute, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Attribute(nil), f.attributes[objectTypeID]...), nil
}

func (f *fakeGateway) AttributeByName(ctx context.Context, objectTypeID, name string) (domain.Attribute, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, attr := range f.attributes[objectTypeID] {
		if attr.Name == name {
			return attr, nil
		}
	}
	return domain.Attribute{}, domain.ErrNotFound
}

func (f *fakeGateway) LabelAttribute(ctx context.Context, objectTypeID string) (domain.Attribute, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, attr := range f.attributes[objectTypeID] {
		if attr.Label {
			return attr, nil
		}
	}
	return domain.Attribute{}, domain.ErrNotFound
}

func (f *fakeGateway) CreateAttribute(ctx context.Context, req domain.CreateAttributeRequest) (domain.Attribute, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	attr := domain.Attribute{
		ID:              f.id(),
		Name:            req.Name,
		Type:            req.Type,
		Description:     req.Description,
		ObjectTypeID:    req.ObjectTypeID,
		AdditionalValue: req.AdditionalValue,
	}
	if req.DefaultTypeID != nil {
		attr.DefaultType = &domain.DefaultType{ID: *req.DefaultTypeID}
	}
	if req.Type == domain.KindReference {
		attr.ReferenceObjectType = &domain.ObjectType{ID: req.TypeValue}
	}
	f.attributes[req.ObjectTypeID] = append(f.attributes[req.ObjectTypeID], attr)
	return attr, nil
}

func (f *fakeGateway) UpdateAttribute(ctx context.Context, objectTypeID, attributeID string, req domain.UpdateAttributeRequest) (domain.Attribute, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, attr := range f.attributes[objectTypeID] {
		if attr.ID != attributeID {
			continue
		}
		if req.Suffix != "" {
			attr.Suffix = req.Suffix
		}
		if req.RegexValidation != "" {
			attr.RegexValidation = req.RegexValidation
		}
		if req.Options != "" {
			attr.Options = req.Options
		}
		if req.MinimumCardinality != nil {
			attr.MinimumCardinality = req.MinimumCardinality
		}
		if req.MaximumCardinality != nil {
			attr.MaximumCardinality = req.MaximumCardinality
		}
		f.attributes[objectTypeID][i] = attr
		return attr, nil
	}
	return domain.Attribute{}, domain.ErrNotFound
}

func (f *fakeGateway) MoveAttribute(ctx context.Context, objectTypeID, attributeID string, position int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attrMoves = append(f.attrMoves, fmt.Sprintf("%s/%s@%d", objectTypeID, attributeID, position))
	return nil
}

func (f *fakeGateway) Objects(ctx context.Context, iql string) ([]domain.ObjectInstance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id, ok := strings.CutPrefix(iql, `objectId=`); ok {
		id = strings.Trim(id, `"`)
		if obj, ok := f.objects[id]; ok {
			return []domain.ObjectInstance{obj}, nil
		}
		return nil, nil
	}
	if typeID, ok := strings.CutPrefix(iql, "objectTypeId="); ok {
		var out []domain.ObjectInstance
		for _, obj := range f.objects {
			if obj.ObjectType.ID == typeID {
				out = append(out, obj)
			}
		}
		return out, nil
	}
	return nil, nil
}

func (f *fakeGateway) ObjectData(ctx context.Context, objectID string) (domain.ObjectData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data[objectID], nil
}

func (f *fakeGateway) ObjectComments(ctx context.Context, objectID string) ([]domain.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Comment(nil), f.commentExports[objectID]...), nil
}

func (f *fakeGateway) ObjectHistory(ctx context.Context, objectID string) ([]domain.HistoryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.HistoryEntry(nil), f.historyExports[objectID]...), nil
}

func (f *fakeGateway) CreateObject(ctx context.Context, payload domain.ObjectPayload) (domain.ObjectInstance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	label := ""
	for _, attr := range payload.Attributes {
		for _, known := range f.attributes[payload.ObjectTypeID] {
			if known.ID == attr.ObjectTypeAttributeID && known.Label && len(attr.ObjectAttributeValues) > 0 {
				label = attr.ObjectAttributeValues[0].Value
			}
		}
	}
	typeName := ""
	for _, types := range f.objectTypes {
		for _, ot := range types {
			if ot.ID == payload.ObjectTypeID {
				typeName = ot.Name
			}
		}
	}
	obj := domain.ObjectInstance{
		ID:         f.id(),
		Label:      label,
		Name:       label,
		ObjectType: domain.ObjectRef{ID: payload.ObjectTypeID, Name: typeName},
	}
	obj.ObjectKey = "NEW-" + obj.ID
	f.objects[obj.ID] = obj
	return obj, nil
}

func (f *fakeGateway) UpdateObject(ctx context.Context, objectID string, payload domain.ObjectPayload) (domain.ObjectInstance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	obj, ok := f.objects[objectID]
	if !ok {
		return domain.ObjectInstance{}, domain.ErrNotFound
	}
	f.updates[objectID] = payload
	return obj, nil
}

func (f *fakeGateway) CreateComment(ctx context.Context, objectID, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.comments[objectID] = append(f.comments[objectID], body)
	return nil
}

func (f *fakeGateway) UserAccounts(ctx context.Context) ([]domain.UserAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.UserAccount(nil), f.users...), nil
}

func (f *fakeGateway) Groups(ctx context.Context) ([]domain.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Group(nil), f.groups...), nil
}

// fakeJournal records runs in memory.
type fakeJournal struct {
	mu       sync.Mutex
	runs     []domain.Run
	entities []domain.RunEntity
	finished map[string]string
	nextID   int
}

func newFakeJournal() *fakeJournal {
	return &fakeJournal{finished: make(map[string]string)}
}

func (j *fakeJournal) StartRun(ctx context.Context, kind, schemaKey string) (domain.Run, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.nextID++
	run := domain.Run{ID: fmt.Sprintf("run-%d", j.nextID), Kind: kind, SchemaKey: schemaKey, Outcome: "running"}
	j.runs = append(j.runs, run)
	return run, nil
}

func (j *fakeJournal) FinishRun(ctx context.Context, runID, outcome string, created, reused, skipped, failed int) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.finished[runID] = outcome
	return nil
}

func (j *fakeJournal) RecordEntity(ctx context.Context, value domain.RunEntity) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entities = append(j.entities, value)
	return nil
}

func (j *fakeJournal) ListRuns(ctx context.Context, limit int) ([]domain.Run, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]domain.Run(nil), j.runs...), nil
}

func (j *fakeJournal) ListRunEntities(ctx context.Context, runID string) ([]domain.RunEntity, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	var out []domain.RunEntity
	for _, e := range j.entities {
		if e.RunID == runID {
			out = append(out, e)
		}
	}
	return out, nil
}
