package domain

import "context"

// Gateway is the remote entity gateway. Implementations own throttling,
// credential headers and response decoding. A returned error means the
// operation did not happen; callers log and move on to the next unit of
// work instead of aborting the run.
type Gateway interface {
	ObjectSchemas(ctx context.Context) ([]ObjectSchema, error)
	ObjectSchemaByKey(ctx context.Context, key string) (ObjectSchema, error)
	ObjectSchemaByName(ctx context.Context, name string) (ObjectSchema, error)
	CreateObjectSchema(ctx context.Context, name, key, description string) (ObjectSchema, error)
	SchemaProperties(ctx context.Context, schemaID string) (SchemaProperties, error)
	UpdateSchemaProperties(ctx context.Context, schemaID string, props SchemaProperties) error

	GlobalStatusTypes(ctx context.Context) ([]StatusType, error)
	StatusTypes(ctx context.Context, schemaID string) ([]StatusType, error)
	StatusTypeByName(ctx context.Context, name string) (StatusType, error)
	CreateStatusType(ctx context.Context, value StatusType) (StatusType, error)

	GlobalReferenceTypes(ctx context.Context) ([]ReferenceType, error)
	ReferenceTypes(ctx context.Context, schemaID string) ([]ReferenceType, error)
	ReferenceTypeByName(ctx context.Context, name string) (ReferenceType, error)
	CreateReferenceType(ctx context.Context, value ReferenceType) (ReferenceType, error)

	ObjectTypes(ctx context.Context, schemaID string) ([]ObjectType, error)
	ObjectTypeByName(ctx context.Context, name, schemaID, parentID string) (ObjectType, error)
	CreateObjectType(ctx context.Context, req CreateObjectTypeRequest) (ObjectType, error)
	MoveObjectType(ctx context.Context, id, parentID string, position int) error

	ObjectTypeAttributes(ctx context.Context, objectTypeID string) ([]Attribute, error)
	AttributeByName(ctx context.Context, objectTypeID, name string) (Attribute, error)
	LabelAttribute(ctx context.Context, objectTypeID string) (Attribute, error)
	CreateAttribute(ctx context.Context, req CreateAttributeRequest) (Attribute, error)
	UpdateAttribute(ctx context.Context, objectTypeID, attributeID string, req UpdateAttributeRequest) (Attribute, error)
	MoveAttribute(ctx context.Context, objectTypeID, attributeID string, position int) error

	Objects(ctx context.Context, iql string) ([]ObjectInstance, error)
	ObjectData(ctx context.Context, objectID string) (ObjectData, error)
	ObjectComments(ctx context.Context, objectID string) ([]Comment, error)
	ObjectHistory(ctx context.Context, objectID string) ([]HistoryEntry, error)
	CreateObject(ctx context.Context, payload ObjectPayload) (ObjectInstance, error)
	UpdateObject(ctx context.Context, objectID string, payload ObjectPayload) (ObjectInstance, error)
	CreateComment(ctx context.Context, objectID, body string) error

	UserAccounts(ctx context.Context) ([]UserAccount, error)
	Groups(ctx context.Context) ([]Group, error)
}

// SnapshotStore maps entity names and folder paths to JSON blobs on
// persistent storage.
type SnapshotStore interface {
	SaveJSON(name, dir string, v any) error
	LoadJSON(path string, v any) error
	Exists(path string) bool
	ListJSON(dir string) ([]string, error)
	Zip(dir, target string) error
	Unzip(archive, dir string) error
}

// RunJournal records backup and restore runs for reporting. It never feeds
// resume logic; the translation snapshot owns that.
type RunJournal interface {
	StartRun(ctx context.Context, kind, schemaKey string) (Run, error)
	FinishRun(ctx context.Context, runID, outcome string, created, reused, skipped, failed int) error
	RecordEntity(ctx context.Context, value RunEntity) error
	ListRuns(ctx context.Context, limit int) ([]Run, error)
	ListRunEntities(ctx context.Context, runID string) ([]RunEntity, error)
}
