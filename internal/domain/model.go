package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Category partitions identifier translations so numerically colliding ids
// of different entity kinds never cross-contaminate.
type Category string

const (
	CategorySchema        Category = "objectschema"
	CategoryStatusType    Category = "statustype"
	CategoryReferenceType Category = "referencetype"
	CategoryObjectType    Category = "objecttype"
	CategoryAttribute     Category = "attribute"
	CategoryObject        Category = "object"
)

// AttributeKind mirrors the remote attribute "type" tag.
type AttributeKind int

const (
	KindDefault   AttributeKind = 0
	KindReference AttributeKind = 1
	KindUser      AttributeKind = 2
	KindGroup     AttributeKind = 4
	KindStatus    AttributeKind = 7
)

// DefaultKind mirrors the remote "defaultType" id for KindDefault attributes.
type DefaultKind int

const (
	DefaultNone      DefaultKind = -1
	DefaultText      DefaultKind = 0
	DefaultInteger   DefaultKind = 1
	DefaultBoolean   DefaultKind = 2
	DefaultDouble    DefaultKind = 3
	DefaultDate      DefaultKind = 4
	DefaultTime      DefaultKind = 5
	DefaultDateTime  DefaultKind = 6
	DefaultURL       DefaultKind = 7
	DefaultEmail     DefaultKind = 8
	DefaultTextArea  DefaultKind = 9
	DefaultSelect    DefaultKind = 10
	DefaultIPAddress DefaultKind = 11
)

type ObjectSchema struct {
	ID          string `json:"id"`
	Key         string `json:"objectSchemaKey"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type SchemaProperties struct {
	AllowOtherObjectSchema      *bool `json:"allowOtherObjectSchema,omitempty"`
	CreateObjectsCustomField    *bool `json:"createObjectsCustomField,omitempty"`
	QuickCreateObjects          *bool `json:"quickCreateObjects,omitempty"`
	ServiceDescCustomersEnabled *bool `json:"serviceDescCustomersEnabled,omitempty"`
	ValidateQuickCreate         *bool `json:"validateQuickCreate,omitempty"`
}

type StatusType struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Category       int    `json:"category"`
	Description    string `json:"description,omitempty"`
	ObjectSchemaID string `json:"objectSchemaId,omitempty"`
}

type ReferenceType struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Color          string `json:"color,omitempty"`
	Description    string `json:"description,omitempty"`
	ObjectSchemaID string `json:"objectSchemaId,omitempty"`
}

type Icon struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// ObjectType is one node in a schema's type forest. Root types carry no
// parent id; a name is unique only among siblings of the same parent.
type ObjectType struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Description        string `json:"description,omitempty"`
	Icon               Icon   `json:"icon"`
	Position           int    `json:"position"`
	ObjectSchemaID     string `json:"objectSchemaId"`
	ParentObjectTypeID string `json:"parentObjectTypeId,omitempty"`
	Inherited          bool   `json:"inherited,omitempty"`
	AbstractObjectType bool   `json:"abstractObjectType,omitempty"`
}

type DefaultType struct {
	ID   DefaultKind `json:"id"`
	Name string      `json:"name,omitempty"`
}

type Attribute struct {
	ID                      string         `json:"id"`
	Name                    string         `json:"name"`
	Label                   bool           `json:"label,omitempty"`
	Type                    AttributeKind  `json:"type"`
	DefaultType             *DefaultType   `json:"defaultType,omitempty"`
	Description             string         `json:"description,omitempty"`
	ObjectTypeID            string         `json:"objectTypeId,omitempty"`
	Position                int            `json:"position"`
	ReferenceObjectType     *ObjectType    `json:"referenceObjectType,omitempty"`
	ReferenceType           *ReferenceType `json:"referenceType,omitempty"`
	MinimumCardinality      *int           `json:"minimumCardinality,omitempty"`
	MaximumCardinality      *int           `json:"maximumCardinality,omitempty"`
	Suffix                  string         `json:"suffix,omitempty"`
	Summable                bool           `json:"summable,omitempty"`
	RegexValidation         string         `json:"regexValidation,omitempty"`
	Options                 string         `json:"options,omitempty"`
	IQL                     string         `json:"iql,omitempty"`
	IncludeChildObjectTypes bool           `json:"includeChildObjectTypes,omitempty"`
	AdditionalValue         string         `json:"additionalValue,omitempty"`
	TypeValueMulti          []string       `json:"typeValueMulti,omitempty"`
}

type ObjectRef struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

type ObjectInstance struct {
	ID         string    `json:"id"`
	Label      string    `json:"label"`
	Name       string    `json:"name,omitempty"`
	ObjectKey  string    `json:"objectKey,omitempty"`
	ObjectType ObjectRef `json:"objectType"`
}

// AttributeValue is a single exported value: either a plain display string
// or a reference descriptor carrying the foreign object's search value
// ("<SCHEMAKEY>-<id>").
type AttributeValue struct {
	DisplayValue string
	SearchValue  string
	Reference    bool
}

// ValueSet is the full exported value of one attribute. Its snapshot form
// collapses a single element to a bare value; references render as
// {displayValue, searchValue} pairs, plain values as strings.
type ValueSet []AttributeValue

type refValue struct {
	DisplayValue string `json:"displayValue"`
	SearchValue  string `json:"searchValue"`
}

func (v ValueSet) MarshalJSON() ([]byte, error) {
	encode := func(av AttributeValue) any {
		if av.Reference {
			return refValue{DisplayValue: av.DisplayValue, SearchValue: av.SearchValue}
		}
		return av.DisplayValue
	}
	if len(v) == 1 {
		return json.Marshal(encode(v[0]))
	}
	out := make([]any, 0, len(v))
	for _, av := range v {
		out = append(out, encode(av))
	}
	return json.Marshal(out)
}

func (v *ValueSet) UnmarshalJSON(data []byte) error {
	decode := func(raw json.RawMessage) (AttributeValue, error) {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return AttributeValue{DisplayValue: s}, nil
		}
		var rv refValue
		if err := json.Unmarshal(raw, &rv); err != nil {
			return AttributeValue{}, fmt.Errorf("attribute value is neither string nor reference: %w", err)
		}
		return AttributeValue{DisplayValue: rv.DisplayValue, SearchValue: rv.SearchValue, Reference: true}, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		av, err := decode(data)
		if err != nil {
			return err
		}
		*v = ValueSet{av}
		return nil
	}
	out := make(ValueSet, 0, len(items))
	for _, raw := range items {
		av, err := decode(raw)
		if err != nil {
			return err
		}
		out = append(out, av)
	}
	*v = out
	return nil
}

// ObjectData is the attribute-name keyed value map of one exported object.
type ObjectData map[string]ValueSet

type Actor struct {
	DisplayName string `json:"displayName"`
}

type Comment struct {
	ID       string `json:"id,omitempty"`
	ObjectID string `json:"objectId"`
	Created  string `json:"created"`
	Actor    Actor  `json:"actor"`
	Comment  string `json:"comment"`
	Role     int    `json:"role,omitempty"`
}

type HistoryEntry struct {
	ObjectID          string `json:"objectId"`
	Created           string `json:"created"`
	Type              int    `json:"type"`
	Actor             Actor  `json:"actor"`
	AffectedAttribute string `json:"affectedAttribute,omitempty"`
	OldValue          string `json:"oldValue,omitempty"`
	NewValue          string `json:"newValue,omitempty"`
}

// ObjectPayload is the serialized attribute-value payload for object
// create and update calls.
type ObjectPayload struct {
	ObjectTypeID string             `json:"objectTypeId"`
	Attributes   []PayloadAttribute `json:"attributes"`
}

type PayloadAttribute struct {
	ObjectTypeAttributeID string         `json:"objectTypeAttributeId"`
	ObjectAttributeValues []PayloadValue `json:"objectAttributeValues"`
}

type PayloadValue struct {
	Value string `json:"value"`
}

type CreateObjectTypeRequest struct {
	ObjectSchemaID     string `json:"objectSchemaId"`
	Name               string `json:"name"`
	IconID             string `json:"iconId"`
	Description        string `json:"description,omitempty"`
	Inherited          bool   `json:"inherited,omitempty"`
	AbstractObjectType bool   `json:"abstractObjectType,omitempty"`
	ParentObjectTypeID string `json:"parentObjectTypeId,omitempty"`
}

type CreateAttributeRequest struct {
	ObjectTypeID    string        `json:"objectTypeId"`
	Type            AttributeKind `json:"type"`
	Name            string        `json:"name"`
	DefaultTypeID   *DefaultKind  `json:"defaultTypeId,omitempty"`
	Description     string        `json:"description,omitempty"`
	TypeValue       string        `json:"typeValue,omitempty"`
	AdditionalValue string        `json:"additionalValue,omitempty"`
}

// UpdateAttributeRequest carries the per-kind restrictions applied after
// an attribute exists: cardinality bounds, validation, options, suffixes.
type UpdateAttributeRequest struct {
	DefaultTypeID           *DefaultKind `json:"defaultTypeId,omitempty"`
	Suffix                  string       `json:"suffix,omitempty"`
	Summable                *bool        `json:"summable,omitempty"`
	RegexValidation         string       `json:"regexValidation,omitempty"`
	Options                 string       `json:"options,omitempty"`
	MinimumCardinality      *int         `json:"minimumCardinality,omitempty"`
	MaximumCardinality      *int         `json:"maximumCardinality,omitempty"`
	IncludeChildObjectTypes *bool        `json:"includeChildObjectTypes,omitempty"`
	IQL                     string       `json:"iql,omitempty"`
	AdditionalValue         string       `json:"additionalValue,omitempty"`
	TypeValueMulti          []string     `json:"typeValueMulti,omitempty"`
}

type UserAccount struct {
	AccountID    string `json:"accountId"`
	DisplayName  string `json:"displayName,omitempty"`
	EmailAddress string `json:"emailAddress,omitempty"`
}

type Group struct {
	GroupID string `json:"groupId"`
	Name    string `json:"name"`
}

// MigrationJob maps one exported schema onto its destination identity.
type MigrationJob struct {
	OldObjectSchemaKey  string `json:"oldObjectSchemaKey"`
	NewObjectSchemaKey  string `json:"newObjectSchemaKey"`
	NewObjectSchemaName string `json:"newObjectSchemaName"`
}

// Run is one journal row describing a backup or restore invocation.
type Run struct {
	ID         string
	Kind       string
	SchemaKey  string
	Outcome    string
	Created    int
	Reused     int
	Skipped    int
	Failed     int
	StartedAt  time.Time
	FinishedAt *time.Time
}

// RunEntity records the outcome of one entity within a run.
type RunEntity struct {
	ID       uint
	RunID    string
	Category Category
	Name     string
	OldID    string
	NewID    string
	Outcome  string
	Detail   string
}

const (
	RunKindBackup  = "backup"
	RunKindRestore = "restore"

	OutcomeCreated = "created"
	OutcomeReused  = "reused"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)
