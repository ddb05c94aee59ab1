package assetsapi

import (
	"context"
	"fmt"

	"github.com/Rudy-Tmc/backupAndRestoreAssetsCloud/internal/domain"
)

type schemaPage struct {
	Values     []domain.ObjectSchema `json:"values"`
	Total      int                   `json:"total"`
	MaxResults int                   `json:"maxResults"`
	IsLast     bool                  `json:"isLast"`
}

func (c *Client) ObjectSchemas(ctx context.Context) ([]domain.ObjectSchema, error) {
	v, err := c.schemas.getOrLoad("all", func() (any, error) {
		var result []domain.ObjectSchema
		startAt := 0
		for {
			var page schemaPage
			path := fmt.Sprintf("/v1/objectschema/list?maxResults=50&startAt=%d", startAt)
			if err := c.assetsGet(ctx, path, &page); err != nil {
				return nil, err
			}
			if page.Total == 0 {
				break
			}
			result = append(result, page.Values...)
			if page.IsLast {
				break
			}
			startAt += page.MaxResults
		}
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.ObjectSchema), nil
}

// InvalidateSchemas drops the cached schema listing so the next lookup sees
// schemas created since the connection was opened.
func (c *Client) InvalidateSchemas() {
	c.schemas.invalidate("all")
}

func (c *Client) ObjectSchemaByKey(ctx context.Context, key string) (domain.ObjectSchema, error) {
	schemas, err := c.ObjectSchemas(ctx)
	if err != nil {
		return domain.ObjectSchema{}, err
	}
	for _, schema := range schemas {
		if schema.Key == key {
			return schema, nil
		}
	}
	return domain.ObjectSchema{}, domain.ErrNotFound
}

func (c *Client) ObjectSchemaByName(ctx context.Context, name string) (domain.ObjectSchema, error) {
	schemas, err := c.ObjectSchemas(ctx)
	if err != nil {
		return domain.ObjectSchema{}, err
	}
	for _, schema := range schemas {
		if schema.Name == name {
			return schema, nil
		}
	}
	return domain.ObjectSchema{}, domain.ErrNotFound
}

func (c *Client) CreateObjectSchema(ctx context.Context, name, key, description string) (domain.ObjectSchema, error) {
	in := map[string]any{"name": name, "objectSchemaKey": key}
	if description != "" {
		in["description"] = description
	}
	var out domain.ObjectSchema
	if err := c.assetsPost(ctx, "/v1/objectschema/create", in, &out); err != nil {
		return domain.ObjectSchema{}, err
	}
	c.schemas.invalidate("all")
	return out, nil
}

func (c *Client) SchemaProperties(ctx context.Context, schemaID string) (domain.SchemaProperties, error) {
	var out domain.SchemaProperties
	err := c.assetsGet(ctx, "/v1/global/config/objectschema/"+schemaID+"/property", &out)
	return out, err
}

func (c *Client) UpdateSchemaProperties(ctx context.Context, schemaID string, props domain.SchemaProperties) error {
	return c.assetsPost(ctx, "/v1/global/config/objectschema/"+schemaID+"/property", props, nil)
}

func (c *Client) GlobalStatusTypes(ctx context.Context) ([]domain.StatusType, error) {
	v, err := c.statusTypes.getOrLoad("global", func() (any, error) {
		var out []domain.StatusType
		if err := c.assetsGet(ctx, "/v1/config/statustype", &out); err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.StatusType), nil
}

func (c *Client) StatusTypes(ctx context.Context, schemaID string) ([]domain.StatusType, error) {
	v, err := c.statusTypes.getOrLoad(schemaID, func() (any, error) {
		var out []domain.StatusType
		if err := c.assetsGet(ctx, "/v1/config/statustype?objectSchemaId="+schemaID, &out); err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.StatusType), nil
}

// StatusTypeByName searches global status types and then every schema's,
// since the name is the only identity that is portable across sites.
func (c *Client) StatusTypeByName(ctx context.Context, name string) (domain.StatusType, error) {
	all, err := c.allStatusTypes(ctx)
	if err != nil {
		return domain.StatusType{}, err
	}
	for _, st := range all {
		if st.Name == name {
			return st, nil
		}
	}
	return domain.StatusType{}, domain.ErrNotFound
}

func (c *Client) allStatusTypes(ctx context.Context) ([]domain.StatusType, error) {
	all, err := c.GlobalStatusTypes(ctx)
	if err != nil {
		return nil, err
	}
	schemas, err := c.ObjectSchemas(ctx)
	if err != nil {
		return nil, err
	}
	for _, schema := range schemas {
		scoped, err := c.StatusTypes(ctx, schema.ID)
		if err != nil {
			return nil, err
		}
		all = append(all, scoped...)
	}
	return all, nil
}

func (c *Client) CreateStatusType(ctx context.Context, value domain.StatusType) (domain.StatusType, error) {
	in := map[string]any{"name": value.Name, "category": value.Category}
	if value.ObjectSchemaID != "" {
		in["description"] = value.Description
		in["objectSchemaId"] = value.ObjectSchemaID
	}
	var out domain.StatusType
	if err := c.assetsPost(ctx, "/v1/config/statustype", in, &out); err != nil {
		return domain.StatusType{}, err
	}
	c.statusTypes.invalidateAll()
	return out, nil
}

func (c *Client) GlobalReferenceTypes(ctx context.Context) ([]domain.ReferenceType, error) {
	v, err := c.referenceTypes.getOrLoad("global", func() (any, error) {
		var out []domain.ReferenceType
		if err := c.assetsGet(ctx, "/v1/config/referencetype", &out); err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.ReferenceType), nil
}

func (c *Client) ReferenceTypes(ctx context.Context, schemaID string) ([]domain.ReferenceType, error) {
	v, err := c.referenceTypes.getOrLoad(schemaID, func() (any, error) {
		var out []domain.ReferenceType
		if err := c.assetsGet(ctx, "/v1/config/referencetype?objectSchemaId="+schemaID, &out); err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.ReferenceType), nil
}

func (c *Client) ReferenceTypeByName(ctx context.Context, name string) (domain.ReferenceType, error) {
	all, err := c.GlobalReferenceTypes(ctx)
	if err != nil {
		return domain.ReferenceType{}, err
	}
	schemas, err := c.ObjectSchemas(ctx)
	if err != nil {
		return domain.ReferenceType{}, err
	}
	for _, schema := range schemas {
		scoped, err := c.ReferenceTypes(ctx, schema.ID)
		if err != nil {
			return domain.ReferenceType{}, err
		}
		all = append(all, scoped...)
	}
	for _, rt := range all {
		if rt.Name == name {
			return rt, nil
		}
	}
	return domain.ReferenceType{}, domain.ErrNotFound
}

func (c *Client) CreateReferenceType(ctx context.Context, value domain.ReferenceType) (domain.ReferenceType, error) {
	in := map[string]any{"name": value.Name, "description": value.Description, "color": value.Color}
	if value.ObjectSchemaID != "" {
		in["objectSchemaId"] = value.ObjectSchemaID
	}
	var out domain.ReferenceType
	if err := c.assetsPost(ctx, "/v1/config/referencetype", in, &out); err != nil {
		return domain.ReferenceType{}, err
	}
	c.referenceTypes.invalidateAll()
	return out, nil
}
