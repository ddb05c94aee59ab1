package assetsapi

import (
	"context"

	"github.com/Rudy-Tmc/backupAndRestoreAssetsCloud/internal/domain"
)

func (c *Client) ObjectTypes(ctx context.Context, schemaID string) ([]domain.ObjectType, error) {
	v, err := c.objectTypes.getOrLoad(schemaID, func() (any, error) {
		var out []domain.ObjectType
		if err := c.assetsGet(ctx, "/v1/objectschema/"+schemaID+"/objecttypes/flat", &out); err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.ObjectType), nil
}

// ObjectTypeByName finds a type by name within a schema. Names are unique
// only among siblings, so a non-empty parentID narrows the match; with an
// empty parentID the first name match wins, which is exact for root types.
func (c *Client) ObjectTypeByName(ctx context.Context, name, schemaID, parentID string) (domain.ObjectType, error) {
	types, err := c.ObjectTypes(ctx, schemaID)
	if err != nil {
		return domain.ObjectType{}, err
	}
	for _, ot := range types {
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

func (c *Client) CreateObjectType(ctx context.Context, req domain.CreateObjectTypeRequest) (domain.ObjectType, error) {
	var out domain.ObjectType
	if err := c.assetsPost(ctx, "/v1/objecttype/create", req, &out); err != nil {
		return domain.ObjectType{}, err
	}
	c.objectTypes.invalidate(req.ObjectSchemaID)
	return out, nil
}

func (c *Client) MoveObjectType(ctx context.Context, id, parentID string, position int) error {
	in := map[string]any{"toObjectTypeId": parentID, "position": position}
	return c.assetsPost(ctx, "/v1/objecttype/"+id+"/position", in, nil)
}

func (c *Client) ObjectTypeAttributes(ctx context.Context, objectTypeID string) ([]domain.Attribute, error) {
	v, err := c.attributes.getOrLoad(objectTypeID, func() (any, error) {
		var out []domain.Attribute
		if err := c.assetsGet(ctx, "/v1/objecttype/"+objectTypeID+"/attributes", &out); err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Attribute), nil
}

func (c *Client) AttributeByName(ctx context.Context, objectTypeID, name string) (domain.Attribute, error) {
	attrs, err := c.ObjectTypeAttributes(ctx, objectTypeID)
	if err != nil {
		return domain.Attribute{}, err
	}
	for _, attr := range attrs {
		if attr.Name == name {
			return attr, nil
		}
	}
	return domain.Attribute{}, domain.ErrNotFound
}

// LabelAttribute returns the attribute that renders as the object label.
func (c *Client) LabelAttribute(ctx context.Context, objectTypeID string) (domain.Attribute, error) {
	attrs, err := c.ObjectTypeAttributes(ctx, objectTypeID)
	if err != nil {
		return domain.Attribute{}, err
	}
	for _, attr := range attrs {
		if attr.Label {
			return attr, nil
		}
	}
	return domain.Attribute{}, domain.ErrNotFound
}

func (c *Client) CreateAttribute(ctx context.Context, req domain.CreateAttributeRequest) (domain.Attribute, error) {
	var out domain.Attribute
	if err := c.assetsPost(ctx, "/v1/objecttypeattribute/"+req.ObjectTypeID, req, &out); err != nil {
		return domain.Attribute{}, err
	}
	c.attributes.invalidate(req.ObjectTypeID)
	return out, nil
}

func (c *Client) UpdateAttribute(ctx context.Context, objectTypeID, attributeID string, req domain.UpdateAttributeRequest) (domain.Attribute, error) {
	var out domain.Attribute
	if err := c.assetsPut(ctx, "/v1/objecttypeattribute/"+objectTypeID+"/"+attributeID, req, &out); err != nil {
		return domain.Attribute{}, err
	}
	c.attributes.invalidate(objectTypeID)
	return out, nil
}

func (c *Client) MoveAttribute(ctx context.Context, objectTypeID, attributeID string, position int) error {
	in := map[string]any{"position": position}
	return c.assetsPost(ctx, "/v1/objecttypeattribute/"+objectTypeID+"/"+attributeID+"/move", in, nil)
}
