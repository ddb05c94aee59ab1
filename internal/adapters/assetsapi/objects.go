package assetsapi

import (
	"context"
	"fmt"
	"net/url"

	"github.com/Rudy-Tmc/backupAndRestoreAssetsCloud/internal/domain"
)

type iqlPage struct {
	IQLSearchResult bool                    `json:"iqlSearchResult"`
	ObjectEntries   []domain.ObjectInstance `json:"objectEntries"`
	PageNumber      int                     `json:"pageNumber"`
	PageSize        int                     `json:"pageSize"`
}

// Objects runs an IQL query and follows every result page. PageSize on the
// wire is the total number of pages, not the page length.
func (c *Client) Objects(ctx context.Context, iql string) ([]domain.ObjectInstance, error) {
	base := "/v1/iql/objects?includeExtendedInfo=false&includeAttributes=true&includeAttributesDeep=1&iql=" + url.QueryEscape(iql)

	var page iqlPage
	if err := c.assetsGet(ctx, base, &page); err != nil {
		return nil, err
	}
	if !page.IQLSearchResult {
		return nil, nil
	}

	objects := page.ObjectEntries
	nextPage := page.PageNumber + 1
	totalPages := page.PageSize
	for nextPage <= totalPages {
		var next iqlPage
		if err := c.assetsGet(ctx, fmt.Sprintf("%s&page=%d", base, nextPage), &next); err != nil {
			return nil, err
		}
		objects = append(objects, next.ObjectEntries...)
		nextPage = next.PageNumber + 1
	}
	return objects, nil
}

type objectAttributeEntry struct {
	ObjectTypeAttribute struct {
		Name string `json:"name"`
	} `json:"objectTypeAttribute"`
	ObjectAttributeValues []struct {
		DisplayValue   string `json:"displayValue"`
		SearchValue    string `json:"searchValue"`
		ReferencedType bool   `json:"referencedType"`
	} `json:"objectAttributeValues"`
}

// ObjectData fetches one object's attribute values in snapshot form:
// reference values keep both display and search value, everything else
// keeps its display value only.
func (c *Client) ObjectData(ctx context.Context, objectID string) (domain.ObjectData, error) {
	var entries []objectAttributeEntry
	if err := c.assetsGet(ctx, "/v1/object/"+objectID+"/attributes", &entries); err != nil {
		return nil, err
	}

	data := make(domain.ObjectData, len(entries))
	for _, entry := range entries {
		values := make(domain.ValueSet, 0, len(entry.ObjectAttributeValues))
		for _, value := range entry.ObjectAttributeValues {
			values = append(values, domain.AttributeValue{
				DisplayValue: value.DisplayValue,
				SearchValue:  value.SearchValue,
				Reference:    value.ReferencedType,
			})
		}
		data[entry.ObjectTypeAttribute.Name] = values
	}
	return data, nil
}

func (c *Client) ObjectComments(ctx context.Context, objectID string) ([]domain.Comment, error) {
	var out []domain.Comment
	err := c.assetsGet(ctx, "/v1/comment/object/"+objectID, &out)
	return out, err
}

func (c *Client) ObjectHistory(ctx context.Context, objectID string) ([]domain.HistoryEntry, error) {
	var out []domain.HistoryEntry
	err := c.assetsGet(ctx, "/v1/object/"+objectID+"/history", &out)
	return out, err
}

func (c *Client) CreateObject(ctx context.Context, payload domain.ObjectPayload) (domain.ObjectInstance, error) {
	var out domain.ObjectInstance
	if err := c.assetsPost(ctx, "/v1/object/create", payload, &out); err != nil {
		return domain.ObjectInstance{}, err
	}
	return out, nil
}

func (c *Client) UpdateObject(ctx context.Context, objectID string, payload domain.ObjectPayload) (domain.ObjectInstance, error) {
	var out domain.ObjectInstance
	if err := c.assetsPut(ctx, "/v1/object/"+objectID, payload, &out); err != nil {
		return domain.ObjectInstance{}, err
	}
	return out, nil
}

func (c *Client) CreateComment(ctx context.Context, objectID, body string) error {
	in := map[string]any{"role": 0, "objectId": objectID, "comment": body}
	return c.assetsPost(ctx, "/v1/comment/create", in, nil)
}
