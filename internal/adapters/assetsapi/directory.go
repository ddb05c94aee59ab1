package assetsapi

import (
	"context"
	"net/http"

	"github.com/Rudy-Tmc/backupAndRestoreAssetsCloud/internal/domain"
)

// UserAccounts lists every account on the site. The listing is fetched once
// per connection: user attributes resolve against it constantly during a
// restore and the directory does not change mid-run.
func (c *Client) UserAccounts(ctx context.Context) ([]domain.UserAccount, error) {
	v, err := c.users.getOrLoad("all", func() (any, error) {
		var out []domain.UserAccount
		url := c.jiraURL + "/rest/api/3/users/search?startAt=0&maxResults=10000"
		if err := c.request(ctx, http.MethodGet, url, nil, &out); err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.UserAccount), nil
}

type groupPage struct {
	Values []domain.Group `json:"values"`
}

func (c *Client) Groups(ctx context.Context) ([]domain.Group, error) {
	v, err := c.groups.getOrLoad("all", func() (any, error) {
		var page groupPage
		url := c.jiraURL + "/rest/api/3/group/bulk?startAt=0&maxResults=1000"
		if err := c.request(ctx, http.MethodGet, url, nil, &page); err != nil {
			return nil, err
		}
		return page.Values, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Group), nil
}
