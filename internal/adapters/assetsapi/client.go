package assetsapi

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultWorkspaceBase is where the hosted assets API lives. Tests point
// this at a local fake through Options.WorkspaceBase.
const DefaultWorkspaceBase = "https://api.atlassian.com/jsm/assets/workspace/"

type Options struct {
	JiraURL  string
	Username string
	APIToken string

	// WorkspaceBase overrides DefaultWorkspaceBase when set.
	WorkspaceBase string
	// ThrottleLimit overrides the default per-minute request budget.
	ThrottleLimit int

	Logger zerolog.Logger
}

// Client talks to one site's assets REST API. It owns the credential
// header, the per-minute throttle and the entity caches.
type Client struct {
	httpClient *http.Client
	jiraURL    string
	assetsURL  string
	auth       string
	throttle   *throttle
	log        zerolog.Logger

	schemas        *cache
	statusTypes    *cache
	referenceTypes *cache
	objectTypes    *cache
	attributes     *cache
	users          *cache
	groups         *cache
}

type workspaceList struct {
	Values []struct {
		WorkspaceID string `json:"workspaceId"`
	} `json:"values"`
}

// Connect builds a client and resolves the site's workspace id. Missing
// credentials and an unresolvable workspace are both fatal: no replication
// may start without them.
func Connect(ctx context.Context, opts Options) (*Client, error) {
	if opts.JiraURL == "" {
		return nil, fmt.Errorf("site url was not provided")
	}
	if opts.Username == "" {
		return nil, fmt.Errorf("username was not provided")
	}
	if opts.APIToken == "" {
		return nil, fmt.Errorf("api token was not provided")
	}

	limit := opts.ThrottleLimit
	if limit <= 0 {
		limit = defaultThrottleLimit
	}

	c := &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		jiraURL:    strings.TrimRight(opts.JiraURL, "/"),
		auth:       base64.StdEncoding.EncodeToString([]byte(opts.Username + ":" + opts.APIToken)),
		throttle:   newThrottle(limit),
		log:        opts.Logger,

		schemas:        newCache(),
		statusTypes:    newCache(),
		referenceTypes: newCache(),
		objectTypes:    newCache(),
		attributes:     newCache(),
		users:          newCache(),
		groups:         newCache(),
	}

	var ws workspaceList
	if err := c.request(ctx, http.MethodGet, c.jiraURL+"/rest/servicedeskapi/assets/workspace", nil, &ws); err != nil {
		return nil, fmt.Errorf("resolve workspace id: %w", err)
	}
	if len(ws.Values) == 0 {
		return nil, fmt.Errorf("workspace id could not be found, can't continue")
	}

	base := opts.WorkspaceBase
	if base == "" {
		base = DefaultWorkspaceBase
	}
	c.assetsURL = strings.TrimRight(base, "/") + "/" + ws.Values[0].WorkspaceID
	c.log.Debug().Str("workspace", ws.Values[0].WorkspaceID).Msg("workspace resolved")
	return c, nil
}

func (c *Client) request(ctx context.Context, method, url string, in, out any) error {
	if err := c.throttle.wait(ctx); err != nil {
		return err
	}

	var body io.Reader
	if in != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(in); err != nil {
			return err
		}
		body = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Basic "+c.auth)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		payload, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("api error (%d): %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}
	if out == nil {
		return nil
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	return json.Unmarshal(payload, out)
}

func (c *Client) assetsGet(ctx context.Context, path string, out any) error {
	return c.request(ctx, http.MethodGet, c.assetsURL+path, nil, out)
}

func (c *Client) assetsPost(ctx context.Context, path string, in, out any) error {
	return c.request(ctx, http.MethodPost, c.assetsURL+path, in, out)
}

func (c *Client) assetsPut(ctx context.Context, path string, in, out any) error {
	return c.request(ctx, http.MethodPut, c.assetsURL+path, in, out)
}
