package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/evergreen-ci/binseg/rest/model"
	"github.com/evergreen-ci/gimlet"
	"github.com/mongodb/grip"
	"github.com/pkg/errors"
)

const (
	defaultClientPort int = 3000
	maxClientPort         = 65535
)

// Client provides an interface for interacting with a remote binseg
// Service.
type Client struct {
	host   string
	prefix string
	port   int
	client *http.Client
}

// NewClient takes host, port, and URI prefix information and
// constructs a new Client.
func NewClient(host string, port int, prefix string) (*Client, error) {
	c := &Client{client: &http.Client{}}

	return c.initClient(host, port, prefix)
}

// NewClientFromExisting takes an existing http.Client object and
// produces a new Client object.
func NewClientFromExisting(client *http.Client, host string, port int, prefix string) (*Client, error) {
	if client == nil {
		return nil, errors.New("must use a non-nil existing client")
	}

	c := &Client{client: client}

	return c.initClient(host, port, prefix)
}

// Copy takes an existing Client object and returns a new client
// object with the same settings that uses a *new* http.Client.
func (c *Client) Copy() *Client {
	out := &Client{}
	*out = *c
	out.client = &http.Client{}

	return out
}

func (c *Client) initClient(host string, port int, prefix string) (*Client, error) {
	var err error

	err = c.SetHost(host)
	if err != nil {
		return nil, err
	}

	err = c.SetPort(port)
	if err != nil {
		return nil, err
	}

	err = c.SetPrefix(prefix)
	if err != nil {
		return nil, err
	}

	return c, nil
}

////////////////////////////////////////////////////////////////////////
//
// Configuration Interface
//
////////////////////////////////////////////////////////////////////////

// Client returns a pointer to embedded http.Client object.
func (c *Client) Client() *http.Client {
	return c.client
}

// SetHost allows callers to change the hostname (including leading
// "http(s)") for the Client. Returns an error if the specified host
// does not start with "http".
func (c *Client) SetHost(h string) error {
	if !strings.HasPrefix(h, "http") {
		return errors.Errorf("host '%s' is malformed. must start with 'http'", h)
	}

	if strings.HasSuffix(h, "/") {
		h = h[:len(h)-1]
	}

	c.host = h

	return nil
}

// Host returns the current host.
func (c *Client) Host() string {
	return c.host
}

// SetPort allows callers to change the port used for the client. If
// the port is invalid, returns an error and sets the port to the
// default value. (3000)
func (c *Client) SetPort(p int) error {
	if p <= 0 || p >= maxClientPort {
		c.port = defaultClientPort
		return errors.Errorf("cannot set the port to %d, using %d instead", p, defaultClientPort)
	}

	c.port = p
	return nil
}

// Port returns the current port value for the Client.
func (c *Client) Port() int {
	return c.port
}

// SetPrefix allows callers to modify the prefix, for this client,
func (c *Client) SetPrefix(p string) error {
	c.prefix = strings.Trim(p, "/")
	return nil
}

// Prefix accesses the prefix for the client, The prefix is the part
// of the URI between the end-point and the hostname, of the API.
func (c *Client) Prefix() string {
	return c.prefix
}

func (c *Client) getURL(endpoint string) string {
	var url []string

	if c.port == 80 || c.port == 0 {
		url = append(url, c.host)
	} else {
		url = append(url, fmt.Sprintf("%s:%d", c.host, c.port))
	}

	if c.prefix != "" {
		url = append(url, c.prefix)
	}

	if endpoint = strings.Trim(endpoint, "/"); endpoint != "" {
		url = append(url, endpoint)
	}

	return strings.Join(url, "/")
}

////////////////////////////////////////////////////////////////////////
//
// Public Operations that Interact with the Service
//
////////////////////////////////////////////////////////////////////////

// StatusResponse is the body of GET /status.
type StatusResponse struct {
	BuildRevision string          `json:"build_revision"`
	CostKinds     []string        `json:"cost_kinds"`
	Queue         json.RawMessage `json:"queue,omitempty"`
}

func (c *Client) GetStatus(ctx context.Context) (*StatusResponse, error) {
	out := &StatusResponse{}
	if err := c.do(ctx, http.MethodGet, "/v1/status", nil, out); err != nil {
		return nil, errors.Wrap(err, "problem getting status")
	}

	return out, nil
}

// FindSplit runs a search on the service and waits for the result.
func (c *Client) FindSplit(ctx context.Context, req model.APISplitRequest) (*model.APISplitResult, error) {
	out := &model.APISplitResult{}
	if err := c.do(ctx, http.MethodPost, "/v1/split", req, out); err != nil {
		return nil, errors.Wrap(err, "problem finding split")
	}

	return out, nil
}

// CreateSplitJob queues a search on the service.
func (c *Client) CreateSplitJob(ctx context.Context, req model.APISplitRequest) (*model.APISplitJob, error) {
	out := &model.APISplitJob{}
	if err := c.do(ctx, http.MethodPost, "/v1/split/jobs", req, out); err != nil {
		return nil, errors.Wrap(err, "problem creating split job")
	}

	return out, nil
}

// GetSplitJob fetches the state of a queued search.
func (c *Client) GetSplitJob(ctx context.Context, id string) (*model.APISplitJob, error) {
	out := &model.APISplitJob{}
	if err := c.do(ctx, http.MethodGet, "/v1/split/jobs/"+id, nil, out); err != nil {
		return nil, errors.Wrapf(err, "problem getting split job '%s'", id)
	}

	return out, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, in, out interface{}) error {
	var body *bytes.Buffer
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "problem encoding request")
		}
		body = bytes.NewBuffer(payload)
	} else {
		body = &bytes.Buffer{}
	}

	url := c.getURL(endpoint)
	grip.Debugln(method, url)

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return errors.WithStack(err)
	}
	if in != nil {
		req.Header.Add("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "problem making request to '%s'", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errResp := gimlet.ErrorResponse{}
		if err = gimlet.GetJSON(resp.Body, &errResp); err != nil || errResp.Message == "" {
			return errors.Errorf("'%s' returned '%s'", url, http.StatusText(resp.StatusCode))
		}
		if errResp.StatusCode == 0 {
			errResp.StatusCode = resp.StatusCode
		}
		return errResp
	}

	return errors.Wrap(gimlet.GetJSON(resp.Body, out), "problem reading response")
}
