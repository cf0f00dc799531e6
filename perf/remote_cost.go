package perf

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/evergreen-ci/utility"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

// RemoteCostOptions describe an HTTP service that evaluates interval costs.
type RemoteCostOptions struct {
	BaseURL string
	User    string
	Token   string
	// Length is the size of the series the remote service evaluates.
	Length int
	// Timeout bounds each cost request. Defaults to
	// DefaultRemoteCostTimeout.
	Timeout time.Duration
}

// DefaultRemoteCostTimeout bounds a single remote cost request.
const DefaultRemoteCostTimeout = 30 * time.Second

func (opts *RemoteCostOptions) validate() error {
	catcher := grip.NewBasicCatcher()
	catcher.NewWhen(opts.BaseURL == "", "must specify a base url")
	catcher.NewWhen(opts.Length < 0, "domain length must not be negative")
	catcher.NewWhen(opts.Timeout < 0, "timeout must not be negative")
	if opts.Timeout == 0 {
		opts.Timeout = DefaultRemoteCostTimeout
	}
	return catcher.Resolve()
}

type remoteCostRequest struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

type remoteCostResponse struct {
	Cost float64 `json:"cost"`
}

type remoteCostClient struct {
	timeout time.Duration
	user    string
	token   string
	baseURL string
}

// NewRemoteCost returns an ExternalCost backed by a remote service. Every
// Eval issues one POST to <BaseURL>/cost, bounded by opts.Timeout.
func NewRemoteCost(opts RemoteCostOptions) (*ExternalCost, error) {
	if err := opts.validate(); err != nil {
		return nil, errors.Wrap(err, "invalid remote cost options")
	}

	client := &remoteCostClient{
		timeout: opts.Timeout,
		user:    opts.User,
		token:   opts.Token,
		baseURL: strings.TrimSuffix(opts.BaseURL, "/"),
	}

	return NewExternalCost(opts.Length, client.eval)
}

func (rc *remoteCostClient) eval(start, end int) (float64, error) {
	startAt := time.Now()

	body, err := json.Marshal(remoteCostRequest{Start: start, End: end})
	if err != nil {
		return 0, errors.Wrap(err, "encoding cost request")
	}

	conf := utility.NewDefaultHTTPRetryConf()
	conf.Errors = []error{
		// a connection cut by a load balancer can surface as an EOF
		// rather than an error
		io.EOF,
	}
	client := utility.GetHTTPRetryableClient(conf)
	defer utility.PutHTTPClient(client)

	ctx, cancel := context.WithTimeout(context.Background(), rc.timeout)
	defer cancel()

	route := rc.baseURL + "/cost"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, route, bytes.NewBuffer(body))
	if err != nil {
		return 0, errors.Wrapf(err, "building request for '%s'", route)
	}
	req.Header.Add("Cookie", fmt.Sprintf("auth_user=%v;auth_token=%v", rc.user, rc.token))
	req.Header.Add("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return 0, errors.Wrapf(err, "requesting cost from '%s'", route)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, errors.Errorf("cost service at '%s' returned '%s'", route, http.StatusText(resp.StatusCode))
	}

	out := remoteCostResponse{}
	if err = json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, errors.Wrap(err, "decoding cost response")
	}

	grip.Debug(message.Fields{
		"message":       "evaluated remote cost",
		"url":           route,
		"start":         start,
		"end":           end,
		"cost":          out.Cost,
		"duration_secs": time.Since(startAt).Seconds(),
	})

	return out.Cost, nil
}
