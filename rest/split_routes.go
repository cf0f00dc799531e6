package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/evergreen-ci/binseg"
	"github.com/evergreen-ci/binseg/perf"
	"github.com/evergreen-ci/binseg/rest/model"
	"github.com/evergreen-ci/binseg/units"
	"github.com/evergreen-ci/gimlet"
	"github.com/mongodb/amboy"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

///////////////////////////////////////////////////////////////////////////////
//
// GET /status

type statusHandler struct {
	queue amboy.Queue
}

func makeStatusHandler(q amboy.Queue) gimlet.RouteHandler {
	return &statusHandler{queue: q}
}

func (h *statusHandler) Factory() gimlet.RouteHandler {
	return &statusHandler{queue: h.queue}
}

func (h *statusHandler) Parse(_ context.Context, _ *http.Request) error { return nil }

func (h *statusHandler) Run(ctx context.Context) gimlet.Responder {
	kinds := []string{}
	for _, kind := range perf.CostKinds() {
		kinds = append(kinds, string(kind))
	}

	resp := map[string]interface{}{
		"build_revision": binseg.BuildRevision,
		"cost_kinds":     kinds,
	}
	if h.queue != nil {
		resp["queue"] = h.queue.Stats(ctx)
	}

	return gimlet.NewJSONResponse(resp)
}

///////////////////////////////////////////////////////////////////////////////
//
// shared request parsing

type splitRequestParser struct {
	defaultCost perf.CostKind

	opts  perf.CostOptions
	start int
	end   int
}

func (p *splitRequestParser) parse(r *http.Request) error {
	req := &model.APISplitRequest{}
	if err := gimlet.GetJSON(r.Body, req); err != nil {
		return gimlet.ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Message:    errors.Wrap(err, "problem parsing request body").Error(),
		}
	}

	opts, err := req.CostOptions(p.defaultCost)
	if err != nil {
		return gimlet.ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Message:    err.Error(),
		}
	}

	p.opts = opts
	p.start, p.end = req.Bounds()

	return nil
}

///////////////////////////////////////////////////////////////////////////////
//
// POST /split

type findSplitHandler struct {
	splitRequestParser
}

func makeFindSplit(defaultCost perf.CostKind) gimlet.RouteHandler {
	return &findSplitHandler{splitRequestParser: splitRequestParser{defaultCost: defaultCost}}
}

func (h *findSplitHandler) Factory() gimlet.RouteHandler {
	return &findSplitHandler{splitRequestParser: splitRequestParser{defaultCost: h.defaultCost}}
}

func (h *findSplitHandler) Parse(_ context.Context, r *http.Request) error {
	return h.parse(r)
}

func (h *findSplitHandler) Run(ctx context.Context) gimlet.Responder {
	cost, err := h.opts.Build()
	if err != nil {
		return gimlet.MakeJSONErrorResponder(gimlet.ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Message:    err.Error(),
		})
	}

	res, err := perf.FindBestSplit(ctx, cost, h.start, h.end)
	if err != nil {
		if perf.IsRangeError(err) {
			return gimlet.MakeJSONErrorResponder(gimlet.ErrorResponse{
				StatusCode: http.StatusBadRequest,
				Message:    err.Error(),
			})
		}

		err = errors.Wrapf(err, "problem searching [%d, %d)", h.start, h.end)
		logRequestError(ctx, err, message.Fields{
			"method": "POST",
			"route":  "/split",
			"cost":   h.opts.Kind,
			"url":    h.opts.URL,
		})
		if perf.IsExternalCostError(err) {
			return gimlet.MakeJSONErrorResponder(gimlet.ErrorResponse{
				StatusCode: http.StatusBadGateway,
				Message:    err.Error(),
			})
		}
		return gimlet.MakeJSONInternalErrorResponder(err)
	}

	apiResult := &model.APISplitResult{}
	if err = apiResult.Import(res); err != nil {
		return gimlet.MakeJSONInternalErrorResponder(errors.Wrap(err, "problem converting result"))
	}

	return gimlet.NewJSONResponse(apiResult)
}

///////////////////////////////////////////////////////////////////////////////
//
// POST /split/jobs

type createSplitJobHandler struct {
	queue amboy.Queue
	splitRequestParser
}

func makeCreateSplitJob(q amboy.Queue, defaultCost perf.CostKind) gimlet.RouteHandler {
	return &createSplitJobHandler{
		queue:              q,
		splitRequestParser: splitRequestParser{defaultCost: defaultCost},
	}
}

func (h *createSplitJobHandler) Factory() gimlet.RouteHandler {
	return &createSplitJobHandler{
		queue:              h.queue,
		splitRequestParser: splitRequestParser{defaultCost: h.defaultCost},
	}
}

func (h *createSplitJobHandler) Parse(_ context.Context, r *http.Request) error {
	return h.parse(r)
}

func (h *createSplitJobHandler) Run(ctx context.Context) gimlet.Responder {
	j := units.NewFindSplitJob(h.opts, h.start, h.end)

	if err := h.queue.Put(ctx, j); err != nil {
		err = errors.Wrap(err, "problem queuing split job")
		logRequestError(ctx, err, message.Fields{
			"method": "POST",
			"route":  "/split/jobs",
			"job":    j.ID(),
		})
		return gimlet.MakeJSONInternalErrorResponder(err)
	}

	apiJob := &model.APISplitJob{}
	if err := apiJob.Import(j); err != nil {
		return gimlet.MakeJSONInternalErrorResponder(errors.Wrap(err, "problem converting job"))
	}

	return gimlet.NewJSONResponse(apiJob)
}

///////////////////////////////////////////////////////////////////////////////
//
// GET /split/jobs/{id}

type getSplitJobHandler struct {
	queue amboy.Queue
	id    string
}

func makeGetSplitJob(q amboy.Queue) gimlet.RouteHandler {
	return &getSplitJobHandler{queue: q}
}

func (h *getSplitJobHandler) Factory() gimlet.RouteHandler {
	return &getSplitJobHandler{queue: h.queue}
}

func (h *getSplitJobHandler) Parse(_ context.Context, r *http.Request) error {
	h.id = gimlet.GetVars(r)["id"]
	if h.id == "" {
		return gimlet.ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Message:    "must specify a job id",
		}
	}
	return nil
}

func (h *getSplitJobHandler) Run(ctx context.Context) gimlet.Responder {
	j, ok := h.queue.Get(ctx, h.id)
	if !ok {
		err := gimlet.ErrorResponse{
			StatusCode: http.StatusNotFound,
			Message:    fmt.Sprintf("split job '%s' not found", h.id),
		}
		logRequestError(ctx, err, message.Fields{
			"method": "GET",
			"route":  "/split/jobs/{id}",
			"job":    h.id,
		})
		return gimlet.MakeJSONErrorResponder(err)
	}

	apiJob := &model.APISplitJob{}
	if err := apiJob.Import(j); err != nil {
		return gimlet.MakeJSONErrorResponder(gimlet.ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Message:    fmt.Sprintf("job '%s' is not a split job", h.id),
		})
	}

	return gimlet.NewJSONResponse(apiJob)
}
