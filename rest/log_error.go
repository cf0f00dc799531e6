package rest

import (
	"context"
	"net/http"

	"github.com/evergreen-ci/gimlet"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/level"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

// logRequestError logs a failed request. Client errors are logged at info.
func logRequestError(ctx context.Context, err error, fields message.Fields) {
	logLevel := level.Error
	if errResp, ok := errors.Cause(err).(gimlet.ErrorResponse); ok && errResp.StatusCode < http.StatusInternalServerError {
		logLevel = level.Info
	}
	fields["request"] = gimlet.GetRequestID(ctx)
	grip.Log(logLevel, message.WrapError(err, fields))
}
