package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fir-voice/internal/api/errors"
)

// ErrorHandler recovers from panics and answers with a JSON error
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		requestID := GetRequestID(c)

		var apiErr *errors.APIError
		switch err := recovered.(type) {
		case *errors.APIError:
			apiErr = err
		case error:
			logger.Error("Internal server error",
				zap.Error(err),
				zap.String("request_id", requestID),
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
			)
			apiErr = errors.FromError(err)
		default:
			logger.Error("Unknown panic occurred",
				zap.String("recovered", fmt.Sprint(recovered)),
				zap.String("request_id", requestID),
			)
			apiErr = errors.NewInternalError("Internal server error")
		}

		respond(c, apiErr)
	})
}

// HandleError writes err as a JSON error response and aborts the chain.
func HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	respond(c, errors.FromError(err))
}

func respond(c *gin.Context, apiErr *errors.APIError) {
	out := *apiErr
	out.RequestID = GetRequestID(c)
	c.AbortWithStatusJSON(out.HTTPStatus(), &out)
}
