package handlers

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/JonnyWalker81/patternlog/internal/apierror"
	"github.com/JonnyWalker81/patternlog/internal/logger"
	"github.com/JonnyWalker81/patternlog/internal/service"
)

// repositoryRetryAfter is the Retry-After hint, in seconds, for 503 responses
const repositoryRetryAfter = 5

// writeError renders err as a problem details response. op names the
// operation for logs and supersession messages; resource and id describe
// the record for 404s.
func writeError(c *gin.Context, err error, op, resource, id string) {
	requestID := apierror.GetRequestID(c)
	log := logger.Ctx(logger.WithOperation(c.Request.Context(), op))

	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr) && verr.Field == "id":
		apierror.WriteProblem(c, apierror.NewInvalidUUIDError(requestID, "id", id))
	case errors.As(err, &verr):
		apierror.WriteProblem(c, apierror.NewValidationError(requestID, []apierror.FieldError{
			{Field: verr.Field, Message: verr.Message, Code: "invalid_value"},
		}))
	case errors.Is(err, service.ErrNotFound):
		apierror.WriteProblem(c, apierror.NewNotFoundError(requestID, resource, id))
	case errors.Is(err, context.Canceled):
		if c.Request.Context().Err() != nil {
			// Client went away; nobody is left to read a response
			log.Debug("request cancelled by client")
			c.Abort()
			return
		}
		apierror.WriteProblem(c, apierror.NewSupersededError(requestID, op))
	case errors.Is(err, service.ErrRepositoryUnavailable):
		log.Error("repository unavailable", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewRepositoryUnavailableError(requestID, repositoryRetryAfter))
	case isUniqueViolation(err):
		apierror.WriteProblem(c, apierror.NewConflictError(requestID, "A record with this ID already exists"))
	default:
		log.Error("request failed", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewInternalError(requestID))
	}
}

// isUniqueViolation recognizes duplicate primary keys from SQLite and PostgREST
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "23505") // PostgreSQL unique violation code
}

// pathID returns the :id path parameter, answering 400 when it is not a UUID
func pathID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if err := uuid.Validate(id); err != nil {
		apierror.WriteProblem(c, apierror.NewInvalidUUIDError(apierror.GetRequestID(c), "id", id))
		return "", false
	}
	return id, true
}

// badRequest renders a malformed request body or query
func badRequest(c *gin.Context, detail, userMessage string) {
	apierror.WriteProblem(c, apierror.NewBadRequestError(apierror.GetRequestID(c), detail, userMessage))
}

// bindJSON decodes the request body into req. Binding failures are answered
// with 400: field errors as a validation problem, anything else as a bad request.
func bindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fieldErrors := make([]apierror.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fieldErrors = append(fieldErrors, apierror.FieldError{
				Field:   fe.Field(),
				Message: "failed the '" + fe.Tag() + "' rule",
				Code:    fe.Tag(),
			})
		}
		apierror.WriteProblem(c, apierror.NewValidationError(apierror.GetRequestID(c), fieldErrors))
		return false
	}

	badRequest(c, err.Error(), "Invalid JSON format")
	return false
}

var registerTagNames sync.Once

// useJSONFieldNames makes validator report fields by their json tag
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	})
}

// writeRangeError is writeError for list endpoints, rendering ErrInvalidWindow
// with the offending bounds
func writeRangeError(c *gin.Context, err error, op string, start, end time.Time) {
	if errors.Is(err, service.ErrInvalidWindow) {
		apierror.WriteProblem(c, apierror.NewInvalidWindowError(apierror.GetRequestID(c), start, end))
		return
	}
	writeError(c, err, op, "", "")
}

// defaultListDays is the span listed when a list request has no start
const defaultListDays = 7

// defaultRange fills a missing end with now and a missing start with
// defaultListDays before end
func defaultRange(start, end time.Time) (time.Time, time.Time) {
	if end.IsZero() {
		end = time.Now().UTC()
	}
	if start.IsZero() {
		start = end.AddDate(0, 0, -defaultListDays)
	}
	return start, end
}
