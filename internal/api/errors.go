package api

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
)

// UseJSONFieldNames makes gin's binding validator report fields by their json names
func UseJSONFieldNames() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

func fieldErrors(field, message string) gin.H {
	return gin.H{field: []string{message}}
}

// bindJSON decodes the body into req and writes a 400 on failure
func bindJSON(c *gin.Context, req interface{}) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		body := gin.H{}
		for _, fe := range verrs {
			body[fe.Field()] = []string{"this field is required"}
		}
		c.JSON(http.StatusBadRequest, body)
		return false
	}
	c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Detail: "malformed request body"})
	return false
}

// respondError maps service errors onto status codes and bodies
func respondError(c *gin.Context, err error) {
	var verr *service.ValidationError
	var rerr *service.RelationError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, fieldErrors(verr.Field, verr.Message))
	case errors.As(err, &rerr):
		c.JSON(http.StatusBadRequest, gin.H{"errors": rerr.Message})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, middleware.ErrorResponse{Detail: "not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, middleware.ErrorResponse{Detail: err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"non_field_errors": []string{err.Error()}})
	case errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, middleware.ErrorResponse{Detail: "invalid token"})
	default:
		_ = c.Error(err)
		logger.Logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Detail: "internal server error"})
	}
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, middleware.ErrorResponse{Detail: "not found"})
}
