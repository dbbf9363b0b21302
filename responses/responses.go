// Package responses renders the uniform API envelope. Every endpoint
// answers with {status, message, data} on success or
// {status, message, error, data:null} on failure; list endpoints add
// pagination metadata and navigation links.
package responses

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/notahub/nota-api/utils"
)

const (
	// MessageSuccess is the static success indicator returned by every
	// successful response. The trailing misspelling is part of the wire
	// contract and must not be corrected.
	MessageSuccess = "Request was successfull"

	// MessageError is the static error indicator returned by every failed
	// response.
	MessageError = "Request is invalid"
)

// Envelope is the uniform response shape shared by all endpoints.
type Envelope struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Error   string      `json:"error,omitempty"`
}

// PaginatedEnvelope wraps a list payload with pagination metadata.
type PaginatedEnvelope struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Meta    utils.Meta  `json:"meta"`
	Links   utils.Links `json:"links"`
}

// Success writes a 200 success envelope carrying data. Endpoints that have
// nothing to return (create, update, delete) pass nil.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{
		Status:  http.StatusOK,
		Message: MessageSuccess,
		Data:    data,
	})
}

// Paginated writes a success envelope for a list page along with its meta
// and links blocks.
func Paginated(c *gin.Context, data interface{}, meta utils.Meta, links utils.Links) {
	c.JSON(http.StatusOK, PaginatedEnvelope{
		Status:  http.StatusOK,
		Message: MessageSuccess,
		Data:    data,
		Meta:    meta,
		Links:   links,
	})
}

// Error writes an error envelope. The envelope status mirrors the HTTP
// status code, and the fault's message is exposed in the error field.
func Error(c *gin.Context, status int, err error) {
	c.JSON(status, Envelope{
		Status:  status,
		Message: MessageError,
		Data:    nil,
		Error:   err.Error(),
	})
}
