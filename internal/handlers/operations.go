package handlers

import (
	"errors"
	"net/http"

	"postboard/internal/dispatch"

	"github.com/gin-gonic/gin"
)

// maxBodyBytes caps the operation request body.
const maxBodyBytes = 1 << 20

type schemaError struct {
	Errors []dispatch.FieldError `json:"errors"`
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, schemaError{Errors: []dispatch.FieldError{{Message: msg}}})
}

// bindRequestOrBadRequest decodes the envelope and writes a 400 on failure.
// Returns false if the request was already handled.
func (h *Handler) bindRequestOrBadRequest(c *gin.Context, dst *dispatch.Request) bool {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("operation_bad_request_body", "err", err)
		}
		badRequest(c, "malformed request body: "+err.Error())
		return false
	}
	if dst.Operation == "" {
		badRequest(c, "operation is required")
		return false
	}
	return true
}

// @Summary      Run an operation
// @Description  Dispatches a named operation (ping, getAllPosts, getPost, getPostById, getUserPostsById, createUser, loginUser, createPost, updateById, deletePostById). Authenticated operations take a "token" argument. An "id" argument may be a string or an integer. Domain failures come back as 200 with an "error" field in data, or in "errors" for list operations.
// @Tags         operations
// @Accept       json
// @Produce      json
// @Param        request  body      dispatch.Request   true  "operation and args"
// @Success      200      {object}  dispatch.Response
// @Failure      400      {object}  map[string]interface{}
// @Failure      429      {object}  map[string]string
// @Router       /api/v1/operations [post]
func (h *Handler) runOperation(c *gin.Context) {
	var req dispatch.Request
	if ok := h.bindRequestOrBadRequest(c, &req); !ok {
		return
	}

	resp, err := h.dispatcher.Dispatch(c.Request.Context(), req)
	if err != nil {
		if h.log != nil {
			h.log.Infow("operation_rejected", "operation", req.Operation, "err", err)
		}
		if errors.Is(err, dispatch.ErrUnknownOperation) || errors.Is(err, dispatch.ErrMalformedArgs) {
			badRequest(c, err.Error())
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, resp)
}
