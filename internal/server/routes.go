package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roach88/restview/internal/filter"
	"github.com/roach88/restview/internal/handler"
)

// errorBody is the JSON body of every error response.
type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) lookup(c *gin.Context) (*resource, bool) {
	res, ok := s.resources[c.Param("resource")]
	if !ok {
		c.JSON(http.StatusNotFound, errorBody{Error: "unknown resource"})
		return nil, false
	}
	return res, true
}

func (s *Server) list(c *gin.Context) {
	res, ok := s.lookup(c)
	if !ok {
		return
	}

	pred, err := res.builder.FromQuery(c.Request.URL.RawQuery, res.cfg.Whitelist())
	if err != nil {
		fail(c, err)
		return
	}

	params := handler.ParseParams(c.Request.URL.Query(), res.cfg.Fields)
	resp, err := res.handler.List(c.Request.Context(), handler.ListRequest{
		Page:     params.Page,
		Limit:    params.Limit,
		Criteria: pred,
		Fields:   params.Fields,
		Request:  c.Request,
	})
	if err != nil {
		fail(c, err)
		return
	}
	write(c, resp)
}

func (s *Server) get(c *gin.Context) {
	res, ok := s.lookup(c)
	if !ok {
		return
	}

	resp, err := res.handler.Get(c.Request.Context(), handler.GetRequest{
		ID:      c.Param("id"),
		Fields:  handler.FieldsParam(c.Request.URL.Query(), res.cfg.Fields),
		Request: c.Request,
	})
	if err != nil {
		fail(c, err)
		return
	}
	write(c, resp)
}

func write(c *gin.Context, resp *handler.Response) {
	for key, values := range resp.Header {
		for _, v := range values {
			c.Writer.Header().Add(key, v)
		}
	}
	c.JSON(resp.Status, resp.Body)
}

// fail maps err to a response. Rejected filter values are the client's
// fault; everything else is logged and hidden.
func fail(c *gin.Context, err error) {
	if filter.IsTransformError(err) {
		c.JSON(http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	slog.Error("request failed",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"error", err)
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, errorBody{Error: "internal server error"})
}
