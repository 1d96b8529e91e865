package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/crm/internal/schema"
)

const contextGraphQLOperationKey = "graphql_operation"

// GraphQL executes one operation. Transport problems (malformed body, missing
// query) are HTTP errors; everything else is reported inside the GraphQL result.
func (s *Server) GraphQL(c *gin.Context) {
	req, err := bindGraphQLRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if op := strings.TrimSpace(req.OperationName); op != "" {
		c.Set(contextGraphQLOperationKey, op)
	}

	result := s.schema.Execute(c.Request.Context(), req)
	c.JSON(http.StatusOK, result)
}

func bindGraphQLRequest(c *gin.Context) (schema.Request, error) {
	var req schema.Request

	if c.Request.Method == http.MethodGet {
		req.Query = c.Query("query")
		req.OperationName = c.Query("operationName")
		if raw := strings.TrimSpace(c.Query("variables")); raw != "" {
			if err := json.Unmarshal([]byte(raw), &req.Variables); err != nil {
				return req, newValidationError("variables", "invalid_variables", "variables must be a JSON object")
			}
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		return req, invalidRequestError()
	}

	if strings.TrimSpace(req.Query) == "" {
		return req, newValidationError("query", "invalid_query", "query is required")
	}
	return req, nil
}
