package middleware

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"
)

// extractOwnerID extracts a resource owner's account id from the request
// based on a defined rule.
func extractOwnerID(c *gin.Context, source string, paramName string) string {
	switch source {
	case "path":
		return c.Param(paramName)
	case "query":
		return c.Query(paramName)
	case "header":
		return c.GetHeader(paramName)
	case "body":
		// The body must be read and then replaced so the handler behind the
		// guard can still access it.
		bodyBytes, err := io.ReadAll(c.Request.Body)
		if err != nil {
			return ""
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		var bodyJSON map[string]interface{}
		if err := json.Unmarshal(bodyBytes, &bodyJSON); err != nil {
			return ""
		}

		if id, ok := bodyJSON[paramName]; ok {
			if idStr, ok := id.(string); ok {
				return idStr
			}
		}
	}
	return ""
}
