package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const errProcessNotification = "Failed to process notification"

// requireQuery reads a mandatory query parameter. On a missing value it writes
// 400 {"error": "<label> is required"} and returns false.
func requireQuery(c *gin.Context, key, label string) (string, bool) {
	v := strings.TrimSpace(c.Query(key))
	if v == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": label + " is required"})
		return "", false
	}
	return v, true
}

// queryPayload collects the named query parameters into a JSON object.
// Parameters that were not sent are encoded as null.
func queryPayload(c *gin.Context, keys ...string) (json.RawMessage, error) {
	obj := make(map[string]*string, len(keys))
	for _, k := range keys {
		if v, ok := c.GetQuery(k); ok {
			v := v
			obj[k] = &v
		} else {
			obj[k] = nil
		}
	}
	return json.Marshal(obj)
}

// getCaller returns the service name and role the auth middleware stored for
// this request. Both are empty when auth is disabled.
func getCaller(c *gin.Context) (service, role string) {
	if v, ok := c.Get("service"); ok {
		service, _ = v.(string)
	}
	if v, ok := c.Get("role"); ok {
		role, _ = v.(string)
	}
	return
}
