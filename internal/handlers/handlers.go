package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"Social/internal/service"

	"github.com/gin-gonic/gin"
)

// parseID reads an integer path parameter. Any int64 is accepted; absent
// rows are the service's concern.
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// writeError maps a service error to a response. Validation messages go to
// the client; anything else is hidden behind a 500.
func writeError(c *gin.Context, err error) {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error()})
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func badJSON(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "malformed JSON: " + err.Error()})
}
