package utils

import "github.com/gin-gonic/gin"

// RespondWithError writes the standard error envelope and aborts the request.
func RespondWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{
		"success": false,
		"message": message,
	})
}

// RespondOK writes the standard success envelope merged with the payload.
func RespondOK(c *gin.Context, code int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(code, body)
}
