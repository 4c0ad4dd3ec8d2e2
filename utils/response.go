package utils

import "github.com/gin-gonic/gin"

func JSONSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"success": true, "data": data})
}

// JSONMessage is used by deletes and other calls without a payload.
func JSONMessage(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": true, "message": message})
}

func JSONError(c *gin.Context, code int, errCode, message string) {
	c.JSON(code, gin.H{"success": false, "code": errCode, "message": message})
}

func AbortJSONError(c *gin.Context, code int, errCode, message string) {
	c.AbortWithStatusJSON(code, gin.H{"success": false, "code": errCode, "message": message})
}
