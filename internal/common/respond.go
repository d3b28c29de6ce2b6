package common

import "github.com/gin-gonic/gin"

// Envelope is the uniform response body shape the frontend expects.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
	Errors  interface{} `json:"errors"`
}

func RespondSuccess(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, Envelope{Success: true, Data: data, Message: message})
}

func RespondError(c *gin.Context, status int, message string, errs interface{}) {
	c.JSON(status, Envelope{Success: false, Message: message, Errors: errs})
}
