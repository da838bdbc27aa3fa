package handlers

import (
	"github.com/Rufidatul726/jotter-backend/utils"

	"github.com/gin-gonic/gin"
)

func HealthCheck(c *gin.Context) {
	utils.Success(c, gin.H{
		"status":  "ok",
		"service": "jotter-backend",
	})
}
