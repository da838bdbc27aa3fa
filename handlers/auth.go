package handlers

import (
	"net/http"

	"github.com/Rufidatul726/jotter-backend/services"
	"github.com/Rufidatul726/jotter-backend/utils"

	"github.com/gin-gonic/gin"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ChangeNameRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	user, err := getServices().Auth.Register(c.Request.Context(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, user)
}

func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	out, err := getServices().Auth.Login(c.Request.Context(), services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, out)
}

func GetProfile(c *gin.Context) {
	userID := c.GetUint("user_id")
	profile, err := getServices().Auth.GetProfile(c.Request.Context(), userID)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, profile)
}

func ChangeName(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req ChangeNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	if err := getServices().Auth.ChangeName(c.Request.Context(), userID, req.Name); respondServiceError(c, err) {
		return
	}
	utils.Success(c, gin.H{"name": req.Name})
}

func ChangePassword(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	if err := getServices().Auth.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); respondServiceError(c, err) {
		return
	}
	utils.Success(c, gin.H{"message": "密码修改成功"})
}

func DeleteAccount(c *gin.Context) {
	userID := c.GetUint("user_id")
	if err := getServices().Auth.DeleteAccount(c.Request.Context(), userID); respondServiceError(c, err) {
		return
	}
	utils.Success(c, gin.H{"message": "账号已删除"})
}
