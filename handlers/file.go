package handlers

import (
	"net/http"
	"strconv"

	"github.com/Rufidatul726/jotter-backend/services"
	"github.com/Rufidatul726/jotter-backend/utils"

	"github.com/gin-gonic/gin"
)

type LockFileRequest struct {
	Password string `json:"password" binding:"required"`
}

type UnlockFileRequest struct {
	Password string `json:"password"`
}

type RenameFileRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

func parseNodeID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "无效的文件ID")
		return 0, false
	}
	return uint(id), true
}

// UploadFiles 接收 multipart 批量上传，文件名中的 "/" 表示目录结构。
func UploadFiles(c *gin.Context) {
	userID := c.GetUint("user_id")

	form, err := c.MultipartForm()
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "解析上传表单失败")
		return
	}
	files := form.File["files"]

	nodes, err := getServices().File.UploadFiles(c.Request.Context(), userID, files)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, gin.H{"files": nodes})
}

func ListFiles(c *gin.Context) {
	userID := c.GetUint("user_id")
	nodes, err := getServices().File.ListNodes(c.Request.Context(), userID, services.FilterVisible)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, gin.H{"files": nodes})
}

func ListAllFiles(c *gin.Context) {
	userID := c.GetUint("user_id")
	out, err := getServices().File.ListAll(c.Request.Context(), userID)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, out)
}

func ListFavoriteFiles(c *gin.Context) {
	userID := c.GetUint("user_id")
	nodes, err := getServices().File.ListNodes(c.Request.Context(), userID, services.FilterFavorites)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, gin.H{"files": nodes})
}

func ListHiddenFiles(c *gin.Context) {
	userID := c.GetUint("user_id")
	nodes, err := getServices().File.ListNodes(c.Request.Context(), userID, services.FilterHidden)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, gin.H{"files": nodes})
}

func ListFilesByDate(c *gin.Context) {
	userID := c.GetUint("user_id")
	grouped, err := getServices().File.GroupByDate(c.Request.Context(), userID)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, gin.H{"files_by_date": grouped})
}

func ToggleFavorite(c *gin.Context) {
	userID := c.GetUint("user_id")
	nodeID, ok := parseNodeID(c)
	if !ok {
		return
	}

	node, err := getServices().File.ToggleFavorite(c.Request.Context(), userID, nodeID)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, gin.H{"file": node})
}

func ToggleHidden(c *gin.Context) {
	userID := c.GetUint("user_id")
	nodeID, ok := parseNodeID(c)
	if !ok {
		return
	}

	node, err := getServices().File.ToggleHidden(c.Request.Context(), userID, nodeID)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, gin.H{"file": node})
}

func LockFile(c *gin.Context) {
	userID := c.GetUint("user_id")
	nodeID, ok := parseNodeID(c)
	if !ok {
		return
	}

	var req LockFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "锁定密码不能为空")
		return
	}

	node, err := getServices().File.LockFile(c.Request.Context(), userID, nodeID, req.Password)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, gin.H{"file": node})
}

func UnlockFile(c *gin.Context) {
	userID := c.GetUint("user_id")
	nodeID, ok := parseNodeID(c)
	if !ok {
		return
	}

	var req UnlockFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	out, err := getServices().File.UnlockFile(c.Request.Context(), userID, nodeID, req.Password)
	if respondServiceError(c, err) {
		return
	}

	message := "文件解锁成功"
	if out.AlreadyUnlocked {
		message = "文件未锁定"
	}
	utils.Success(c, gin.H{"file": out.Node, "message": message})
}

func RenameFile(c *gin.Context) {
	userID := c.GetUint("user_id")
	nodeID, ok := parseNodeID(c)
	if !ok {
		return
	}

	var req RenameFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	node, err := getServices().File.RenameFile(c.Request.Context(), userID, nodeID, req.Name)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, gin.H{"file": node})
}

func DeleteFile(c *gin.Context) {
	userID := c.GetUint("user_id")
	nodeID, ok := parseNodeID(c)
	if !ok {
		return
	}

	if err := getServices().File.DeleteNode(c.Request.Context(), userID, nodeID); respondServiceError(c, err) {
		return
	}
	utils.Success(c, gin.H{"message": "文件删除成功"})
}

func DownloadFile(c *gin.Context) {
	userID := c.GetUint("user_id")
	nodeID, ok := parseNodeID(c)
	if !ok {
		return
	}

	info, err := getServices().File.GetDownloadInfo(c.Request.Context(), userID, nodeID)
	if respondServiceError(c, err) {
		return
	}

	c.Header("Content-Type", info.ContentType)
	c.FileAttachment(info.AbsPath, info.DownloadName)
}
