package services

import (
	"strings"

	"github.com/Rufidatul726/jotter-backend/models"
)

var categoryByExtension = map[string]string{
	"mp4": models.CategoryVideo, "mkv": models.CategoryVideo, "avi": models.CategoryVideo,
	"mov": models.CategoryVideo, "webm": models.CategoryVideo,
	"mp3": models.CategoryAudio, "wav": models.CategoryAudio, "ogg": models.CategoryAudio,
	"flac": models.CategoryAudio, "aac": models.CategoryAudio,
	"jpg": models.CategoryImage, "jpeg": models.CategoryImage, "png": models.CategoryImage,
	"gif": models.CategoryImage, "bmp": models.CategoryImage, "svg": models.CategoryImage,
	"pdf": models.CategoryPDF,
	"txt": models.CategoryNote, "md": models.CategoryNote, "docx": models.CategoryNote,
}

// ClassifyFilename 根据扩展名推断文件分类，无法识别（含无扩展名）一律归为 other。
func ClassifyFilename(name string) string {
	lastDot := strings.LastIndex(name, ".")
	if lastDot < 0 {
		return models.CategoryOther
	}
	ext := strings.ToLower(name[lastDot+1:])
	if category, ok := categoryByExtension[ext]; ok {
		return category
	}
	return models.CategoryOther
}
