package router

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"csv2coam/internal/app"
	"csv2coam/internal/coam"
	"csv2coam/internal/output"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultMaxUploadMB = 32

// ConvertFunc 执行一次转换，通常为 (*app.Service).Convert。
type ConvertFunc func(context.Context, app.Request) (app.Report, error)

// ConvertHandler 负责上传表格并返回推送文档。
type ConvertHandler struct {
	convert   ConvertFunc
	maxUpload int64
	logger    *zap.Logger
}

// NewConvertHandler 构建 ConvertHandler，maxUploadMB 非正时使用 32MB。
func NewConvertHandler(convert ConvertFunc, maxUploadMB int64, logger *zap.Logger) *ConvertHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = defaultMaxUploadMB
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConvertHandler{convert: convert, maxUpload: maxUploadMB << 20, logger: logger}
}

// RegisterRoutes 将转换路由注册到给定的路由组。
func (h *ConvertHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/convert", h.handleConvert)
}

func (h *ConvertHandler) handleConvert(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少上传文件 file"})
		return
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext == "" {
		ext = ".csv"
	}
	tmp, err := os.CreateTemp("", "csv2coam-upload-*"+ext)
	if err != nil {
		h.logger.Error("创建临时文件失败", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	path := tmp.Name()
	_ = tmp.Close()
	defer os.Remove(path)
	if err := c.SaveUploadedFile(fh, path); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "保存上传文件失败"})
		return
	}

	overrides := make(map[string]string)
	for _, key := range coam.Keys() {
		if v := strings.TrimSpace(c.PostForm(key)); v != "" {
			overrides[key] = v
		}
	}
	report, err := h.convert(c.Request.Context(), app.Request{
		Input:     path,
		Overrides: coam.SettingsFromMap(overrides),
		SkipWrite: true,
	})
	if err != nil {
		if errors.Is(err, app.ErrNoValidRows) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": coam.ErrEmptyInput.Error()})
			return
		}
		h.logger.Error("转换失败", zap.String("file", fh.Filename), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var buf bytes.Buffer
	if err := output.Encode(&buf, report.Document); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.logger.Info("上传转换完成",
		zap.String("file", fh.Filename),
		zap.String("encoding", report.Encoding),
		zap.Int("rows", report.Rows),
		zap.Int("dropped", report.Dropped))
	c.Data(http.StatusOK, "application/json; charset=utf-8", buf.Bytes())
}
