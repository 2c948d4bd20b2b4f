package imageutil

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	log "miniblog/pkg/logger"
)

// OutputSize 头像缩放上限：长边不超过125像素，保持宽高比
const OutputSize = 125

// SavePicture 处理上传的头像并保存到dir
// 生成随机十六进制文件名（保留原扩展名），按需缩小后落盘，返回文件名
func SavePicture(r io.Reader, originalName, dir string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" {
		return "", fmt.Errorf("文件名缺少扩展名: %s", originalName)
	}

	img, err := imaging.Decode(r)
	if err != nil {
		return "", fmt.Errorf("解码图片失败: %w", err)
	}

	// 只缩小不放大
	bounds := img.Bounds()
	if bounds.Dx() > OutputSize || bounds.Dy() > OutputSize {
		img = imaging.Fit(img, OutputSize, OutputSize, imaging.Lanczos)
	}

	name, err := randomName(ext)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("创建上传目录失败: %w", err)
	}

	path := filepath.Join(dir, name)
	if err := imaging.Save(img, path); err != nil {
		return "", fmt.Errorf("保存图片失败: %w", err)
	}

	log.Info("保存头像成功",
		zap.String("file", name),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()))

	return name, nil
}

// randomName 生成16位十六进制随机文件名
func randomName(ext string) (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("生成随机文件名失败: %w", err)
	}
	return hex.EncodeToString(buf) + ext, nil
}
