// Package output 负责推送文档的序列化与落盘。
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"csv2coam/internal/domain"
)

// DefaultPath 把输入文件扩展名替换为 .json。
func DefaultPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + ".json"
}

// Encode 以四空格缩进写出文档，非 ASCII 与 HTML 字符保持原样。
func Encode(w io.Writer, doc domain.Document) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("编码推送文档失败: %w", err)
	}
	return nil
}

// WriteDocument 先写入同目录下的临时文件再重命名，失败时不会留下不完整的输出。
func WriteDocument(path string, doc domain.Document) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("创建临时文件失败: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = Encode(tmp, doc); err != nil {
		return err
	}
	if err = tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("设置文件权限失败: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("关闭临时文件失败: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("写入输出文件失败: %w", err)
	}
	return nil
}
