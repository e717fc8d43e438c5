package cypher

import (
	"embed"
	"fmt"
	"strings"
	"sync"
	"text/template"
)

//go:embed *.cql
var files embed.FS

var parsed sync.Map // name -> *template.Template

// MustTemplate 渲染指定 cql 模板，模板解析结果按名称缓存；失败直接 panic。
func MustTemplate(name string, data any) string {
	tmpl, err := lookup(name)
	if err != nil {
		panic(err)
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		panic(fmt.Errorf("渲染模板 %s 失败: %w", name, err))
	}
	return sb.String()
}

func lookup(name string) (*template.Template, error) {
	if v, ok := parsed.Load(name); ok {
		return v.(*template.Template), nil
	}
	tmpl, err := template.New(name).Option("missingkey=error").ParseFS(files, name)
	if err != nil {
		return nil, fmt.Errorf("解析模板 %s 失败: %w", name, err)
	}
	v, _ := parsed.LoadOrStore(name, tmpl)
	return v.(*template.Template), nil
}

// MustAsset 返回 cql 原文。
func MustAsset(name string) string {
	b, err := files.ReadFile(name)
	if err != nil {
		panic(fmt.Errorf("读取 %s 失败: %w", name, err))
	}
	return string(b)
}

// Statements 按分号拆分多语句 cql 文件，忽略空语句。
func Statements(name string) []string {
	var out []string
	for _, raw := range strings.Split(MustAsset(name), ";") {
		if query := strings.TrimSpace(raw); query != "" {
			out = append(out, query)
		}
	}
	return out
}
