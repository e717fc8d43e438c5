package source

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/simplifiedchinese"
)

// DefaultFallback 是编码检测失败时的猜测值。
const DefaultFallback = "gbk"

// DefaultCandidates 是检测结果之后依次尝试的编码。
var DefaultCandidates = []string{"utf-8", "gbk", "gb2312", "utf-8-sig", "latin1"}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DetectCharset 猜测 data 的字符集。
func DetectCharset(data []byte) (string, error) {
	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil {
		return "", fmt.Errorf("检测文件编码失败: %w", err)
	}
	if result == nil || result.Charset == "" {
		return "", fmt.Errorf("检测文件编码失败: 无结果")
	}
	return result.Charset, nil
}

// Candidates 返回去重后的候选列表，first 排在最前。
func Candidates(first string, rest []string) []string {
	out := make([]string, 0, len(rest)+1)
	seen := make(map[string]bool, len(rest)+1)
	for _, name := range append([]string{first}, rest...) {
		key := canonicalName(name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, name)
	}
	return out
}

func canonicalName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(name, "_", "-")
}

// Decode 按指定编码严格解码，出现非法字节序列即返回错误。
func Decode(name string, data []byte) (string, error) {
	switch canonicalName(name) {
	case "utf-8", "utf8":
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%s: 非法字节序列", name)
		}
		return string(data), nil
	case "utf-8-sig", "utf8-sig":
		trimmed := bytes.TrimPrefix(data, utf8BOM)
		if !utf8.Valid(trimmed) {
			return "", fmt.Errorf("%s: 非法字节序列", name)
		}
		return string(trimmed), nil
	case "ascii", "us-ascii":
		for i, b := range data {
			if b >= utf8.RuneSelf {
				return "", fmt.Errorf("%s: 位置 %d 出现非 ASCII 字节", name, i)
			}
		}
		return string(data), nil
	}
	enc, err := decoderFor(name)
	if err != nil {
		return "", err
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	if bytes.ContainsRune(out, utf8.RuneError) {
		return "", fmt.Errorf("%s: 非法字节序列", name)
	}
	return string(out), nil
}

func decoderFor(name string) (encoding.Encoding, error) {
	switch canonicalName(name) {
	case "gbk", "gb2312", "gb-2312", "cp936", "euc-cn":
		return simplifiedchinese.GBK, nil
	case "gb18030", "gb-18030":
		return simplifiedchinese.GB18030, nil
	case "latin1", "latin-1", "iso-8859-1", "iso8859-1":
		return charmap.ISO8859_1, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("不支持的编码 %s: %w", name, err)
	}
	return enc, nil
}
