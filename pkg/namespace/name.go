// Package namespace 定义命名空间名称的规范化与校验规则。
package namespace

import (
	"fmt"
	"strings"
)

// MaxLength 命名空间名称的最大长度
const MaxLength = 128

// Normalize 去除首尾空白并转为小写，返回合法的命名空间名称。
// 名称会直接用作数据目录名，因此只允许小写字母、数字以及 '.'、'_'、'-'。
func Normalize(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("命名空间名称不能为空")
	}
	if len(name) > MaxLength {
		return "", fmt.Errorf("命名空间名称过长 (最多 %d 个字符)", MaxLength)
	}
	name = strings.ToLower(name)
	if name == "." || name == ".." {
		return "", fmt.Errorf("命名空间名称无效: %q", name)
	}
	if !isValidName(name) {
		return "", fmt.Errorf("命名空间名称无效: %q (允许小写字母、数字、'.'、'_'、'-')", name)
	}
	return name, nil
}

func isValidName(name string) bool {
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case c == '.' || c == '_' || c == '-':
		default:
			return false
		}
	}
	return true
}
