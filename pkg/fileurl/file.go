package fileurl

import (
	"path"
	"strings"

	"github.com/gookit/goutil/fsutil"
)

// maxNameLength 存储路径中文件名的最大长度
const maxNameLength = 200

// GetFileExt gets file extension
// GetFileExt 获取文件后缀
func GetFileExt(name string) string {
	return path.Ext(name)
}

// SafeFileName strips directory components and characters that are unsafe in
// a storage key, keeping the extension when the name has to be shortened.
// SafeFileName 去掉目录部分和存储键中不安全的字符，超长时保留后缀截断
func SafeFileName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	name = strings.Map(func(r rune) rune {
		switch {
		case r < 0x20, r == 0x7f:
			return -1
		case strings.ContainsRune(`:*?"<>|`, r):
			return '_'
		}
		return r
	}, name)
	name = strings.TrimSpace(name)

	if name == "" || name == "." || name == ".." || name == "/" {
		return "file"
	}

	if len(name) > maxNameLength {
		ext := GetFileExt(name)
		if len(ext) > 20 {
			ext = ""
		}
		name = strings.ToValidUTF8(name[:maxNameLength-len(ext)], "") + ext
	}
	return name
}

// IsExist determines if the given path exists
// IsExist 判断所给路径是否存在
func IsExist(dst string) bool {
	return fsutil.PathExists(dst)
}

// CreatePath creates the parent directory of dst
// CreatePath 创建 dst 的上级目录
func CreatePath(dst string) error {
	return fsutil.MkParentDir(dst)
}

// PathSuffixCheckAdd checks path suffix, adds it if not exists
// PathSuffixCheckAdd 检查路径后缀，如果没有则添加
func PathSuffixCheckAdd(path string, suffix string) string {
	if !strings.HasSuffix(path, suffix) {
		path = path + suffix
	}
	return path
}

// JoinKey joins an optional prefix and a storage key with "/"
// JoinKey 使用 "/" 拼接可选前缀和存储键
func JoinKey(prefix string, key string) string {
	key = strings.TrimPrefix(key, "/")
	if prefix == "" {
		return key
	}
	return PathSuffixCheckAdd(prefix, "/") + key
}
