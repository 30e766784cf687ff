package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
)

// FileUtils 文件工具函数
type FileUtils struct{}

// EnsureDir 确保目录存在
func (f *FileUtils) EnsureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}

// FileExists 检查文件是否存在
func (f *FileUtils) FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// WriteFile 截断并重写文件，必要时创建父目录
func (f *FileUtils) WriteFile(path string, data []byte) error {
	if err := f.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// CryptoUtils 哈希工具函数
type CryptoUtils struct{}

// SHA256Hash 计算 SHA256 哈希
func (c *CryptoUtils) SHA256Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

var (
	File   = &FileUtils{}
	Crypto = &CryptoUtils{}
)

func EnsureDir(path string) error {
	return File.EnsureDir(path)
}

func FileExists(path string) bool {
	return File.FileExists(path)
}

func WriteFile(path string, data []byte) error {
	return File.WriteFile(path, data)
}

func SHA256Hash(data []byte) string {
	return Crypto.SHA256Hash(data)
}
