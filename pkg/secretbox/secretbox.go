// Package secretbox 提供敏感配置（如面板 API Key）的对称加密存储
//
// 密文格式：{ivHex}:{cipherHex}，算法 AES-256-CBC，
// 密钥由进程级密钥字符串的 SHA-256 摘要派生。
//
// 历史数据迁移：早期版本的数据库中 API Key 以明文存储。
// Parse 会把无法按密文格式解析的值标记为 KindLegacyPlaintext，
// 调用方据此决定是原样透传还是触发一次性加密迁移。
// 能解析为密文格式但解密失败的值是错误，不会被静默当作明文。
package secretbox

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Kind 表示存储值的形态
type Kind int

const (
	// KindEncrypted 符合 ivHex:cipherHex 格式的密文
	KindEncrypted Kind = iota
	// KindLegacyPlaintext 加密功能上线之前写入的明文
	KindLegacyPlaintext
)

var (
	// ErrDecrypt 解密失败（密钥不匹配或数据损坏）
	ErrDecrypt = errors.New("secretbox: decrypt failed")
	// ErrMalformed 密文格式不合法
	ErrMalformed = errors.New("secretbox: malformed ciphertext")
)

// Value 一个已解析的存储值
type Value struct {
	Kind Kind
	raw  string
}

// deriveKey 从进程级密钥派生 32 字节 AES 密钥
func deriveKey(secret string) []byte {
	sum := sha256.Sum256([]byte(secret))
	return sum[:]
}

// Parse 解析一个存储值，判断它是密文还是历史明文
// 判定只看格式：恰好两段、均为合法 hex、IV 长度等于 AES block size
func Parse(stored string) Value {
	parts := strings.SplitN(stored, ":", 2)
	if len(parts) != 2 {
		return Value{Kind: KindLegacyPlaintext, raw: stored}
	}
	iv, err := hex.DecodeString(parts[0])
	if err != nil || len(iv) != aes.BlockSize {
		return Value{Kind: KindLegacyPlaintext, raw: stored}
	}
	if _, err := hex.DecodeString(parts[1]); err != nil {
		return Value{Kind: KindLegacyPlaintext, raw: stored}
	}
	return Value{Kind: KindEncrypted, raw: stored}
}

// Reveal 还原明文
// 密文用给定密钥解密；历史明文原样返回
func (v Value) Reveal(secret string) (string, error) {
	if v.Kind == KindLegacyPlaintext {
		return v.raw, nil
	}

	parts := strings.SplitN(v.raw, ":", 2)
	iv, _ := hex.DecodeString(parts[0])
	ciphertext, _ := hex.DecodeString(parts[1])

	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", ErrMalformed
	}

	block, err := aes.NewCipher(deriveKey(secret))
	if err != nil {
		return "", fmt.Errorf("secretbox: new cipher: %w", err)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	plaintext, err = pkcs7Unpad(plaintext)
	if err != nil {
		return "", ErrDecrypt
	}
	return string(plaintext), nil
}

// Encrypt 加密明文，返回 ivHex:cipherHex 格式的密文
func Encrypt(plaintext, secret string) (string, error) {
	if plaintext == "" {
		return "", errors.New("secretbox: empty plaintext")
	}

	block, err := aes.NewCipher(deriveKey(secret))
	if err != nil {
		return "", fmt.Errorf("secretbox: new cipher: %w", err)
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("secretbox: generate iv: %w", err)
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(ciphertext), nil
}

// Decrypt 解析并还原一个存储值
// 历史明文原样透传，这是对加密功能上线之前数据的兼容路径
func Decrypt(stored, secret string) (string, error) {
	return Parse(stored).Reveal(secret)
}

// pkcs7Pad PKCS#7 填充
func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(padding)}, padding)...)
}

// pkcs7Unpad 去除 PKCS#7 填充
func pkcs7Unpad(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrMalformed
	}
	padding := int(data[len(data)-1])
	if padding == 0 || padding > aes.BlockSize || padding > len(data) {
		return nil, ErrMalformed
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, ErrMalformed
		}
	}
	return data[:len(data)-padding], nil
}
