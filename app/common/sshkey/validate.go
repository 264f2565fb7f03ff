package sshkey

import (
	"encoding/base64"
	"encoding/binary"
	"strings"
)

// Validate 校验 OpenSSH 单行公钥格式：<type> <base64> <comment> 。
// base64 解码后的前 4 字节（大端序）是内嵌类型串的长度，内嵌类型串必须和声明
// 的 type 一致。这是一个判定函数：任何格式问题都返回 false ，不会报错。
func Validate(raw string) bool {
	fields := strings.Fields(strings.TrimSpace(raw))
	if len(fields) < 3 {
		return false
	}

	declaredType := fields[0]

	blob, err := base64.StdEncoding.DecodeString(fields[1])
	if err != nil {
		return false
	}
	if len(blob) < 4 {
		return false
	}

	typeLen := binary.BigEndian.Uint32(blob[:4])
	if uint32(len(blob)-4) < typeLen {
		return false
	}

	return string(blob[4:4+typeLen]) == declaredType
}
