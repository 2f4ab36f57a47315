// Package keygen 提供确定性的缓存键构造
// 同一组输入在任何进程中总是产生相同的键
package keygen

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Generate builds a fully qualified cache key from a namespace, an identifier
// and an optional parameter set. The parameter set is order-independent:
// {a:1,b:2} and {b:2,a:1} yield the same key.
//
// Generate 从命名空间、标识符和可选的参数集构造完全限定的缓存键。
// 参数集与顺序无关：{a:1,b:2} 和 {b:2,a:1} 产生相同的键。
//
// Parameters:
//   - namespace: Prefix partitioning keys of logically distinct caches
//   - identifier: The logical identifier within the namespace
//   - params: Optional parameters folded into the key via a deterministic hash
//
// Returns:
//   - string: "{namespace}:{identifier}" or "{namespace}:{identifier}:{hash}"
func Generate(namespace, identifier string, params map[string]any) string {
	if len(params) == 0 {
		return namespace + ":" + identifier
	}
	return namespace + ":" + identifier + ":" + HashString(canonicalize(params))
}

// canonicalize 将参数序列化为按键名排序的 "k=JSON(v)" 串
func canonicalize(params map[string]any) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		data, err := json.Marshal(params[k])
		if err != nil {
			// 不可序列化的值退化为其格式化表示，保持键的确定性
			data = []byte(fmt.Sprintf("%q", fmt.Sprintf("%v", params[k])))
		}
		parts = append(parts, k+"="+string(data))
	}
	return strings.Join(parts, "&")
}

// HashString computes a deterministic 32-bit rolling hash of the input and
// encodes its absolute value in base 36. The empty string hashes to "0".
//
// HashString 计算输入的确定性32位滚动哈希，并以36进制编码其绝对值。
// 空字符串的哈希为"0"。
func HashString(s string) string {
	var h int32
	for _, r := range s {
		// h*31 + r，按32位有符号整数回绕
		h = (h << 5) - h + int32(r)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return strconv.FormatInt(v, 36)
}
