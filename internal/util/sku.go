package util

import (
	"strconv"
	"strings"
	"sync/atomic"
	"time"
	"unicode"
)

var skuSeq uint64

// MakeSKU builds "PRE-<base36 nanos>" from the product name. The time part
// keeps collisions out on a single node; the unique index catches the rest.
func MakeSKU(name string) string {
	prefix := make([]rune, 0, 3)
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			prefix = append(prefix, unicode.ToUpper(r))
		}
		if len(prefix) == 3 {
			break
		}
	}
	if len(prefix) == 0 {
		prefix = []rune("SKU")
	}
	uniq := strconv.FormatInt(time.Now().UnixNano(), 36) +
		strconv.FormatUint(atomic.AddUint64(&skuSeq, 1), 36)
	return string(prefix) + "-" + strings.ToUpper(uniq)
}

// MakeSlug lowercases the name and joins its alphanumeric runs with hyphens.
func MakeSlug(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
