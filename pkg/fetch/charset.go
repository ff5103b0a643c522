package fetch

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

// lookupCharset maps a charset name (as it appears in a Content-Type
// header, or in an encoding config) to a golang.org/x/text encoding.
// htmlindex.Get covers the IANA/WHATWG aliases most charsets use;
// a handful of names used by the original crawler's Charset enum are
// added explicitly where htmlindex doesn't recognize the alias.
func lookupCharset(name string) (encoding.Encoding, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, fmt.Errorf("empty charset name")
	}
	switch name {
	case "shift_jis", "shiftjis", "sjis":
		return japanese.ShiftJIS, nil
	case "euc-jp", "eucjp":
		return japanese.EUCJP, nil
	case "iso-2022-jp":
		return japanese.ISO2022JP, nil
	case "euc-kr", "euckr":
		return korean.EUCKR, nil
	case "gbk":
		return simplifiedchinese.GBK, nil
	case "gb18030":
		return simplifiedchinese.GB18030, nil
	case "big5":
		return traditionalchinese.Big5, nil
	case "utf-16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), nil
	case "utf-16be":
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), nil
	case "utf-8", "utf8":
		return encoding.Nop, nil
	}
	if enc, err := htmlindex.Get(name); err == nil {
		return enc, nil
	}
	if enc, ok := charmapByName(name); ok {
		return enc, nil
	}
	return nil, fmt.Errorf("unknown charset: %s", name)
}

func charmapByName(name string) (encoding.Encoding, bool) {
	table := map[string]encoding.Encoding{
		"windows-1250": charmap.Windows1250,
		"windows-1251": charmap.Windows1251,
		"windows-1252": charmap.Windows1252,
		"windows-1253": charmap.Windows1253,
		"windows-1254": charmap.Windows1254,
		"windows-1255": charmap.Windows1255,
		"windows-1256": charmap.Windows1256,
		"windows-1257": charmap.Windows1257,
		"windows-1258": charmap.Windows1258,
		"windows-874":  charmap.Windows874,
		"koi8-r":       charmap.KOI8R,
		"koi8-u":       charmap.KOI8U,
		"ibm866":       charmap.CodePage866,
		"macintosh":    charmap.Macintosh,
		"iso-8859-2":   charmap.ISO8859_2,
		"iso-8859-3":   charmap.ISO8859_3,
		"iso-8859-4":   charmap.ISO8859_4,
		"iso-8859-5":   charmap.ISO8859_5,
		"iso-8859-6":   charmap.ISO8859_6,
		"iso-8859-7":   charmap.ISO8859_7,
		"iso-8859-8":   charmap.ISO8859_8,
		"iso-8859-10":  charmap.ISO8859_10,
		"iso-8859-13":  charmap.ISO8859_13,
		"iso-8859-14":  charmap.ISO8859_14,
		"iso-8859-15":  charmap.ISO8859_15,
		"iso-8859-16":  charmap.ISO8859_16,
	}
	enc, ok := table[name]
	return enc, ok
}

// convertCharset decodes body from the named source charset to UTF-8 and,
// unless the target is UTF-8 itself, re-encodes it into the target
// charset, returning the converted bytes or an error describing which
// step failed.
func convertCharset(body []byte, from, to string) ([]byte, error) {
	toLower := strings.ToLower(strings.TrimSpace(to))
	srcEnc, err := lookupCharset(from)
	if err != nil {
		return nil, fmt.Errorf("source charset %q: %w", from, err)
	}
	decoded, err := srcEnc.NewDecoder().Bytes(body)
	if err != nil {
		return nil, fmt.Errorf("decoding from %q: %w", from, err)
	}
	if toLower == "utf-8" || toLower == "utf8" {
		return decoded, nil
	}
	dstEnc, err := lookupCharset(to)
	if err != nil {
		return nil, fmt.Errorf("target charset %q: %w", to, err)
	}
	encoded, err := dstEnc.NewEncoder().Bytes(decoded)
	if err != nil {
		return nil, fmt.Errorf("encoding to %q: %w", to, err)
	}
	return encoded, nil
}

// isTextMIME reports whether a MIME type's top-level type is "text", or it
// is one of the common text-bearing application subtypes.
func isTextMIME(mimeType string) bool {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if strings.HasPrefix(mimeType, "text/") {
		return true
	}
	switch mimeType {
	case "application/json", "application/xml", "application/xhtml+xml", "application/javascript":
		return true
	}
	return false
}
