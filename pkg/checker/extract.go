package checker

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/encoding"
	encunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/unicode/norm"

	"github.com/i18ncheck/i18ncheck/pkg/htmldoc"
)

// BOM byte sequences. UTF-32 marks must be checked before UTF-16, since
// the UTF-32LE mark starts with the UTF-16LE one.
var bomTable = []struct {
	prefix  []byte
	charset string
	name    string
}{
	{[]byte{0xEF, 0xBB, 0xBF}, "utf-8", "UTF-8 BOM"},
	{[]byte{0xFF, 0xFE, 0x00, 0x00}, "utf-32le", "UTF-32LE BOM"},
	{[]byte{0x00, 0x00, 0xFE, 0xFF}, "utf-32be", "UTF-32BE BOM"},
	{[]byte{0xFF, 0xFE}, "utf-16le", "UTF-16LE BOM"},
	{[]byte{0xFE, 0xFF}, "utf-16be", "UTF-16BE BOM"},
}

// Literal-text scan patterns. These run over the byte-decoded source,
// not the parsed tree, because the parser normalizes tags and loses the
// verbatim text needed for context strings.
var (
	reDoctype     = regexp.MustCompile(`(?is)<!DOCTYPE[^>]*>`)
	reXMLDecl     = regexp.MustCompile(`(?is)<\?xml[^?]*\?>`)
	reXMLEncoding = regexp.MustCompile(`(?is)encoding\s*=\s*["']([^"']+)["']`)
	reOpenHTMLTag = regexp.MustCompile(`(?is)<html[^>]*>`)
	reMetaTag     = regexp.MustCompile(`(?is)<meta[^>]*>`)
	reCharsetVal  = regexp.MustCompile(`(?is)charset\s*=\s*["']?\s*([^"'\s;>/]+)`)
	reHTTPEquiv   = regexp.MustCompile(`(?is)http-equiv\s*=\s*["']?\s*content-type`)
)

// declarationScanWindow bounds the doctype and XML-declaration search.
// A declaration appearing later is treated as absent.
const declarationScanWindow = 512

// bomContentScanStart is the first offset at which a BOM-like byte
// pattern inside the body (as opposed to a leading BOM) is reported.
const bomContentScanStart = 5

// malformedContentType is a known server-side bug: a doubled semicolon
// in the Content-Type value. The checker tolerates it by treating the
// header as absent instead of reporting a parse failure.
const malformedContentType = "text/html;; charset=UTF-8"

// Extract derives all document signals from the resource. It is total
// for byte input: an empty or unparseable body yields a Facts whose
// HTML-dependent fields are empty and whose Body is empty; callers
// detect that case explicitly.
func Extract(res *Resource) (*Facts, error) {
	f := &Facts{
		CharsetMetaDecls:       map[string][]string{},
		AllCharsetDecls:        map[string]bool{},
		InDocumentCharsetDecls: map[string]bool{},
		NonUTF8CharsetDecls:    map[string]bool{},
		AllLangAttrs:           map[string]bool{},
		AllXMLLangAttrs:        map[string]bool{},
		NonNFCClassOrIDNames:   map[string]bool{},
		AllDirAttrValues:       map[string]bool{},
	}

	body := res.Body()
	extractHTTPSignals(res, f)
	extractBOM(body, f)

	text := decodeBody(body, f.BOM)
	f.Body = text
	if strings.TrimSpace(text) == "" {
		f.Body = ""
		f.DoctypeClass = classifyDoctype("")
		return f, nil
	}

	extractLiteralSignals(text, f)
	extractMetaCharsets(text, f)

	doc, err := htmldoc.Parse(text)
	if err != nil {
		// Treat an unparseable body like missing content.
		f.Body = ""
		return f, nil
	}
	f.Doc = doc
	extractDOMSignals(doc, f)

	aggregateCharsets(f)
	return f, nil
}

// extractHTTPSignals reads the Content-Type and Content-Language headers.
func extractHTTPSignals(res *Resource, f *Facts) {
	ct := res.Header("Content-Type")
	if ct == malformedContentType {
		// Doubled semicolon: drop the header entirely.
		ct = ""
	}
	f.ContentType = ct
	if ct != "" {
		f.ServedAsXML = strings.Contains(strings.ToLower(ct), "application/xhtml+xml")
		if m := reCharsetVal.FindStringSubmatch(ct); m != nil {
			f.CharsetFromHTTP = normalizeCharset(m[1])
		}
	}
	f.ContentLanguage = res.Header("Content-Language")
	f.XContentTypeOptions = res.Header("X-Content-Type-Options")
}

// extractBOM detects a leading byte-order mark and any BOM-like byte
// pattern occurring inside the body.
func extractBOM(body []byte, f *Facts) {
	for _, b := range bomTable {
		if bytes.HasPrefix(body, b.prefix) {
			f.BOM = &ByteOrderMark{Charset: b.charset, Name: b.name}
			break
		}
	}
	for _, b := range bomTable {
		if idx := bytes.Index(body[min(bomContentScanStart, len(body)):], b.prefix); idx >= 0 {
			f.BOMFoundInContent = true
			break
		}
	}
}

// decodeBody turns the raw bytes into text using the leading BOM's
// charset when present, UTF-8 otherwise.
func decodeBody(body []byte, bom *ByteOrderMark) string {
	if bom == nil || bom.Charset == "utf-8" {
		return string(body)
	}
	var dec *encoding.Decoder
	switch bom.Charset {
	case "utf-16le":
		dec = encunicode.UTF16(encunicode.LittleEndian, encunicode.UseBOM).NewDecoder()
	case "utf-16be":
		dec = encunicode.UTF16(encunicode.BigEndian, encunicode.UseBOM).NewDecoder()
	case "utf-32le":
		dec = utf32.UTF32(utf32.LittleEndian, utf32.UseBOM).NewDecoder()
	case "utf-32be":
		dec = utf32.UTF32(utf32.BigEndian, utf32.UseBOM).NewDecoder()
	default:
		return string(body)
	}
	out, err := dec.Bytes(body)
	if err != nil {
		return string(body)
	}
	return string(out)
}

// extractLiteralSignals finds the doctype, XML declaration, and opening
// <html> tag in the decoded source. The doctype and XML declaration are
// only looked for within the first 512 bytes; the <html> tag search is
// unbounded.
func extractLiteralSignals(text string, f *Facts) {
	window := text
	if len(window) > declarationScanWindow {
		window = window[:declarationScanWindow]
	}

	f.DoctypeDeclaration = reDoctype.FindString(window)
	f.DoctypeClass = classifyDoctype(f.DoctypeDeclaration)

	if decl := reXMLDecl.FindString(window); decl != "" {
		f.XMLDeclaration = decl
		if m := reXMLEncoding.FindStringSubmatch(decl); m != nil {
			f.XMLDeclHasEncoding = true
			f.CharsetFromXMLDecl = normalizeCharset(m[1])
		}
	}

	f.OpeningHTMLTag = reOpenHTMLTag.FindString(text)
}

// extractMetaCharsets scans the source for meta tags that declare a
// charset, keeping the literal tag text and its byte offset. Both the
// http-equiv="Content-Type" pragma form and the bare charset attribute
// form are extracted through the same charset= pattern.
func extractMetaCharsets(text string, f *Facts) {
	for _, loc := range reMetaTag.FindAllStringIndex(text, -1) {
		tag := text[loc[0]:loc[1]]
		if !strings.Contains(strings.ToLower(tag), "charset") {
			continue
		}
		m := reCharsetVal.FindStringSubmatch(tag)
		if m == nil {
			continue
		}
		cs := normalizeCharset(m[1])
		f.MetaCharsetTags = append(f.MetaCharsetTags, MetaCharsetTag{
			Charset: cs,
			Literal: tag,
			Offset:  loc[0],
			Pragma:  reHTTPEquiv.MatchString(tag),
		})
		if _, seen := f.CharsetMetaDecls[cs]; !seen {
			f.metaCharsetOrder = append(f.metaCharsetOrder, cs)
		}
		f.CharsetMetaDecls[cs] = append(f.CharsetMetaDecls[cs], tag)
	}
}

// extractDOMSignals walks the parsed tree for structural facts: html
// tag attributes, meta Content-Language, lang/xml:lang pairs, non-NFC
// class and id tokens, and dir attribute values.
func extractDOMSignals(doc *htmldoc.Document, f *Facts) {
	if root := doc.First("html"); root != nil {
		if v, ok := htmldoc.Attr(root, "lang"); ok {
			f.LangAttr = &v
		}
		if v, ok := htmldoc.Attr(root, "xml:lang"); ok {
			f.XMLLangAttr = &v
		}
		if v, ok := htmldoc.Attr(root, "dir"); ok {
			f.DirAttr = &v
		}
	}

	for _, meta := range doc.ElementsByTag("meta") {
		equiv, ok := htmldoc.Attr(meta, "http-equiv")
		if !ok || !strings.EqualFold(equiv, "Content-Language") {
			continue
		}
		if v, ok := htmldoc.Attr(meta, "content"); ok && f.LangFromMetaTag == "" {
			f.LangFromMetaTag = v
		}
	}

	seenNonNFCTag := map[string]bool{}
	for _, n := range doc.AllElements() {
		lang, hasLang := htmldoc.Attr(n, "lang")
		xmlLang, hasXMLLang := htmldoc.Attr(n, "xml:lang")
		if hasLang {
			f.AllLangAttrs[lang] = true
		}
		if hasXMLLang {
			f.AllXMLLangAttrs[xmlLang] = true
		}
		if hasLang && hasXMLLang && lang != xmlLang {
			f.ConflictingLangPairs = append(f.ConflictingLangPairs, LangPair{Lang: lang, XMLLang: xmlLang})
		}

		if v, ok := htmldoc.Attr(n, "dir"); ok {
			f.AllDirAttrValues[v] = true
		}

		offending := false
		for _, token := range htmldoc.ClassTokens(n) {
			if !isNFCASCII(token) {
				f.NonNFCClassOrIDNames[token] = true
				offending = true
			}
		}
		if id, ok := htmldoc.Attr(n, "id"); ok && id != "" && !isNFCASCII(id) {
			f.NonNFCClassOrIDNames[id] = true
			offending = true
		}
		if offending {
			tag := htmldoc.RenderOpenTag(n)
			if !seenNonNFCTag[tag] {
				seenNonNFCTag[tag] = true
				f.NonNFCLiteralTags = append(f.NonNFCLiteralTags, tag)
			}
		}
	}
}

// aggregateCharsets builds the charset declaration unions across all
// four sources. Conflicts are exposed as set size, never resolved here;
// picking a winner is the rule engine's job.
func aggregateCharsets(f *Facts) {
	add := func(cs string, inDocument bool) {
		if cs == "" {
			return
		}
		cs = strings.ToLower(cs)
		f.AllCharsetDecls[cs] = true
		if inDocument {
			f.InDocumentCharsetDecls[cs] = true
		}
		if cs != "utf-8" {
			f.NonUTF8CharsetDecls[cs] = true
		}
	}
	add(f.CharsetFromHTTP, false)
	if f.BOM != nil {
		add(f.BOM.Charset, true)
	}
	add(f.CharsetFromXMLDecl, true)
	for cs := range f.CharsetMetaDecls {
		add(cs, true)
	}
}

// normalizeCharset lower-cases and trims a charset token.
func normalizeCharset(cs string) string {
	return strings.ToLower(strings.TrimSpace(cs))
}

// isNFCASCII reports whether the token is pure US-ASCII and already in
// Unicode Normalization Form C. Tokens failing either test feed the
// non-NFC identifier signal.
func isNFCASCII(token string) bool {
	for _, r := range token {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return norm.NFC.IsNormalString(token)
}
