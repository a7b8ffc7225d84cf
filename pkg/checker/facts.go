package checker

import (
	"regexp"
	"strings"

	"github.com/i18ncheck/i18ncheck/pkg/htmldoc"
)

// DoctypeClass classifies the document's doctype declaration.
type DoctypeClass string

const (
	DoctypeHTML        DoctypeClass = "HTML"
	DoctypeHTML5       DoctypeClass = "HTML5"
	DoctypeXHTML10     DoctypeClass = "XHTML10"
	DoctypeXHTML10RDFa DoctypeClass = "XHTML10_RDFA"
	DoctypeXHTML11     DoctypeClass = "XHTML11"
	DoctypeXHTML11RDFa DoctypeClass = "XHTML11_RDFA"
)

// ByteOrderMark identifies a leading BOM.
type ByteOrderMark struct {
	Charset string // normalized charset name, e.g. "utf-8"
	Name    string // literal mark name, e.g. "UTF-8 BOM"
}

// MetaCharsetTag is one literal meta charset declaration found in the
// document source.
type MetaCharsetTag struct {
	Charset string // normalized (lower-case, trimmed) charset value
	Literal string // verbatim tag text from the source
	Offset  int    // byte offset of '<' within the scanned text
	Pragma  bool   // http-equiv="Content-Type" form rather than charset attribute
}

// LangPair is a lang / xml:lang attribute pair found on one element.
type LangPair struct {
	Lang    string
	XMLLang string
}

// Facts is the immutable derived-facts snapshot one analysis computes.
// It is built exactly once per document and never mutated afterwards;
// every rule reads the same snapshot, which keeps evaluation
// deterministic and the two stages independently testable.
type Facts struct {
	// Literal source discoveries.
	DoctypeDeclaration string
	DoctypeClass       DoctypeClass
	BOM                *ByteOrderMark
	BOMFoundInContent  bool
	XMLDeclaration     string
	XMLDeclHasEncoding bool
	CharsetFromXMLDecl string
	OpeningHTMLTag     string

	// Attributes of the first <html> element.
	LangAttr    *string
	XMLLangAttr *string
	DirAttr     *string

	// Charset declarations by source.
	MetaCharsetTags        []MetaCharsetTag
	CharsetMetaDecls       map[string][]string // normalized charset -> literal tags, discovery order
	metaCharsetOrder       []string            // key insertion order for CharsetMetaDecls
	ContentType            string              // verbatim Content-Type header, "" if absent/malformed
	XContentTypeOptions    string              // verbatim X-Content-Type-Options header
	CharsetFromHTTP        string
	ServedAsXML            bool
	AllCharsetDecls        map[string]bool // union of all sources, lower-cased
	InDocumentCharsetDecls map[string]bool // union minus the HTTP source
	NonUTF8CharsetDecls    map[string]bool

	// Language declarations.
	ContentLanguage      string // verbatim Content-Language header
	LangFromMetaTag      string
	AllLangAttrs         map[string]bool
	AllXMLLangAttrs      map[string]bool
	ConflictingLangPairs []LangPair

	// Identifier and direction signals.
	NonNFCClassOrIDNames map[string]bool
	NonNFCLiteralTags    []string // rendered tags owning offending tokens, deduped
	AllDirAttrValues     map[string]bool

	// The decoded document text ("" means no content could be
	// retrieved) and the parsed tree (nil in the same case).
	Body string
	Doc  *htmldoc.Document
}

// MetaCharsets returns the distinct normalized meta charset values in
// discovery order.
func (f *Facts) MetaCharsets() []string {
	return f.metaCharsetOrder
}

// Convenience predicates. These are pure functions of DoctypeClass and
// the BOM, never separately stored state.

func (f *Facts) IsHTML() bool    { return f.DoctypeClass == DoctypeHTML }
func (f *Facts) IsHTML5() bool   { return f.DoctypeClass == DoctypeHTML5 }
func (f *Facts) IsXHTML10() bool {
	return f.DoctypeClass == DoctypeXHTML10 || f.DoctypeClass == DoctypeXHTML10RDFa
}
func (f *Facts) IsXHTML11() bool {
	return f.DoctypeClass == DoctypeXHTML11 || f.DoctypeClass == DoctypeXHTML11RDFa
}
func (f *Facts) IsXHTML1x() bool { return f.IsXHTML10() || f.IsXHTML11() }
func (f *Facts) IsRDFa() bool {
	return f.DoctypeClass == DoctypeXHTML10RDFa || f.DoctypeClass == DoctypeXHTML11RDFa
}
func (f *Facts) IsUTF16() bool {
	return f.BOM != nil && strings.HasPrefix(f.BOM.Charset, "utf-16")
}

// Doctype classification patterns, checked in order against the literal
// declaration. Absence of a doctype classifies as HTML5 by policy.
var (
	reDoctypeXHTML10RDFa = regexp.MustCompile(`(?i)XHTML\+RDFa\s+1\.0|XHTML\s+1\.0.*RDFa`)
	reDoctypeXHTML11RDFa = regexp.MustCompile(`(?i)XHTML\+RDFa\s+1\.1|XHTML\s+1\.1.*RDFa`)
	reDoctypeXHTML10     = regexp.MustCompile(`(?i)XHTML\s+1\.0`)
	reDoctypeXHTML11     = regexp.MustCompile(`(?i)XHTML\s+1\.1`)
	reDoctypeHTMLLegacy  = regexp.MustCompile(`(?i)HTML\s+(4|3)\.|HTML\s+4`)
)

// classifyDoctype maps a literal doctype declaration to its class.
func classifyDoctype(decl string) DoctypeClass {
	switch {
	case decl == "":
		return DoctypeHTML5
	case reDoctypeXHTML11RDFa.MatchString(decl):
		return DoctypeXHTML11RDFa
	case reDoctypeXHTML10RDFa.MatchString(decl):
		return DoctypeXHTML10RDFa
	case reDoctypeXHTML11.MatchString(decl):
		return DoctypeXHTML11
	case reDoctypeXHTML10.MatchString(decl):
		return DoctypeXHTML10
	case reDoctypeHTMLLegacy.MatchString(decl):
		return DoctypeHTML
	default:
		// <!DOCTYPE html> and anything unrecognized.
		return DoctypeHTML5
	}
}
