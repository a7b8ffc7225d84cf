package checker

import (
	"regexp"
	"sort"
)

// metaCharsetByte1024Limit: an HTML5 meta charset declaration must start
// within the first 1024 bytes of the document. A declaration starting at
// offset 1024 exactly is still inside the window; 1025 is not.
const metaCharsetByteLimit = 1024

// reUTF16LEBE matches UTF-16 charset names carrying a byte-order suffix
// in any of their spellings ("utf-16le", "UTF-16 (BE)", "utf-16 -le").
// Plain "utf-16" does not match.
var reUTF16LEBE = regexp.MustCompile(`(?i)UTF-16\s*-?\s*\(?[BL]E\)?`)

func charsetRules() []Rule {
	return []Rule{
		{
			Name:  "rep_charset_conflict",
			Emits: []IDSeverity{{"rep_charset_conflict", Error}},
			Check: func(f *Facts) []Assertion {
				if len(f.AllCharsetDecls) <= 1 {
					return nil
				}
				return one("rep_charset_conflict", Error, sortedKeys(f.AllCharsetDecls))
			},
		},
		{
			Name: "rep_charset_none",
			Emits: []IDSeverity{
				{"rep_charset_none", Error},
				{"rep_charset_none", Warning},
			},
			Check: func(f *Facts) []Assertion {
				if len(f.AllCharsetDecls) > 0 {
					return nil
				}
				sev := Warning
				if f.IsHTML5() {
					sev = Error
				}
				return one("rep_charset_none", sev, []string{})
			},
		},
		{
			Name:  "rep_charset_no_effective_charset",
			Emits: []IDSeverity{{"rep_charset_no_effective_charset", Warning}},
			Check: func(f *Facts) []Assertion {
				if f.CharsetFromXMLDecl == "" {
					return nil
				}
				if f.CharsetFromHTTP != "" || f.BOM != nil || len(f.MetaCharsetTags) > 0 {
					return nil
				}
				if !(f.IsHTML() || f.IsHTML5() || (f.IsXHTML10() && !f.ServedAsXML)) {
					return nil
				}
				return one("rep_charset_no_effective_charset", Warning, []string{f.XMLDeclaration})
			},
		},
		{
			Name:  "rep_charset_no_in_doc",
			Emits: []IDSeverity{{"rep_charset_no_in_doc", Warning}},
			Check: func(f *Facts) []Assertion {
				if f.CharsetFromHTTP == "" || len(f.InDocumentCharsetDecls) > 0 {
					return nil
				}
				return one("rep_charset_no_in_doc", Warning, []string{f.CharsetFromHTTP})
			},
		},
		{
			Name:  "rep_charset_no_utf8",
			Emits: []IDSeverity{{"rep_charset_no_utf8", Warning}},
			Check: func(f *Facts) []Assertion {
				if len(f.AllCharsetDecls) == 0 || f.AllCharsetDecls["utf-8"] {
					return nil
				}
				return one("rep_charset_no_utf8", Warning, sortedKeys(f.AllCharsetDecls))
			},
		},
		{
			Name:  "rep_charset_no_visible_charset",
			Emits: []IDSeverity{{"rep_charset_no_visible_charset", Warning}},
			Check: func(f *Facts) []Assertion {
				// The BOM is the only in-document declaration: nothing
				// a reader of the source can see declares the encoding.
				if f.BOM == nil || f.CharsetFromXMLDecl != "" || len(f.MetaCharsetTags) > 0 {
					return nil
				}
				return one("rep_charset_no_visible_charset", Warning, []string{f.BOM.Name})
			},
		},
		{
			Name:  "rep_charset_bom_found",
			Emits: []IDSeverity{{"rep_charset_bom_found", Warning}},
			Check: func(f *Facts) []Assertion {
				if f.BOM == nil || f.BOM.Charset != "utf-8" {
					return nil
				}
				return one("rep_charset_bom_found", Warning, []string{f.BOM.Name})
			},
		},
		{
			Name:  "rep_charset_bom_in_content",
			Emits: []IDSeverity{{"rep_charset_bom_in_content", Warning}},
			Check: func(f *Facts) []Assertion {
				if !f.BOMFoundInContent {
					return nil
				}
				return one("rep_charset_bom_in_content", Warning, []string{})
			},
		},
		{
			Name: "rep_charset_charset_attr",
			Emits: []IDSeverity{
				{"rep_charset_charset_attr", Error},
				{"rep_charset_charset_attr", Warning},
			},
			Check: func(f *Facts) []Assertion {
				// The bare charset attribute form predates everything
				// but HTML5; flag it on every other doctype.
				if f.IsHTML5() {
					return nil
				}
				ctx := metaLiterals(f, false)
				if len(ctx) == 0 {
					return nil
				}
				sev := Warning
				if f.ServedAsXML {
					sev = Error
				}
				return one("rep_charset_charset_attr", sev, ctx)
			},
		},
		{
			Name:  "rep_charset_pragma",
			Emits: []IDSeverity{{"rep_charset_pragma", Warning}},
			Check: func(f *Facts) []Assertion {
				if !f.IsHTML5() {
					return nil
				}
				ctx := metaLiterals(f, true)
				if len(ctx) == 0 {
					return nil
				}
				return one("rep_charset_pragma", Warning, ctx)
			},
		},
		{
			Name: "rep_charset_incorrect_use_meta",
			Emits: []IDSeverity{
				{"rep_charset_incorrect_use_meta", Error},
				{"rep_charset_incorrect_use_meta", Warning},
			},
			Check: func(f *Facts) []Assertion {
				if !f.IsXHTML1x() || len(f.MetaCharsetTags) == 0 {
					return nil
				}
				sev := Warning
				if f.ServedAsXML {
					sev = Error
				}
				return one("rep_charset_incorrect_use_meta", sev, allMetaLiterals(f))
			},
		},
		{
			Name:  "rep_charset_multiple_meta",
			Emits: []IDSeverity{{"rep_charset_multiple_meta", Error}},
			Check: func(f *Facts) []Assertion {
				if len(f.MetaCharsetTags) <= 1 {
					return nil
				}
				return one("rep_charset_multiple_meta", Error, allMetaLiterals(f))
			},
		},
		{
			Name: "rep_charset_xml_decl_used",
			Emits: []IDSeverity{
				{"rep_charset_xml_decl_used", Error},
				{"rep_charset_xml_decl_used", Warning},
			},
			Check: func(f *Facts) []Assertion {
				if f.XMLDeclaration == "" {
					return nil
				}
				if !(f.IsHTML() || f.IsHTML5() || (f.IsXHTML10() && !f.ServedAsXML)) {
					return nil
				}
				sev := Warning
				if f.IsHTML5() {
					sev = Error
				}
				return one("rep_charset_xml_decl_used", sev, []string{f.XMLDeclaration})
			},
		},
		{
			Name:  "rep_charset_no_encoding_xml",
			Emits: []IDSeverity{{"rep_charset_no_encoding_xml", Warning}},
			Check: func(f *Facts) []Assertion {
				if !f.ServedAsXML || f.XMLDeclaration == "" || f.XMLDeclHasEncoding {
					return nil
				}
				return one("rep_charset_no_encoding_xml", Warning, []string{f.XMLDeclaration})
			},
		},
		{
			Name:  "rep_charset_1024_limit",
			Emits: []IDSeverity{{"rep_charset_1024_limit", Warning}},
			Check: func(f *Facts) []Assertion {
				if !f.IsHTML5() {
					return nil
				}
				var ctx []string
				for _, tag := range f.MetaCharsetTags {
					if tag.Offset > metaCharsetByteLimit {
						ctx = append(ctx, tag.Literal)
					}
				}
				if len(ctx) == 0 {
					return nil
				}
				return one("rep_charset_1024_limit", Warning, dedupe(ctx))
			},
		},
		{
			Name:  "rep_charset_bogus_utf16",
			Emits: []IDSeverity{{"rep_charset_bogus_utf16", Error}},
			Check: func(f *Facts) []Assertion {
				ctx := matchingDecls(f.AllCharsetDecls)
				if len(ctx) == 0 {
					return nil
				}
				return one("rep_charset_bogus_utf16", Error, ctx)
			},
		},
		{
			Name: "rep_charset_utf16_meta",
			Emits: []IDSeverity{
				{"rep_charset_utf16_meta", Error},
				{"rep_charset_utf16_meta", Warning},
			},
			Check: func(f *Facts) []Assertion {
				var ctx []string
				for _, tag := range f.MetaCharsetTags {
					if tag.Charset == "utf-16" {
						ctx = append(ctx, tag.Literal)
					}
				}
				if len(ctx) == 0 {
					return nil
				}
				sev := Warning
				if f.IsHTML5() {
					sev = Error
				}
				return one("rep_charset_utf16_meta", sev, dedupe(ctx))
			},
		},
		{
			Name:  "rep_charset_utf16lebe",
			Emits: []IDSeverity{{"rep_charset_utf16lebe", Error}},
			Check: func(f *Facts) []Assertion {
				if f.BOM == nil || f.BOM.Charset == "utf-8" {
					return nil
				}
				ctx := matchingDecls(f.InDocumentCharsetDecls)
				if len(ctx) == 0 {
					return nil
				}
				return one("rep_charset_utf16lebe", Error, ctx)
			},
		},
	}
}

// metaLiterals returns the deduplicated literal tags of meta charset
// declarations in the given form (pragma or charset attribute).
func metaLiterals(f *Facts, pragma bool) []string {
	var out []string
	for _, tag := range f.MetaCharsetTags {
		if tag.Pragma == pragma {
			out = append(out, tag.Literal)
		}
	}
	return dedupe(out)
}

// allMetaLiterals returns every literal meta charset tag, deduplicated,
// in discovery order.
func allMetaLiterals(f *Facts) []string {
	var out []string
	for _, tag := range f.MetaCharsetTags {
		out = append(out, tag.Literal)
	}
	return dedupe(out)
}

// matchingDecls returns the declarations matching the UTF-16 LE/BE
// pattern, sorted.
func matchingDecls(set map[string]bool) []string {
	var out []string
	for cs := range set {
		if reUTF16LEBE.MatchString(cs) {
			out = append(out, cs)
		}
	}
	sort.Strings(out)
	return out
}

// dedupe removes duplicates while preserving first-seen order. Rules
// use it so one rule invocation never emits the same context twice.
func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
