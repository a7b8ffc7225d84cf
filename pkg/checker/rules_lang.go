package checker

import "regexp"

// reLangTag is a syntactic sanity check on language tags: one to eight
// ASCII letters followed by hyphen-separated alphanumeric subtags. It
// deliberately stops short of full BCP 47 validity.
var reLangTag = regexp.MustCompile(`^[a-zA-Z]{1,8}(-[a-zA-Z0-9]{1,8})*$`)

func langRules() []Rule {
	return []Rule{
		{
			Name:  "rep_lang_conflict",
			Emits: []IDSeverity{{"rep_lang_conflict", Error}},
			Check: func(f *Facts) []Assertion {
				if len(f.ConflictingLangPairs) == 0 {
					return nil
				}
				// One context per pair keeps the association visible even
				// when a value recurs across pairs.
				var ctx []string
				for _, p := range f.ConflictingLangPairs {
					ctx = append(ctx, p.Lang+" / "+p.XMLLang)
				}
				return one("rep_lang_conflict", Error, dedupe(ctx))
			},
		},
		{
			Name: "rep_lang_content_lang_meta",
			Emits: []IDSeverity{
				{"rep_lang_content_lang_meta", Error},
				{"rep_lang_content_lang_meta", Warning},
			},
			Check: func(f *Facts) []Assertion {
				if f.LangFromMetaTag == "" {
					return nil
				}
				// The Content-Language pragma is obsolete in HTML5.
				sev := Warning
				if f.IsHTML5() {
					sev = Error
				}
				return one("rep_lang_content_lang_meta", sev, []string{f.LangFromMetaTag})
			},
		},
		{
			// The "no language attribute" family varies the emitted id
			// by doctype at constant WARNING severity: text/html
			// documents want lang, XML-flavored ones want xml:lang. An
			// XHTML 1.x document served as text/html carrying neither
			// attribute receives both assertions.
			Name: "rep_lang_no_lang_attr",
			Emits: []IDSeverity{
				{"rep_lang_missing_html_attr", Warning},
				{"rep_lang_missing_xml_attr", Warning},
			},
			Check: func(f *Facts) []Assertion {
				if f.OpeningHTMLTag == "" {
					return nil
				}
				var out []Assertion
				if f.LangAttr == nil && !f.ServedAsXML {
					out = append(out, NewAssertion("rep_lang_missing_html_attr", Warning, []string{f.OpeningHTMLTag}))
				}
				if f.XMLLangAttr == nil && (f.ServedAsXML || f.IsXHTML1x()) {
					out = append(out, NewAssertion("rep_lang_missing_xml_attr", Warning, []string{f.OpeningHTMLTag}))
				}
				return out
			},
		},
		{
			Name:  "rep_lang_xml_attr_in_html",
			Emits: []IDSeverity{{"rep_lang_xml_attr_in_html", Warning}},
			Check: func(f *Facts) []Assertion {
				if f.XMLLangAttr == nil || f.ServedAsXML {
					return nil
				}
				if !(f.IsHTML() || f.IsHTML5()) {
					return nil
				}
				return one("rep_lang_xml_attr_in_html", Warning, []string{*f.XMLLangAttr})
			},
		},
		{
			Name:  "rep_lang_malformed_attr",
			Emits: []IDSeverity{{"rep_lang_malformed_attr", Warning}},
			Check: func(f *Facts) []Assertion {
				offending := map[string]bool{}
				collect := func(set map[string]bool) {
					for v := range set {
						// The empty tag is valid: it means "language unknown".
						if v != "" && !reLangTag.MatchString(v) {
							offending[v] = true
						}
					}
				}
				collect(f.AllLangAttrs)
				collect(f.AllXMLLangAttrs)
				if len(offending) == 0 {
					return nil
				}
				return one("rep_lang_malformed_attr", Warning, sortedKeys(offending))
			},
		},
	}
}
