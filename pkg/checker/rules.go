package checker

import "sort"

// TemplateResolver supplies display text for an assertion id+severity
// pair. It is an external collaborator: the checker never computes
// display text itself beyond pass-through context strings. A miss
// yields empty strings; catalog completeness is enforced at startup via
// EmittablePairs.
type TemplateResolver interface {
	Lookup(id string, severity string) (title, description string)
}

// IDSeverity names one assertion id + severity combination a rule can emit.
type IDSeverity struct {
	ID       string
	Severity Severity
}

// Rule is one independent condition → assertion mapping. Check is a
// pure function of the facts snapshot: it must not mutate Facts and
// returns zero, one, or (for set-emitting rules) several assertions.
type Rule struct {
	Name  string
	Emits []IDSeverity
	Check func(*Facts) []Assertion
}

// Catalog returns the fixed, ordered rule catalog. The order is stable
// for readability only; final output ordering is the assertion total
// order, so evaluation order never shows through.
func Catalog() []Rule {
	var rules []Rule
	rules = append(rules, infoRules()...)
	rules = append(rules, charsetRules()...)
	rules = append(rules, langRules()...)
	rules = append(rules, markupRules()...)
	return rules
}

// EmittablePairs returns every id+severity pair any catalog rule can
// emit, plus the no-content assertion. Template catalogs are validated
// against this set at startup.
func EmittablePairs() []IDSeverity {
	seen := map[IDSeverity]bool{}
	var out []IDSeverity
	add := func(p IDSeverity) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	add(IDSeverity{ID: "no_content", Severity: Message})
	for _, r := range Catalog() {
		for _, p := range r.Emits {
			add(p)
		}
	}
	return out
}

// Evaluate runs the rule catalog against one facts snapshot and returns
// the sorted assertion list. When the document body is empty the whole
// catalog is skipped and the single no_content MESSAGE substitutes for
// the analysis.
func Evaluate(facts *Facts, tpl TemplateResolver) []Assertion {
	if facts.Body == "" {
		a := NewAssertion("no_content", Message, []string{})
		resolve(&a, tpl)
		return []Assertion{a}
	}

	var out []Assertion
	for _, rule := range Catalog() {
		for _, a := range rule.Check(facts) {
			resolve(&a, tpl)
			out = append(out, a)
		}
	}
	SortAssertions(out)
	return out
}

// Analyze is the core entry point: extract signals from the resource,
// evaluate the rule catalog, return the ordered assertion list.
func Analyze(res *Resource, tpl TemplateResolver) ([]Assertion, error) {
	facts, err := Extract(res)
	if err != nil {
		return nil, err
	}
	return Evaluate(facts, tpl), nil
}

func resolve(a *Assertion, tpl TemplateResolver) {
	if tpl == nil {
		return
	}
	a.Title, a.Description = tpl.Lookup(a.ID, string(a.Severity))
}

// sortedKeys returns the map's keys in lexicographic order.
func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// one wraps a single assertion for rule Check returns.
func one(id string, sev Severity, contexts []string) []Assertion {
	return []Assertion{NewAssertion(id, sev, contexts)}
}

// infoRules report the presence of a signal together with its value(s)
// and originating literal text.
func infoRules() []Rule {
	return []Rule{
		{
			Name:  "info_doctype",
			Emits: []IDSeverity{{"info_doctype", Info}},
			Check: func(f *Facts) []Assertion {
				if f.DoctypeDeclaration == "" {
					return nil
				}
				return one("info_doctype", Info, []string{string(f.DoctypeClass), f.DoctypeDeclaration})
			},
		},
		{
			Name:  "info_charset_bom",
			Emits: []IDSeverity{{"info_charset_bom", Info}},
			Check: func(f *Facts) []Assertion {
				if f.BOM == nil {
					return nil
				}
				return one("info_charset_bom", Info, []string{f.BOM.Charset, f.BOM.Name})
			},
		},
		{
			Name:  "info_charset_xml",
			Emits: []IDSeverity{{"info_charset_xml", Info}},
			Check: func(f *Facts) []Assertion {
				if f.CharsetFromXMLDecl == "" {
					return nil
				}
				return one("info_charset_xml", Info, []string{f.CharsetFromXMLDecl, f.XMLDeclaration})
			},
		},
		{
			Name:  "info_charset_meta",
			Emits: []IDSeverity{{"info_charset_meta", Info}},
			Check: func(f *Facts) []Assertion {
				if len(f.MetaCharsetTags) == 0 {
					return nil
				}
				var ctx []string
				for _, cs := range f.MetaCharsets() {
					ctx = append(ctx, cs)
					ctx = append(ctx, f.CharsetMetaDecls[cs]...)
				}
				return one("info_charset_meta", Info, ctx)
			},
		},
		{
			Name:  "info_charset_http",
			Emits: []IDSeverity{{"info_charset_http", Info}},
			Check: func(f *Facts) []Assertion {
				if f.CharsetFromHTTP == "" {
					return nil
				}
				return one("info_charset_http", Info, []string{f.CharsetFromHTTP, f.ContentType})
			},
		},
		{
			Name:  "info_lang_attr_lang",
			Emits: []IDSeverity{{"info_lang_attr_lang", Info}},
			Check: func(f *Facts) []Assertion {
				if f.LangAttr == nil && f.XMLLangAttr == nil {
					return nil
				}
				var ctx []string
				if f.LangAttr != nil {
					ctx = append(ctx, *f.LangAttr)
				}
				if f.XMLLangAttr != nil {
					ctx = append(ctx, *f.XMLLangAttr)
				}
				ctx = append(ctx, f.OpeningHTMLTag)
				return one("info_lang_attr_lang", Info, ctx)
			},
		},
		{
			Name:  "info_lang_http",
			Emits: []IDSeverity{{"info_lang_http", Info}},
			Check: func(f *Facts) []Assertion {
				if f.ContentLanguage == "" {
					return nil
				}
				return one("info_lang_http", Info, []string{f.ContentLanguage})
			},
		},
		{
			Name:  "info_lang_meta",
			Emits: []IDSeverity{{"info_lang_meta", Info}},
			Check: func(f *Facts) []Assertion {
				if f.LangFromMetaTag == "" {
					return nil
				}
				return one("info_lang_meta", Info, []string{f.LangFromMetaTag})
			},
		},
		{
			Name:  "info_dir_default",
			Emits: []IDSeverity{{"info_dir_default", Info}},
			Check: func(f *Facts) []Assertion {
				if f.DirAttr == nil {
					return nil
				}
				return one("info_dir_default", Info, []string{*f.DirAttr, f.OpeningHTMLTag})
			},
		},
		{
			Name:  "info_class_id",
			Emits: []IDSeverity{{"info_class_id", Info}},
			Check: func(f *Facts) []Assertion {
				if len(f.NonNFCClassOrIDNames) == 0 {
					return nil
				}
				return one("info_class_id", Info, sortedKeys(f.NonNFCClassOrIDNames))
			},
		},
		{
			Name:  "info_mimetype",
			Emits: []IDSeverity{{"info_mimetype", Info}},
			Check: func(f *Facts) []Assertion {
				if f.ContentType == "" {
					return nil
				}
				return one("info_mimetype", Info, []string{f.ContentType})
			},
		},
		{
			Name:  "info_headers",
			Emits: []IDSeverity{{"info_headers", Info}},
			Check: func(f *Facts) []Assertion {
				var ctx []string
				if f.ContentType != "" {
					ctx = append(ctx, "Content-Type: "+f.ContentType)
				}
				if f.ContentLanguage != "" {
					ctx = append(ctx, "Content-Language: "+f.ContentLanguage)
				}
				if f.XContentTypeOptions != "" {
					ctx = append(ctx, "X-Content-Type-Options: "+f.XContentTypeOptions)
				}
				if len(ctx) == 0 {
					return nil
				}
				return one("info_headers", Info, ctx)
			},
		},
	}
}
