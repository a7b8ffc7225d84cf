package checker

import (
	"strings"

	"github.com/i18ncheck/i18ncheck/pkg/htmldoc"
)

// validDirValues are the direction values HTML allows.
var validDirValues = map[string]bool{
	"ltr":  true,
	"rtl":  true,
	"auto": true,
}

// markupRules query the parsed element tree directly rather than a
// precomputed signal, plus the non-NFC identifier report.
func markupRules() []Rule {
	return []Rule{
		{
			Name:  "rep_latin_non_nfc",
			Emits: []IDSeverity{{"rep_latin_non_nfc", Warning}},
			Check: func(f *Facts) []Assertion {
				if len(f.NonNFCClassOrIDNames) == 0 {
					return nil
				}
				ctx := sortedKeys(f.NonNFCClassOrIDNames)
				ctx = append(ctx, f.NonNFCLiteralTags...)
				return one("rep_latin_non_nfc", Warning, dedupe(ctx))
			},
		},
		{
			Name:  "rep_markup_bdo_no_dir",
			Emits: []IDSeverity{{"rep_markup_bdo_no_dir", Error}},
			Check: func(f *Facts) []Assertion {
				if f.Doc == nil {
					return nil
				}
				var ctx []string
				for _, n := range f.Doc.ElementsByTag("bdo") {
					if _, ok := htmldoc.Attr(n, "dir"); !ok {
						ctx = append(ctx, htmldoc.RenderOpenTag(n))
					}
				}
				if len(ctx) == 0 {
					return nil
				}
				return one("rep_markup_bdo_no_dir", Error, dedupe(ctx))
			},
		},
		{
			Name:  "rep_markup_tags_no_class",
			Emits: []IDSeverity{{"rep_markup_tags_no_class", Warning}},
			Check: func(f *Facts) []Assertion {
				if f.Doc == nil {
					return nil
				}
				var ctx []string
				for _, tag := range []string{"b", "i"} {
					for _, n := range f.Doc.ElementsByTag(tag) {
						if _, ok := htmldoc.Attr(n, "class"); !ok {
							ctx = append(ctx, htmldoc.RenderOpenTag(n))
						}
					}
				}
				if len(ctx) == 0 {
					return nil
				}
				return one("rep_markup_tags_no_class", Warning, dedupe(ctx))
			},
		},
		{
			Name:  "rep_markup_dir_incorrect",
			Emits: []IDSeverity{{"rep_markup_dir_incorrect", Error}},
			Check: func(f *Facts) []Assertion {
				offending := map[string]bool{}
				for v := range f.AllDirAttrValues {
					if !validDirValues[strings.ToLower(v)] {
						offending[v] = true
					}
				}
				if len(offending) == 0 {
					return nil
				}
				return one("rep_markup_dir_incorrect", Error, sortedKeys(offending))
			},
		},
	}
}
