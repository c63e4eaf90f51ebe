package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dop251/goja"
	"github.com/rs/zerolog/log"
)

// stateGlobals are the inline-script globals job boards commonly assign
// their bootstrap payload to, tried in order.
var stateGlobals = []string{
	"__INITIAL_STATE__",
	"__NEXT_DATA__",
	"__NUXT__",
	"__APP_DATA__",
	"jobsData",
	"jobData",
	"positions",
}

// ExtractEmbeddedState runs the page's inline scripts in a sandboxed JS
// interpreter and returns the first recognizable bootstrap payload, or
// nil if none is found. The environment is minimal, just enough for
// assignment-style bootstrap scripts to run.
func ExtractEmbeddedState(html string) interface{} {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	vm := goja.New()
	vm.Set("window", vm.GlobalObject())
	vm.Set("self", vm.GlobalObject())
	vm.Set("document", map[string]interface{}{})
	vm.Set("location", map[string]interface{}{})
	vm.Set("console", map[string]interface{}{
		"log":   func(call goja.FunctionCall) goja.Value { return nil },
		"error": func(call goja.FunctionCall) goja.Value { return nil },
	})

	executed := 0
	doc.Find("script").Each(func(i int, sel *goquery.Selection) {
		if _, external := sel.Attr("src"); external {
			return
		}
		// JSON script tags carry the payload directly, no execution needed
		if typ, _ := sel.Attr("type"); strings.Contains(typ, "json") {
			if id, _ := sel.Attr("id"); id != "" {
				snippet := "window[" + quoteJS(id) + "] = " + sel.Text()
				if _, err := vm.RunString(snippet); err == nil {
					executed++
				}
			}
			return
		}
		if script := sel.Text(); script != "" {
			// Most scripts fail on the missing DOM, that is fine
			if _, err := vm.RunString(script); err == nil {
				executed++
			}
		}
	})
	if executed == 0 {
		return nil
	}

	for _, name := range stateGlobals {
		if val := vm.Get(name); val != nil && !goja.IsUndefined(val) && !goja.IsNull(val) {
			exported := val.Export()
			if exported == nil {
				continue
			}
			log.Debug().Str("global", name).Msg("Recovered embedded page state")
			return exported
		}
	}

	// Fall back to any non-standard global carrying a composite value
	for _, key := range vm.GlobalObject().Keys() {
		if isStandardGlobal(key) {
			continue
		}
		val := vm.Get(key)
		if val == nil || goja.IsUndefined(val) || goja.IsNull(val) {
			continue
		}
		switch exported := val.Export().(type) {
		case map[string]interface{}, []interface{}:
			log.Debug().Str("global", key).Msg("Recovered embedded page state")
			return exported
		}
	}
	return nil
}

func quoteJS(s string) string {
	return `"` + strings.ReplaceAll(strings.ReplaceAll(s, `\`, `\\`), `"`, `\"`) + `"`
}

func isStandardGlobal(key string) bool {
	standards := map[string]bool{
		"window": true, "self": true, "document": true, "location": true, "console": true,
		"Object": true, "Array": true, "String": true, "Number": true, "Boolean": true,
		"Date": true, "Math": true, "JSON": true, "RegExp": true, "Error": true,
		"Function": true, "parseInt": true, "parseFloat": true, "isNaN": true,
		"isFinite": true, "encodeURI": true, "decodeURI": true, "encodeURIComponent": true,
		"decodeURIComponent": true, "undefined": true, "NaN": true, "Infinity": true,
	}
	return standards[key]
}
