package email

import (
	"fmt"
	"html"
	"net/url"
	"strings"
	"sync"

	"github.com/osteele/liquid"

	"github.com/ignite/newsletter/internal/pkg/logger"
)

// TemplateService renders Liquid templates with per-template caching.
// Rendering is lax: on parse or render failure the original template text
// comes back unchanged so a bad template never blocks a send.
type TemplateService struct {
	engine *liquid.Engine
	cache  sync.Map // map[string]*liquid.Template
}

// NewTemplateService creates a template service with the custom filters
// newsletter content relies on.
func NewTemplateService() *TemplateService {
	ts := &TemplateService{engine: liquid.NewEngine()}
	ts.registerCustomFilters()
	return ts
}

func (ts *TemplateService) registerCustomFilters() {
	// Fallback value: {{ name | default: "Friend" }}
	ts.engine.RegisterFilter("default", func(value interface{}, defaultVal string) interface{} {
		if value == nil {
			return defaultVal
		}
		strVal := fmt.Sprintf("%v", value)
		if strVal == "" || strVal == "<nil>" {
			return defaultVal
		}
		return value
	})

	// Capitalize first letter: {{ name | capitalize }}
	ts.engine.RegisterFilter("capitalize", func(s string) string {
		if len(s) == 0 {
			return s
		}
		return strings.ToUpper(string(s[0])) + strings.ToLower(s[1:])
	})

	// URL encode: {{ token | urlencode }}
	ts.engine.RegisterFilter("urlencode", func(s string) string {
		return url.QueryEscape(s)
	})

	// HTML escape: {{ user_input | escape }}
	ts.engine.RegisterFilter("escape", func(s string) string {
		return html.EscapeString(s)
	})

	// Mask email for privacy: {{ email | mask_email }}
	ts.engine.RegisterFilter("mask_email", func(email string) string {
		return logger.RedactEmail(email)
	})
}

// Parse compiles a template string and returns any syntax errors.
func (ts *TemplateService) Parse(templateStr string) error {
	_, err := ts.engine.ParseString(templateStr)
	return err
}

// Render processes a template with the given context. A non-empty cacheKey
// reuses the compiled template across renders of the same content.
func (ts *TemplateService) Render(cacheKey string, templateStr string, ctx map[string]interface{}) string {
	if cacheKey != "" {
		if cached, ok := ts.cache.Load(cacheKey); ok {
			tpl := cached.(*liquid.Template)
			out, err := tpl.RenderString(ctx)
			if err != nil {
				logger.Warn("template render failed", "cache_key", cacheKey, "error", err.Error())
				return templateStr
			}
			return out
		}
	}

	tpl, err := ts.engine.ParseString(templateStr)
	if err != nil {
		logger.Warn("template parse failed", "cache_key", cacheKey, "error", err.Error())
		return templateStr
	}

	if cacheKey != "" {
		ts.cache.Store(cacheKey, tpl)
	}

	out, err := tpl.RenderString(ctx)
	if err != nil {
		logger.Warn("template render failed", "cache_key", cacheKey, "error", err.Error())
		return templateStr
	}
	return out
}

// ClearCache removes all cached templates.
func (ts *TemplateService) ClearCache() {
	ts.cache = sync.Map{}
}
