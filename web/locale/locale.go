// Package locale localizes UI strings from the embedded toml translation files.
package locale

import (
	"fmt"
	"io/fs"
	"strings"

	"github.com/edusite/edusite/logger"

	"github.com/gin-gonic/gin"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

// DefaultLanguage is used when neither the lang cookie nor Accept-Language match.
var DefaultLanguage = language.MustParse("en-US")

// Translator holds the parsed message bundle. It is immutable once built.
type Translator struct {
	bundle *i18n.Bundle
}

// NewTranslator parses every toml file found under dir in fsys.
func NewTranslator(fsys fs.FS, dir string) (*Translator, error) {
	bundle := i18n.NewBundle(DefaultLanguage)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	err := fs.WalkDir(fsys, dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		if _, err := bundle.ParseMessageFileBytes(data, path); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Translator{bundle: bundle}, nil
}

// Localize looks up key for the given language preferences. params are
// "name==value" pairs fed to the message template. An unknown key comes back as is.
func (t *Translator) Localize(key string, params []string, langs ...string) string {
	localizer := i18n.NewLocalizer(t.bundle, langs...)
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: templateData(params),
	})
	if err != nil {
		logger.Warningf("Failed to localize %q: %v", key, err)
		return key
	}
	return msg
}

func templateData(params []string) map[string]any {
	data := make(map[string]any, len(params))
	for _, param := range params {
		parts := strings.SplitN(param, "==", 2)
		if len(parts) != 2 {
			continue
		}
		data[parts[0]] = parts[1]
	}
	return data
}

// Middleware stores the request's "I18n" function and "lang" in the gin context.
// The lang cookie wins over the Accept-Language header.
func (t *Translator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var langs []string
		if cookie, err := c.Request.Cookie("lang"); err == nil && cookie.Value != "" {
			langs = append(langs, cookie.Value)
		}
		if accept := c.GetHeader("Accept-Language"); accept != "" {
			langs = append(langs, accept)
		}

		_, tag, _ := i18n.NewLocalizer(t.bundle, langs...).LocalizeWithTag(&i18n.LocalizeConfig{MessageID: "lang"})
		if tag == language.Und {
			tag = DefaultLanguage
		}

		c.Set("lang", tag.String())
		c.Set("I18n", func(key string, params ...string) string {
			return t.Localize(key, params, langs...)
		})
		c.Next()
	}
}
