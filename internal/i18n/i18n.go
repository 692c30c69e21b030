// Package i18n renders user-facing store messages in the caller's language.
// Message catalogs are embedded; English is the fallback for unknown
// languages and missing translations.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

var bundle *goi18n.Bundle

func init() {
	bundle = goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		panic(fmt.Sprintf("i18n: reading embedded locales: %v", err))
	}
	for _, entry := range entries {
		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+entry.Name()); err != nil {
			panic(fmt.Sprintf("i18n: loading %s: %v", entry.Name(), err))
		}
	}
}

// T localizes messageID for the preferred languages (BCP 47 tags, most
// preferred first). Unknown message IDs come back unchanged.
func T(messageID string, langs ...string) string {
	localizer := goi18n.NewLocalizer(bundle, langs...)
	msg, err := localizer.Localize(&goi18n.LocalizeConfig{MessageID: messageID})
	if err != nil {
		return messageID
	}
	return msg
}
