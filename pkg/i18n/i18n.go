package i18n

import (
	"embed"
	"encoding/json"
	"sync"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var locales embed.FS

var (
	mu     sync.RWMutex
	bundle *goi18n.Bundle
)

// Init builds the bundle with the embedded en and id messages. Safe to call twice.
func Init() {
	mu.Lock()
	defer mu.Unlock()

	b := goi18n.NewBundle(language.English)
	b.RegisterUnmarshalFunc("json", json.Unmarshal)
	for _, name := range []string{"locales/active.en.json", "locales/active.id.json"} {
		// embedded files are part of the binary; a parse failure is a build defect
		if _, err := b.LoadMessageFileFS(locales, name); err != nil {
			panic(err)
		}
	}
	bundle = b
}

// Load adds or overrides messages from a file such as active.fr.json.
func Load(path string) error {
	ensure()
	mu.Lock()
	defer mu.Unlock()
	_, err := bundle.LoadMessageFile(path)
	return err
}

// T localizes messageID for an Accept-Language value. Unknown ids come back as-is.
func T(acceptLanguage, messageID string, data map[string]interface{}) string {
	ensure()
	mu.RLock()
	b := bundle
	mu.RUnlock()

	loc := goi18n.NewLocalizer(b, acceptLanguage)
	// a message missing in the matched language still comes back from the
	// default language together with an error
	msg, _ := loc.Localize(&goi18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if msg == "" {
		return messageID
	}
	return msg
}

func ensure() {
	mu.RLock()
	ready := bundle != nil
	mu.RUnlock()
	if !ready {
		Init()
	}
}
