package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

//go:embed locales/*.json
var localeFS embed.FS

// Default language
const (
	DefaultLang = "en"
)

// Language resource mapping
var (
	messages     = make(map[string]map[string]string)
	messagesLock sync.RWMutex
)

// Init loads all embedded language resources.
func Init() error {
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		// Language code is the filename without extension
		lang := strings.TrimSuffix(entry.Name(), ".json")

		data, err := localeFS.ReadFile("locales/" + entry.Name())
		if err != nil {
			return err
		}

		var langMessages map[string]string
		if err := json.Unmarshal(data, &langMessages); err != nil {
			return fmt.Errorf("locale %s: %w", lang, err)
		}

		messagesLock.Lock()
		messages[lang] = langMessages
		messagesLock.Unlock()
	}

	return nil
}

// getMessageTemplate gets message template
func getMessageTemplate(code string, lang string) string {
	messagesLock.RLock()
	defer messagesLock.RUnlock()

	langMessages, ok := messages[lang]
	if !ok {
		// Fall back to default language
		langMessages = messages[DefaultLang]
		if langMessages == nil {
			return code
		}
	}

	message, ok := langMessages[code]
	if !ok {
		if lang != DefaultLang && messages[DefaultLang] != nil {
			if defaultMsg, ok := messages[DefaultLang][code]; ok {
				return defaultMsg
			}
		}
		// Finally fall back to the code itself
		return code
	}

	return message
}

// Translate translates a message code; unknown codes pass through unaltered.
func Translate(code string, lang string, args ...interface{}) string {
	if lang == "" {
		lang = DefaultLang
	}
	template := getMessageTemplate(code, lang)

	if len(args) > 0 {
		return fmt.Sprintf(template, args...)
	}

	return template
}
