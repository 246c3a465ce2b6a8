package i18n

import (
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/iamwavecut/ngwarden/internal/infra"
	"github.com/iamwavecut/ngwarden/resources"
)

var state = struct {
	once         sync.Once
	translations map[string]map[string]string
	languages    []string
}{}

func load() {
	path := infra.GetResourcesDir("i18n", "translations.yml")
	content, err := resources.FS.ReadFile(path)
	if err != nil {
		log.WithError(err).Errorln("cant load i18n")
		return
	}
	dict := map[string]map[string]string{}
	if err := yaml.Unmarshal(content, &dict); err != nil {
		log.WithError(err).Errorln("cant unmarshal i18n")
		return
	}
	state.translations = dict

	seen := map[string]struct{}{"en": {}}
	state.languages = []string{"en"}
	for _, locales := range dict {
		for locale := range locales {
			code := strings.ToLower(locale)
			if _, ok := seen[code]; ok {
				continue
			}
			seen[code] = struct{}{}
			state.languages = append(state.languages, code)
		}
	}
}

// Get returns the translation of key, or key itself for English and unknown entries.
func Get(key, lang string) string {
	if lang == "" || strings.EqualFold(lang, "en") {
		return key
	}
	state.once.Do(load)
	if res, ok := state.translations[key][strings.ToUpper(lang)]; ok && res != "" {
		return res
	}
	log.Tracef(`no translation for key "%s"`, key)
	return key
}

// GetLanguagesList returns the codes with at least one translation, "en" first.
func GetLanguagesList() []string {
	state.once.Do(load)
	return state.languages
}
