// Package i18n looks up translated help text. The language comes from
// CASECTL_LANG, then LC_ALL and LANG; English strings in the code are the
// fallback.
package i18n

import (
	"os"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

// supported lists the languages with a catalog. English is the source text.
var supported = []language.Tag{language.English, language.Russian}

var (
	once    sync.Once
	current language.Tag
)

// T translates a key to a string. The first parameter identifies
// a message to translate. The second parameter is the default
// string to return if the key is not found.
func T(key string, defaultValue string) string {
	once.Do(func() { current = Detect(os.Getenv) })
	if msg, ok := catalogs[current][key]; ok {
		return msg
	}
	return defaultValue
}

// Detect picks the closest supported language from the environment.
func Detect(getenv func(string) string) language.Tag {
	for _, name := range []string{"CASECTL_LANG", "LC_ALL", "LANG"} {
		raw := getenv(name)
		if raw == "" || raw == "C" || raw == "POSIX" {
			continue
		}
		// ru_RU.UTF-8 -> ru-RU
		raw, _, _ = strings.Cut(raw, ".")
		tag, err := language.Parse(strings.ReplaceAll(raw, "_", "-"))
		if err != nil {
			continue
		}
		_, idx, conf := language.NewMatcher(supported).Match(tag)
		if conf == language.No {
			return language.English
		}
		return supported[idx]
	}
	return language.English
}

var catalogs = map[language.Tag]map[string]string{
	language.Russian: {
		"root.rootShort":                      "отчеты по судебным делам",
		"root.profile.profileShort":           "Показать профили CLI",
		"root.verbs.get.getShort":             "Получить отчеты, анализы и записи",
		"root.verbs.get.rainbowShort":         "Радуга: распределение дел по цветам",
		"root.verbs.get.casesShort":           "Список дел по фильтрам",
		"root.verbs.get.caseShort":            "Карточка дела",
		"root.verbs.get.documentsShort":       "Анализ документов",
		"root.verbs.get.documentShort":        "Карточка документа",
		"root.verbs.get.tasksShort":           "Список задач",
		"root.verbs.get.taskShort":            "Карточка задачи",
		"root.verbs.get.filesShort":           "Какие отчеты загружены",
		"root.verbs.get.processedDataShort":   "Какие обработанные данные доступны",
		"root.verbs.get.testDataShort":        "Образец загруженного детального отчета",
		"root.verbs.get.filterOptionsShort":   "Значения для фильтров",
		"root.verbs.get.filtersShort":         "Сохраненные фильтры таблиц",
		"root.verbs.get.analysisShort":        "Результаты последнего анализа",
		"root.verbs.get.themesShort":          "Доступные цветовые темы",
		"root.verbs.upload.uploadShort":       "Загрузить отчет на сервер",
		"root.verbs.delete.deleteShort":       "Удалить загруженные данные",
		"root.verbs.delete.fileShort":         "Удалить загруженный отчет",
		"root.verbs.delete.analysisShort":     "Сбросить результаты анализа",
		"root.verbs.delete.cacheShort":        "Очистить локальное хранилище и кэш",
		"root.verbs.analyze.analyzeShort":     "Запустить анализ",
		"root.verbs.export.exportShort":       "Скачать отчет",
		"root.verbs.anonymize.anonymizeShort": "Обезличить отчеты",
		"root.verbs.anonymize.loadShort":      "Загрузить отчет для обезличивания",
		"root.verbs.anonymize.runShort":       "Запустить обезличивание",
		"root.verbs.anonymize.downloadShort":  "Скачать обезличенный отчет",
		"root.verbs.anonymize.rulesShort":     "Правила обезличивания",
		"root.verbs.anonymize.clearShort":     "Удалить файлы обезличивания",
		"root.verbs.view.viewShort":           "Открыть интерактивную диаграмму",
		"root.verbs.help.helpShort":           "Подробная справка по команде",
		"root.version.versionShort":           "Показать версию",
	},
}
