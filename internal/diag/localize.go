package diag

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Translations of the watch status messages. Keys missing here are registered
// with their English template.
var russian = map[string]string{
	StartingCompilationInWatchMode.Key: "Запуск компиляции в режиме наблюдения...",
	FileChangeDetected.Key:             "Обнаружено изменение файла. Запуск инкрементной компиляции...",
	FoundOneErrorWatching.Key:          "Найдена 1 ошибка. Отслеживание изменений файлов.",
	FoundErrorsWatching.Key:            "Найдено ошибок: %[1]v. Отслеживание изменений файлов.",
	CannotFindModule.Key:               "Не удается найти модуль \"%[1]v\".",
}

var messageCatalog = buildCatalog()

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for _, m := range Messages() {
		if err := b.SetString(language.English, m.Key, m.Text); err != nil {
			panic(fmt.Errorf("diag: catalog entry %q: %w", m.Key, err))
		}
	}
	for _, m := range Messages() {
		text, ok := russian[m.Key]
		if !ok {
			text = m.Text
		}
		if err := b.SetString(language.Russian, m.Key, text); err != nil {
			panic(fmt.Errorf("diag: catalog entry %q: %w", m.Key, err))
		}
	}
	return b
}

// catalogLanguage picks the catalog language closest to tag. Languages the
// catalog does not carry resolve to English.
func catalogLanguage(tag language.Tag) language.Tag {
	langs := messageCatalog.Languages()
	_, i, conf := language.NewMatcher(langs).Match(tag)
	if conf == language.No || i < 0 || i >= len(langs) {
		return language.English
	}
	return langs[i]
}

// Localizer renders message templates for one language.
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
}

// English is the default localizer.
var English = NewLocalizer(language.English)

// NewLocalizer returns a localizer bound to the catalog language closest to
// tag.
func NewLocalizer(tag language.Tag) *Localizer {
	tag = catalogLanguage(tag)
	return &Localizer{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(messageCatalog)),
	}
}

// Language returns the localizer's language tag.
func (l *Localizer) Language() language.Tag {
	if l == nil {
		return language.English
	}
	return l.tag
}

// Text returns the localized template of msg with args substituted positionally.
// Arguments are stringified first so numbers keep their plain form.
func (l *Localizer) Text(msg Message, args ...any) string {
	strArgs := make([]any, len(args))
	for i, a := range args {
		strArgs[i] = fmt.Sprint(a)
	}
	if _, ok := registry[msg.Key]; !ok || l == nil {
		// ad-hoc messages are not in the catalog
		return fmt.Sprintf(msg.Text, strArgs...)
	}
	return l.printer.Sprintf(msg.Key, strArgs...)
}

// Global creates a file-less diagnostic for msg in this language.
func (l *Localizer) Global(msg Message, args ...any) Diagnostic {
	return FromFile(nil, l.Text(msg, args...), nil, nil, msg)
}

// ErrorsFound returns the watch summary that follows the error list.
func (l *Localizer) ErrorsFound(n int) Diagnostic {
	if n == 1 {
		return l.Global(FoundOneErrorWatching)
	}
	return l.Global(FoundErrorsWatching, n)
}
