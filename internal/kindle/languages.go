package kindle

import (
	"fmt"
	"regexp"
	"strings"
)

// Language is one of the Kindle interface languages the parser understands.
type Language uint8

const (
	English Language = iota
	Spanish
	Portuguese
	German
	French
	Italian
	Chinese
	Japanese
	Korean
	Dutch
	Russian

	numLanguages

	// LanguageAuto asks the parser to detect the language per block.
	LanguageAuto Language = 0xff
)

// FallbackLanguage is used when detection finds no known type keyword.
const FallbackLanguage = English

var languageCodes = [numLanguages]string{
	English:    "en",
	Spanish:    "es",
	Portuguese: "pt",
	German:     "de",
	French:     "fr",
	Italian:    "it",
	Chinese:    "zh",
	Japanese:   "ja",
	Korean:     "ko",
	Dutch:      "nl",
	Russian:    "ru",
}

// Languages returns the supported languages in detection order.
func Languages() []Language {
	out := make([]Language, 0, numLanguages)
	for l := Language(0); l < numLanguages; l++ {
		out = append(out, l)
	}
	return out
}

// Valid reports whether l names a concrete language (not auto).
func (l Language) Valid() bool {
	return l < numLanguages
}

func (l Language) String() string {
	if l == LanguageAuto {
		return "auto"
	}
	if !l.Valid() {
		return fmt.Sprintf("Language(%d)", uint8(l))
	}
	return languageCodes[l]
}

// ParseLanguage maps a two-letter code or "auto" to a Language.
func ParseLanguage(code string) (Language, error) {
	code = lowerTrim(code)
	if code == "" || code == "auto" {
		return LanguageAuto, nil
	}
	for l, c := range languageCodes {
		if c == code {
			return Language(l), nil
		}
	}
	return LanguageAuto, fmt.Errorf("unsupported language %q", code)
}

func (l Language) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Language) UnmarshalText(text []byte) error {
	parsed, err := ParseLanguage(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// DateFormat is a localized date shape. Named groups: year, month, day,
// hour, minute, second, ampm. Month may be a number or a localized name.
type DateFormat struct {
	Name    string
	Pattern *regexp.Regexp
}

// LanguagePatterns holds the localized strings of one Kindle language.
type LanguagePatterns struct {
	Language Language

	Highlight []string
	Note      []string
	Bookmark  []string
	Clip      []string

	Page     []*regexp.Regexp
	Location []*regexp.Regexp
	AddedOn  []*regexp.Regexp

	DateFormats []DateFormat
	Months      map[string]int
	AM          []string
	PM          []string

	LimitReached []string
}

// PatternsFor returns the pattern table of a concrete language. Auto and
// unknown values resolve to the fallback language.
func PatternsFor(l Language) *LanguagePatterns {
	if !l.Valid() {
		l = FallbackLanguage
	}
	return &patternTables[l]
}

// DetectType returns the annotation type named in a metadata line, if any
// of the language's keywords occur in it.
func (p *LanguagePatterns) DetectType(metadata string) (RecordType, bool) {
	lower := strings.ToLower(metadata)
	candidates := []struct {
		t        RecordType
		keywords []string
	}{
		{TypeHighlight, p.Highlight},
		{TypeNote, p.Note},
		{TypeBookmark, p.Bookmark},
		{TypeClip, p.Clip},
	}
	for _, c := range candidates {
		for _, kw := range c.keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				return c.t, true
			}
		}
	}
	return "", false
}

const (
	timeGroup  = `(?P<hour>\d{1,2}):(?P<minute>\d{2})(?::(?P<second>\d{2}))?`
	ampmSuffix = `\s*(?P<ampm>[AaPp]\.?\s?[Mm]\.?)?`
)

func dateFormat(name, pattern string) DateFormat {
	return DateFormat{Name: name, Pattern: regexp.MustCompile(pattern)}
}

// keywords builds case-insensitive literal matchers.
func keywords(words ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(words))
	for i, w := range words {
		out[i] = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(w))
	}
	return out
}

func patterns(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

var englishMonths = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4, "may": 5, "june": 6,
	"july": 7, "august": 8, "september": 9, "october": 10, "november": 11, "december": 12,
}

var spanishMonths = map[string]int{
	"enero": 1, "febrero": 2, "marzo": 3, "abril": 4, "mayo": 5, "junio": 6,
	"julio": 7, "agosto": 8, "septiembre": 9, "setiembre": 9, "octubre": 10, "noviembre": 11, "diciembre": 12,
}

var portugueseMonths = map[string]int{
	"janeiro": 1, "fevereiro": 2, "março": 3, "marco": 3, "abril": 4, "maio": 5, "junho": 6,
	"julho": 7, "agosto": 8, "setembro": 9, "outubro": 10, "novembro": 11, "dezembro": 12,
}

var germanMonths = map[string]int{
	"januar": 1, "jänner": 1, "februar": 2, "märz": 3, "maerz": 3, "april": 4, "mai": 5, "juni": 6,
	"juli": 7, "august": 8, "september": 9, "oktober": 10, "november": 11, "dezember": 12,
}

var frenchMonths = map[string]int{
	"janvier": 1, "février": 2, "fevrier": 2, "mars": 3, "avril": 4, "mai": 5, "juin": 6,
	"juillet": 7, "août": 8, "aout": 8, "septembre": 9, "octobre": 10, "novembre": 11, "décembre": 12, "decembre": 12,
}

var italianMonths = map[string]int{
	"gennaio": 1, "febbraio": 2, "marzo": 3, "aprile": 4, "maggio": 5, "giugno": 6,
	"luglio": 7, "agosto": 8, "settembre": 9, "ottobre": 10, "novembre": 11, "dicembre": 12,
}

var dutchMonths = map[string]int{
	"januari": 1, "februari": 2, "maart": 3, "april": 4, "mei": 5, "juni": 6,
	"juli": 7, "augustus": 8, "september": 9, "oktober": 10, "november": 11, "december": 12,
}

var russianMonths = map[string]int{
	"января": 1, "февраля": 2, "марта": 3, "апреля": 4, "мая": 5, "июня": 6,
	"июля": 7, "августа": 8, "сентября": 9, "октября": 10, "ноября": 11, "декабря": 12,
	"январь": 1, "февраль": 2, "март": 3, "апрель": 4, "май": 5, "июнь": 6,
	"июль": 7, "август": 8, "сентябрь": 9, "октябрь": 10, "ноябрь": 11, "декабрь": 12,
}

// Numeric-month languages still get a table so the lookup path is uniform.
var numericMonths = map[string]int{}

var patternTables = [numLanguages]LanguagePatterns{
	English: {
		Language:  English,
		Highlight: []string{"Your Highlight"},
		Note:      []string{"Your Note"},
		Bookmark:  []string{"Your Bookmark"},
		Clip:      []string{"Your Clip"},
		Page:      patterns(`(?i)\bpage\s+(\d+)`),
		Location:  patterns(`(?i)\blocation\s+(\d+)(?:\s*-\s*(\d+))?`, `(?i)\bloc\.?\s+(\d+)(?:\s*-\s*(\d+))?`),
		AddedOn:   keywords("Added on"),
		DateFormats: []DateFormat{
			dateFormat("weekday, month day, year time", `(?i)^(?:\p{L}+,\s*)?(?P<month>\p{L}+)\s+(?P<day>\d{1,2}),\s*(?P<year>\d{4})\s+`+timeGroup+ampmSuffix+`$`),
			dateFormat("weekday, day month year time", `(?i)^(?:\p{L}+,\s*)?(?P<day>\d{1,2})\s+(?P<month>\p{L}+)\s+(?P<year>\d{4})\s+`+timeGroup+ampmSuffix+`$`),
			dateFormat("month day, year", `(?i)^(?:\p{L}+,\s*)?(?P<month>\p{L}+)\s+(?P<day>\d{1,2}),\s*(?P<year>\d{4})$`),
			dateFormat("day month year", `(?i)^(?:\p{L}+,\s*)?(?P<day>\d{1,2})\s+(?P<month>\p{L}+)\s+(?P<year>\d{4})$`),
		},
		Months:       englishMonths,
		AM:           []string{"am", "a.m."},
		PM:           []string{"pm", "p.m."},
		LimitReached: []string{"You have reached the clipping limit for this item"},
	},
	Spanish: {
		Language:  Spanish,
		Highlight: []string{"Tu subrayado", "La subrayado", "Tu resaltado"},
		Note:      []string{"Tu nota", "La nota"},
		Bookmark:  []string{"Tu marcador", "El marcador"},
		Clip:      []string{"Tu recorte"},
		Page:      patterns(`(?i)p[áa]gina\s+(\d+)`),
		Location:  patterns(`(?i)posici[óo]n\s+(\d+)(?:\s*-\s*(\d+))?`),
		AddedOn:   keywords("Añadido el", "Agregado el"),
		DateFormats: []DateFormat{
			dateFormat("weekday, day de month de year time", `(?i)^(?:\p{L}+,?\s*)?(?P<day>\d{1,2})\s+de\s+(?P<month>\p{L}+)\s+de\s+(?P<year>\d{4})\s+`+timeGroup+ampmSuffix+`$`),
			dateFormat("weekday, day de month de year", `(?i)^(?:\p{L}+,?\s*)?(?P<day>\d{1,2})\s+de\s+(?P<month>\p{L}+)\s+de\s+(?P<year>\d{4})$`),
		},
		Months:       spanishMonths,
		AM:           []string{"a.m.", "am"},
		PM:           []string{"p.m.", "pm"},
		LimitReached: []string{"Has alcanzado el límite de recortes"},
	},
	Portuguese: {
		Language:  Portuguese,
		Highlight: []string{"Seu destaque", "O seu destaque"},
		Note:      []string{"Sua nota", "A sua nota"},
		Bookmark:  []string{"Seu marcador", "O seu marcador"},
		Clip:      []string{"Seu recorte"},
		Page:      patterns(`(?i)p[áa]gina\s+(\d+)`),
		Location:  patterns(`(?i)posi[çc][ãa]o\s+(\d+)(?:\s*-\s*(\d+))?`),
		AddedOn:   keywords("Adicionado:", "Adicionado em"),
		DateFormats: []DateFormat{
			dateFormat("weekday, day de month de year time", `(?i)^(?:[\p{L}-]+,?\s*)?(?P<day>\d{1,2})\s+de\s+(?P<month>\p{L}+)\s+de\s+(?P<year>\d{4})\s+`+timeGroup+`$`),
			dateFormat("weekday, day de month de year", `(?i)^(?:[\p{L}-]+,?\s*)?(?P<day>\d{1,2})\s+de\s+(?P<month>\p{L}+)\s+de\s+(?P<year>\d{4})$`),
		},
		Months:       portugueseMonths,
		LimitReached: []string{"Você atingiu o limite de recortes"},
	},
	German: {
		Language:  German,
		Highlight: []string{"Ihre Markierung", "Deine Markierung"},
		Note:      []string{"Ihre Notiz", "Deine Notiz"},
		Bookmark:  []string{"Ihr Lesezeichen", "Dein Lesezeichen"},
		Clip:      []string{"Ihr Clip", "Ihr Ausschnitt"},
		Page:      patterns(`(?i)seite\s+(\d+)`),
		Location:  patterns(`(?i)position\s+(\d+)(?:\s*-\s*(\d+))?`),
		AddedOn:   keywords("Hinzugefügt am"),
		DateFormats: []DateFormat{
			dateFormat("weekday, day. month year time", `(?i)^(?:\p{L}+,?\s*)?(?P<day>\d{1,2})\.\s*(?P<month>\p{L}+)\s+(?P<year>\d{4})\s+`+timeGroup+`$`),
			dateFormat("weekday, day. month year", `(?i)^(?:\p{L}+,?\s*)?(?P<day>\d{1,2})\.\s*(?P<month>\p{L}+)\s+(?P<year>\d{4})$`),
		},
		Months:       germanMonths,
		LimitReached: []string{"Sie haben die Höchstgrenze für Ausschnitte"},
	},
	French: {
		Language:  French,
		Highlight: []string{"Votre surlignement", "Votre surlignage"},
		Note:      []string{"Votre note"},
		Bookmark:  []string{"Votre signet"},
		Clip:      []string{"Votre extrait", "Votre clip"},
		Page:      patterns(`(?i)\bpage\s+(\d+)`),
		Location:  patterns(`(?i)emplacement\s+(\d+)(?:\s*-\s*(\d+))?`),
		AddedOn:   keywords("Ajouté le"),
		DateFormats: []DateFormat{
			dateFormat("weekday day month year time", `(?i)^(?:\p{L}+,?\s*)?(?P<day>\d{1,2})(?:er)?\s+(?P<month>\p{L}+)\s+(?P<year>\d{4})\s+`+timeGroup+`$`),
			dateFormat("weekday day month year", `(?i)^(?:\p{L}+,?\s*)?(?P<day>\d{1,2})(?:er)?\s+(?P<month>\p{L}+)\s+(?P<year>\d{4})$`),
		},
		Months:       frenchMonths,
		LimitReached: []string{"Vous avez atteint la limite d'extraits"},
	},
	Italian: {
		Language:  Italian,
		Highlight: []string{"La tua evidenziazione", "La tua sottolineatura"},
		Note:      []string{"La tua nota"},
		Bookmark:  []string{"Il tuo segnalibro"},
		Clip:      []string{"Il tuo ritaglio"},
		Page:      patterns(`(?i)pagina\s+(\d+)`),
		Location:  patterns(`(?i)posizione\s+(\d+)(?:\s*-\s*(\d+))?`),
		AddedOn:   keywords("Aggiunto in data", "Aggiunto il"),
		DateFormats: []DateFormat{
			dateFormat("weekday day month year time", `(?i)^(?:\p{L}+,?\s*)?(?P<day>\d{1,2})\s+(?P<month>\p{L}+)\s+(?P<year>\d{4})\s+`+timeGroup+`$`),
			dateFormat("weekday day month year", `(?i)^(?:\p{L}+,?\s*)?(?P<day>\d{1,2})\s+(?P<month>\p{L}+)\s+(?P<year>\d{4})$`),
		},
		Months:       italianMonths,
		LimitReached: []string{"Hai raggiunto il limite di ritagli"},
	},
	Chinese: {
		Language:  Chinese,
		Highlight: []string{"标注"},
		Note:      []string{"笔记"},
		Bookmark:  []string{"书签"},
		Clip:      []string{"剪贴"},
		Page:      patterns(`第\s*(\d+)\s*页`),
		Location:  patterns(`位置\s*#?\s*(\d+)(?:\s*-\s*(\d+))?`),
		AddedOn:   keywords("添加于"),
		DateFormats: []DateFormat{
			dateFormat("year年month月day日 ampm time", `^(?P<year>\d{4})\s*年\s*(?P<month>\d{1,2})\s*月\s*(?P<day>\d{1,2})\s*日\s*(?:星期\p{Han})?\s*(?P<ampm>上午|下午)?\s*`+timeGroup+`$`),
			dateFormat("year年month月day日", `^(?P<year>\d{4})\s*年\s*(?P<month>\d{1,2})\s*月\s*(?P<day>\d{1,2})\s*日`),
		},
		Months:       numericMonths,
		AM:           []string{"上午"},
		PM:           []string{"下午"},
		LimitReached: []string{"您已达到本书的剪贴上限"},
	},
	Japanese: {
		Language:  Japanese,
		Highlight: []string{"ハイライト"},
		Note:      []string{"メモ"},
		Bookmark:  []string{"ブックマーク"},
		Clip:      []string{"クリップ"},
		Page:      patterns(`(\d+)\s*ページ`),
		Location:  patterns(`位置No\.\s*(\d+)(?:\s*-\s*(\d+))?`, `位置\s*(\d+)(?:\s*-\s*(\d+))?`),
		AddedOn:   keywords("作成日:", "作成日："),
		DateFormats: []DateFormat{
			dateFormat("year年month月day日weekday time", `^(?P<year>\d{4})\s*年\s*(?P<month>\d{1,2})\s*月\s*(?P<day>\d{1,2})\s*日\s*(?:\p{Han}曜日)?\s*(?P<ampm>午前|午後)?\s*`+timeGroup+`$`),
			dateFormat("year年month月day日", `^(?P<year>\d{4})\s*年\s*(?P<month>\d{1,2})\s*月\s*(?P<day>\d{1,2})\s*日`),
		},
		Months:       numericMonths,
		AM:           []string{"午前"},
		PM:           []string{"午後"},
		LimitReached: []string{"クリップの上限に達しました"},
	},
	Korean: {
		Language:  Korean,
		Highlight: []string{"하이라이트"},
		Note:      []string{"메모"},
		Bookmark:  []string{"북마크"},
		Clip:      []string{"클립"},
		Page:      patterns(`(\d+)\s*페이지`),
		Location:  patterns(`위치\s*(\d+)(?:\s*-\s*(\d+))?`),
		AddedOn:   keywords("추가됨:", "추가된 날짜:"),
		DateFormats: []DateFormat{
			dateFormat("year년 month월 day일 weekday ampm time", `^(?P<year>\d{4})\s*년\s*(?P<month>\d{1,2})\s*월\s*(?P<day>\d{1,2})\s*일\s*(?:\p{Hangul}+요일)?\s*(?P<ampm>오전|오후)?\s*`+timeGroup+`$`),
			dateFormat("year년 month월 day일", `^(?P<year>\d{4})\s*년\s*(?P<month>\d{1,2})\s*월\s*(?P<day>\d{1,2})\s*일`),
		},
		Months:       numericMonths,
		AM:           []string{"오전"},
		PM:           []string{"오후"},
		LimitReached: []string{"클립 한도에 도달했습니다"},
	},
	Dutch: {
		Language:  Dutch,
		Highlight: []string{"Uw markering", "Je markering"},
		Note:      []string{"Uw notitie", "Je notitie"},
		Bookmark:  []string{"Uw bladwijzer", "Je bladwijzer"},
		Clip:      []string{"Uw knipsel", "Je knipsel"},
		Page:      patterns(`(?i)pagina\s+(\d+)`),
		Location:  patterns(`(?i)locatie\s+(\d+)(?:\s*-\s*(\d+))?`),
		AddedOn:   keywords("Toegevoegd op"),
		DateFormats: []DateFormat{
			dateFormat("weekday day month year time", `(?i)^(?:\p{L}+,?\s*)?(?P<day>\d{1,2})\s+(?P<month>\p{L}+)\s+(?P<year>\d{4})\s+`+timeGroup+`$`),
			dateFormat("weekday day month year", `(?i)^(?:\p{L}+,?\s*)?(?P<day>\d{1,2})\s+(?P<month>\p{L}+)\s+(?P<year>\d{4})$`),
		},
		Months:       dutchMonths,
		LimitReached: []string{"U hebt de knipsellimiet voor dit item bereikt"},
	},
	Russian: {
		Language:  Russian,
		Highlight: []string{"Ваш выделенный отрывок", "Ваша подсветка", "Выделенный отрывок"},
		Note:      []string{"Ваша заметка", "Заметка"},
		Bookmark:  []string{"Ваша закладка", "Закладка"},
		Clip:      []string{"Ваша вырезка"},
		Page:      patterns(`(?i)странице\s+(\d+)`, `(?i)стр\.\s*(\d+)`),
		Location:  patterns(`(?i)(?:местоположение|позиция|позиции)\s+(\d+)(?:\s*-\s*(\d+))?`),
		AddedOn:   keywords("Добавлено:"),
		DateFormats: []DateFormat{
			dateFormat("weekday, day month year г. time", `(?i)^(?:\p{L}+,?\s*)?(?P<day>\d{1,2})\s+(?P<month>\p{L}+)\s+(?P<year>\d{4})\s*(?:г\.?)?\s+(?:в\s+)?`+timeGroup+`$`),
			dateFormat("weekday, day month year г.", `(?i)^(?:\p{L}+,?\s*)?(?P<day>\d{1,2})\s+(?P<month>\p{L}+)\s+(?P<year>\d{4})\s*(?:г\.?)?$`),
		},
		Months:       russianMonths,
		LimitReached: []string{"Вы достигли предельного количества вырезок"},
	},
}

// limitPhrases collects the clipping-limit phrases of every language.
var limitPhrases = func() []string {
	var out []string
	for i := range patternTables {
		for _, p := range patternTables[i].LimitReached {
			out = append(out, strings.ToLower(p))
		}
	}
	return out
}()
