package domain

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// Category groups message codes for display.
type Category string

const (
	CategoryDelay Category = "delay"
	CategoryQoS   Category = "qos"
	// CategoryUnknown is never returned by ClassifyType; enrichment uses it as the
	// fallback for prefixes outside the catalog.
	CategoryUnknown Category = "unknown"
)

var (
	// ErrNotFound is returned when a message code has no catalog text.
	ErrNotFound = errors.New("message code not found")
	// ErrUnknownPrefix is returned for message type prefixes other than d, f, q.
	ErrUnknownPrefix = errors.New("unknown message type prefix")
)

// messageTexts lists the display text per message code. Initially taken from
// Travel-Status-DE-IRIS; code 4 ("Kurzfristiger Personalausfall") is left out
// on purpose.
var messageTexts = map[string]string{
	"2":   "Polizeiliche Ermittlung",
	"3":   "Feuerwehreinsatz neben der Strecke",
	"5":   "Ärztliche Versorgung eines Fahrgastes",
	"6":   "Betätigen der Notbremse",
	"7":   "Personen im Gleis",
	"8":   "Notarzteinsatz am Gleis",
	"9":   "Streikauswirkungen",
	"10":  "Ausgebrochene Tiere im Gleis",
	"11":  "Unwetter",
	"12":  "Warten auf Fahrgäste aus einem Schiff",
	"13":  "Pass- und Zollkontrolle",
	"15":  "Beeinträchtigung durch Vandalismus",
	"16":  "Entschärfung einer Fliegerbombe",
	"17":  "Beschädigung einer Brücke",
	"18":  "Umgestürzter Baum im Gleis",
	"19":  "Unfall an einem Bahnübergang",
	"20":  "Tiere im Gleis",
	"21":  "Warten auf weitere Reisende",
	"22":  "Witterungsbedingte Störung",
	"23":  "Feuerwehreinsatz auf Bahngelände",
	"24":  "Verspätung aus dem Ausland",
	"25":  "Warten auf verspätete Zugteile",
	"28":  "Gegenstände im Gleis",
	"31":  "Bauarbeiten",
	"32":  "Verzögerung beim Ein-/Ausstieg",
	"33":  "Oberleitungsstörung",
	"34":  "Signalstörung",
	"35":  "Streckensperrung",
	"36":  "Technische Störung am Zug",
	"38":  "Technische Störung an der Strecke",
	"39":  "Anhängen von zusätzlichen Wagen",
	"40":  "Stellwerksstörung/-ausfall",
	"41":  "Störung an einem Bahnübergang",
	"42":  "Außerplanmäßige Geschwindigkeitsbeschränkung",
	"43":  "Verspätung eines vorausfahrenden Zuges",
	"44":  "Warten auf einen entgegenkommenden Zug",
	"45":  "Überholung durch anderen Zug",
	"46":  "Warten auf freie Einfahrt",
	"47":  "Verspätete Bereitstellung",
	"48":  "Verspätung aus vorheriger Fahrt",
	"55":  "Technische Störung an einem anderen Zug",
	"56":  "Warten auf Fahrgäste aus einem Bus",
	"57":  "Zusätzlicher Halt",
	"58":  "Umleitung",
	"59":  "Schnee und Eis",
	"60":  "Reduzierte Geschwindigkeit wegen Sturm",
	"61":  "Türstörung",
	"62":  "Behobene technische Störung am Zug",
	"63":  "Technische Untersuchung am Zug",
	"64":  "Weichenstörung",
	"65":  "Erdrutsch",
	"70":  "Kein WLAN",
	"71":  "WLAN in einzelnen Wagen nicht verfügbar",
	"73":  "Mehrzweckabteil vorne",
	"74":  "Mehrzweckabteil hinten",
	"75":  "1. Klasse vorne",
	"76":  "1. Klasse hinten",
	"77":  "Ohne 1. Klasse",
	"79":  "Ohne Mehrzweckabteil",
	"80":  "Abweichende Wagenreihung",
	"82":  "Mehrere Wagen fehlen",
	"83":  "Fehlender Zugteil",
	"84":  "Zug verkehrt richtig gereiht",
	"85":  "Ein Wagen fehlt",
	"86":  "Keine Reservierungsanzeige",
	"87":  "Einzelne Wagen ohne Reservierungsanzeige",
	"88":  "Keine Qualitätsmängel",
	"89":  "Reservierungen sind wieder vorhanden",
	"90":  "Kein Bordrestaurant/Bordbistro",
	"91":  "Eingeschränkte Fahrradmitnahme",
	"92":  "Klimaanlage in einzelnen Wagen ausgefallen",
	"93":  "Fehlende oder gestörte behindertengerechte Einrichtung",
	"94":  "Ersatzbewirtschaftung",
	"95":  "Ohne behindertengerechtes WC",
	"96":  "Der Zug ist stark überbesetzt",
	"97":  "Der Zug ist überbesetzt",
	"98":  "Sonstige Qualitätsmängel",
	"99":  "Verzögerungen im Betriebsablauf",
	"900": "Anschlussbus wartet(?)",
}

// uncertainCodes have texts whose exact meaning was never confirmed.
var uncertainCodes = []string{"55", "58", "900"}

var messageTypes = map[string]Category{
	"d": CategoryDelay,
	"f": CategoryQoS,
	"q": CategoryQoS,
}

var supersededMessages = map[string][]string{
	"84": {"80", "82", "83", "85"},
	"88": {"80", "82", "83", "85", "86", "87", "90", "91", "92", "93", "96", "97", "98"},
	"96": {"97"},
	"97": {"96"},
}

// DefaultCatalog holds the built-in tables. It is never modified after init.
var DefaultCatalog = mustCatalog(CatalogTables{
	Texts:      messageTexts,
	Uncertain:  uncertainCodes,
	Types:      messageTypes,
	Superseded: supersededMessages,
})

// CatalogTables is the input to NewCatalog.
type CatalogTables struct {
	Texts      map[string]string
	Uncertain  []string
	Types      map[string]Category
	Superseded map[string][]string
}

// Catalog is an immutable set of message lookup tables. It is safe for
// concurrent use.
type Catalog struct {
	texts      map[string]string
	uncertain  map[string]struct{}
	types      map[string]Category
	superseded map[string]CodeSet
}

// NewCatalog copies the given tables into a new Catalog. Type prefixes must be a
// single character and map to delay or qos.
func NewCatalog(t CatalogTables) (*Catalog, error) {
	c := &Catalog{
		texts:      maps.Clone(t.Texts),
		uncertain:  make(map[string]struct{}, len(t.Uncertain)),
		types:      make(map[string]Category, len(t.Types)),
		superseded: make(map[string]CodeSet, len(t.Superseded)),
	}
	if c.texts == nil {
		c.texts = map[string]string{}
	}
	for _, code := range t.Uncertain {
		c.uncertain[code] = struct{}{}
	}
	for prefix, cat := range t.Types {
		if len(prefix) != 1 {
			return nil, fmt.Errorf("message type prefix %q: must be a single character", prefix)
		}
		if cat != CategoryDelay && cat != CategoryQoS {
			return nil, fmt.Errorf("message type prefix %q: invalid category %q", prefix, cat)
		}
		c.types[prefix] = cat
	}
	for code, targets := range t.Superseded {
		c.superseded[code] = NewCodeSet(targets...)
	}
	return c, nil
}

func mustCatalog(t CatalogTables) *Catalog {
	c, err := NewCatalog(t)
	if err != nil {
		panic(err)
	}
	return c
}

// Tables returns a copy of the catalog contents, e.g. for merging an overlay.
func (c *Catalog) Tables() CatalogTables {
	t := CatalogTables{
		Texts:      maps.Clone(c.texts),
		Uncertain:  slices.Sorted(maps.Keys(c.uncertain)),
		Types:      maps.Clone(c.types),
		Superseded: make(map[string][]string, len(c.superseded)),
	}
	for code, targets := range c.superseded {
		t.Superseded[code] = targets.Sorted()
	}
	return t
}

// LookupText returns the display text for a code, or ErrNotFound.
func (c *Catalog) LookupText(code string) (string, error) {
	text, ok := c.texts[code]
	if !ok {
		return "", fmt.Errorf("lookup code %q: %w", code, ErrNotFound)
	}
	return text, nil
}

// IsUncertain reports whether the code's text is flagged as unconfirmed.
func (c *Catalog) IsUncertain(code string) bool {
	_, ok := c.uncertain[code]
	return ok
}

// ClassifyType maps a single-character type prefix to its category.
func (c *Catalog) ClassifyType(prefix string) (Category, error) {
	cat, ok := c.types[prefix]
	if !ok {
		return "", fmt.Errorf("classify prefix %q: %w", prefix, ErrUnknownPrefix)
	}
	return cat, nil
}

// Supersedes reports whether the presence of code makes other redundant.
func (c *Catalog) Supersedes(code, other string) bool {
	return c.superseded[code].Has(other)
}

// ResolveActiveSet drops every code that another code in the same set supersedes.
// Membership is checked against the input set only, so removals never cascade.
// Two codes that supersede each other are both kept. The input is not modified.
func (c *Catalog) ResolveActiveSet(codes CodeSet) CodeSet {
	out := make(CodeSet, len(codes))
	for code := range codes {
		if !c.isSuperseded(code, codes) {
			out[code] = struct{}{}
		}
	}
	return out
}

func (c *Catalog) isSuperseded(code string, active CodeSet) bool {
	for other := range active {
		if other == code || !c.Supersedes(other, code) {
			continue
		}
		if c.Supersedes(code, other) {
			// mutual pair, no winner
			continue
		}
		return true
	}
	return false
}

// LookupText resolves a code against DefaultCatalog.
func LookupText(code string) (string, error) {
	return DefaultCatalog.LookupText(code)
}

// ClassifyType resolves a type prefix against DefaultCatalog.
func ClassifyType(prefix string) (Category, error) {
	return DefaultCatalog.ClassifyType(prefix)
}

// ResolveActiveSet applies DefaultCatalog supersession rules.
func ResolveActiveSet(codes CodeSet) CodeSet {
	return DefaultCatalog.ResolveActiveSet(codes)
}
