package game

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/agnivade/levenshtein"
	"gopkg.in/yaml.v3"
)

//go:embed data/cards.yaml
var defaultCatalogYAML []byte

var (
	// ErrUnknownCard is returned when a name is not in the catalog.
	ErrUnknownCard = errors.New("unknown card")
	// ErrInvalidCatalog wraps every catalog validation failure.
	ErrInvalidCatalog = errors.New("invalid catalog")
)

// CatalogFile represents the top-level YAML structure.
type CatalogFile struct {
	Cards       []CardEntry `yaml:"cards"`
	Obstacles   []CardEntry `yaml:"obstacles"`
	Bosses      []CardEntry `yaml:"bosses"`
	Tokens      []CardEntry `yaml:"tokens"`
	InitialDeck []string    `yaml:"initial_deck"`
}

// CardEntry represents a single card definition in the YAML file.
type CardEntry struct {
	Name        string   `yaml:"name" json:"name"`
	Attack      int      `yaml:"attack" json:"attack"`
	Health      int      `yaml:"health" json:"health"`
	Cost        int      `yaml:"cost" json:"cost"`
	Type        string   `yaml:"type" json:"type,omitempty"`
	Description string   `yaml:"description" json:"description"`
	Sigils      []string `yaml:"sigils" json:"sigils,omitempty"`
	EvolvesInto string   `yaml:"evolves_into" json:"evolves_into,omitempty"`
	SynergyWith string   `yaml:"synergy_with" json:"synergy_with,omitempty"`
	Token       string   `yaml:"token" json:"token,omitempty"`
}

// Catalog is the read-only registry of card definitions.
type Catalog struct {
	Cards       []*Card // drawable and spawnable cards
	Obstacles   []*Card // ordered by unlock level
	Bosses      []*Card // boss roster, cycled through
	Tokens      []*Card // side-effect creatures, never drawn
	InitialDeck []*Card

	byName map[string]*Card
}

// DefaultCatalog returns the embedded catalog.
// Panics if the embedded data is invalid.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// LoadCatalog reads a YAML catalog from path. An empty path loads the embedded default.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return ParseCatalog(defaultCatalogYAML)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// ParseCatalog parses and validates catalog YAML.
func ParseCatalog(data []byte) (*Catalog, error) {
	var cf CatalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parse catalog YAML: %w", err)
	}
	return cf.Build()
}

// Build converts the file entries into a validated Catalog.
func (cf CatalogFile) Build() (*Catalog, error) {
	convert := func(entries []CardEntry) ([]*Card, error) {
		cards := make([]*Card, 0, len(entries))
		for _, e := range entries {
			c, err := e.Card()
			if err != nil {
				return nil, fmt.Errorf("%w: card %q: %v", ErrInvalidCatalog, e.Name, err)
			}
			cards = append(cards, c)
		}
		return cards, nil
	}

	cat := &Catalog{}
	var err error
	if cat.Cards, err = convert(cf.Cards); err != nil {
		return nil, err
	}
	if cat.Obstacles, err = convert(cf.Obstacles); err != nil {
		return nil, err
	}
	if cat.Bosses, err = convert(cf.Bosses); err != nil {
		return nil, err
	}
	if cat.Tokens, err = convert(cf.Tokens); err != nil {
		return nil, err
	}
	if err := cat.index(); err != nil {
		return nil, err
	}
	for _, name := range cf.InitialDeck {
		c, err := cat.Lookup(name)
		if err != nil {
			return nil, fmt.Errorf("%w: initial deck: %v", ErrInvalidCatalog, err)
		}
		cat.InitialDeck = append(cat.InitialDeck, c)
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

// Card converts the entry to a definition.
func (e CardEntry) Card() (*Card, error) {
	ct, err := ParseCardType(e.Type)
	if err != nil {
		return nil, err
	}
	var sigils []Sigil
	seen := make(map[Sigil]bool)
	for _, name := range e.Sigils {
		s, err := ParseSigil(name)
		if err != nil {
			return nil, err
		}
		if seen[s] {
			return nil, fmt.Errorf("duplicate sigil %s", s)
		}
		seen[s] = true
		sigils = append(sigils, s)
	}
	return &Card{
		Name:        strings.TrimSpace(e.Name),
		Description: e.Description,
		Type:        ct,
		ATK:         e.Attack,
		HP:          e.Health,
		Cost:        e.Cost,
		Sigils:      NewSigilSet(sigils...),
		EvolvesInto: e.EvolvesInto,
		SynergyWith: e.SynergyWith,
		Token:       e.Token,
	}, nil
}

// Entry converts a definition back to its file form.
func (c *Card) Entry() CardEntry {
	return CardEntry{
		Name:        c.Name,
		Attack:      c.ATK,
		Health:      c.HP,
		Cost:        c.Cost,
		Type:        c.Type.String(),
		Description: c.Description,
		Sigils:      c.Sigils.Names(),
		EvolvesInto: c.EvolvesInto,
		SynergyWith: c.SynergyWith,
		Token:       c.Token,
	}
}

// NewCatalog builds a catalog from in-memory definitions. Used by tests and tools.
func NewCatalog(cards, obstacles, bosses, tokens []*Card, initialDeck ...string) (*Catalog, error) {
	cat := &Catalog{Cards: cards, Obstacles: obstacles, Bosses: bosses, Tokens: tokens}
	if err := cat.index(); err != nil {
		return nil, err
	}
	for _, name := range initialDeck {
		c, err := cat.Lookup(name)
		if err != nil {
			return nil, fmt.Errorf("%w: initial deck: %v", ErrInvalidCatalog, err)
		}
		cat.InitialDeck = append(cat.InitialDeck, c)
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

func (cat *Catalog) index() error {
	cat.byName = make(map[string]*Card)
	for _, group := range [][]*Card{cat.Cards, cat.Obstacles, cat.Bosses, cat.Tokens} {
		for _, c := range group {
			if c.Name == "" {
				return fmt.Errorf("%w: card with empty name", ErrInvalidCatalog)
			}
			key := strings.ToLower(c.Name)
			if _, dup := cat.byName[key]; dup {
				return fmt.Errorf("%w: duplicate card name %q", ErrInvalidCatalog, c.Name)
			}
			cat.byName[key] = c
		}
	}
	return nil
}

// Validate checks the cross-entry invariants the engine relies on.
func (cat *Catalog) Validate() error {
	if len(cat.Cards) == 0 {
		return fmt.Errorf("%w: no cards", ErrInvalidCatalog)
	}
	if len(cat.Obstacles) == 0 {
		return fmt.Errorf("%w: no obstacles", ErrInvalidCatalog)
	}
	if len(cat.Bosses) == 0 {
		return fmt.Errorf("%w: no bosses", ErrInvalidCatalog)
	}
	for _, group := range [][]*Card{cat.Cards, cat.Obstacles, cat.Bosses, cat.Tokens} {
		for _, c := range group {
			if err := cat.validateCard(c); err != nil {
				return fmt.Errorf("%w: card %q: %v", ErrInvalidCatalog, c.Name, err)
			}
		}
	}
	for _, c := range cat.Obstacles {
		if c.Type != CardTypeObstacle || c.ATK != 0 {
			return fmt.Errorf("%w: obstacle %q must be a zero-attack OBSTACLE", ErrInvalidCatalog, c.Name)
		}
	}
	return nil
}

func (cat *Catalog) validateCard(c *Card) error {
	if c.ATK < 0 || c.Cost < 0 {
		return errors.New("attack and cost must not be negative")
	}
	if c.HP <= 0 {
		return errors.New("health must be positive")
	}
	refs := []struct {
		sigil Sigil
		name  string
		field string
	}{
		{SigilEvoluzione, c.EvolvesInto, "evolves_into"},
		{SigilCodaReazione, c.Token, "token"},
		{SigilSerbatoio, c.Token, "token"},
	}
	for _, r := range refs {
		if c.Has(r.sigil) && r.name == "" {
			return fmt.Errorf("sigil %s requires %s", r.sigil, r.field)
		}
	}
	for _, name := range []string{c.EvolvesInto, c.SynergyWith, c.Token} {
		if name == "" {
			continue
		}
		if _, err := cat.Lookup(name); err != nil {
			return err
		}
	}
	return nil
}

// Lookup finds a definition by name (case-insensitive) across every list.
func (cat *Catalog) Lookup(name string) (*Card, error) {
	if c, ok := cat.byName[strings.ToLower(strings.TrimSpace(name))]; ok {
		return c, nil
	}
	if s := cat.suggest(name); s != "" {
		return nil, fmt.Errorf("%w: %q (did you mean %q?)", ErrUnknownCard, name, s)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCard, name)
}

// MustLookup is Lookup for names known to be valid. Panics if the card is not found.
func (cat *Catalog) MustLookup(name string) *Card {
	c, err := cat.Lookup(name)
	if err != nil {
		panic(err)
	}
	return c
}

// suggest returns the closest known name within a small edit distance.
func (cat *Catalog) suggest(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	best, bestDist := "", 0
	for key, c := range cat.byName {
		d := levenshtein.ComputeDistance(name, key)
		if d > max(2, len(key)/3) {
			continue
		}
		if best == "" || d < bestDist || (d == bestDist && c.Name < best) {
			best, bestDist = c.Name, d
		}
	}
	return best
}

// Boss returns the boss faced on the given boss level.
func (cat *Catalog) Boss(level, every int) *Card {
	idx := (level/every - 1) % len(cat.Bosses)
	if idx < 0 {
		idx = 0
	}
	return cat.Bosses[idx]
}

// ObstaclePool returns the obstacles unlocked at the given level.
func (cat *Catalog) ObstaclePool(level int) []*Card {
	n := len(cat.Obstacles)
	switch {
	case level <= 1:
		n = 1
	case level < 4:
		n = min(2, n)
	}
	return cat.Obstacles[:n]
}
