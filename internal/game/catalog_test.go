package game

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	cat := DefaultCatalog()

	assert.Len(t, cat.Bosses, 4)
	assert.Len(t, cat.Obstacles, 3)
	assert.Len(t, cat.Tokens, 3)
	require.Len(t, cat.InitialDeck, 4)
	assert.Equal(t, "Scoiattolo", cat.InitialDeck[0].Name)
	for _, c := range cat.Cards {
		assert.NotEqual(t, CardTypeObstacle, c.Type, c.Name)
	}
}

func TestCatalogLookup(t *testing.T) {
	cat := DefaultCatalog()

	c, err := cat.Lookup("  mostro DEL lago ")
	require.NoError(t, err)
	assert.Equal(t, "Mostro del lago", c.Name)
	assert.Equal(t, 5, c.Cost)
	assert.True(t, c.Has(SigilMovimentoCasuale))

	_, err = cat.Lookup("Formcia")
	require.ErrorIs(t, err, ErrUnknownCard)
	assert.Contains(t, err.Error(), `did you mean "Formica"`)

	_, err = cat.Lookup("zzzzzzzzzzzz")
	require.ErrorIs(t, err, ErrUnknownCard)
	assert.NotContains(t, err.Error(), "did you mean")

	assert.Panics(t, func() { cat.MustLookup("nope") })
}

func TestCatalogReferences(t *testing.T) {
	cat := DefaultCatalog()

	larva := cat.MustLookup("Larva")
	assert.Equal(t, "Scarabeo", cat.MustLookup(larva.EvolvesInto).Name)
	assert.Equal(t, "Ape", cat.MustLookup("Alveare").Token)
	assert.Equal(t, "Orso", cat.MustLookup("Cucciolo d'Orso").SynergyWith)
}

func TestCatalogValidation(t *testing.T) {
	plain := func(name string) *Card { return testCard(name, 1, 1) }
	rock := &Card{Name: "Rock", Type: CardTypeObstacle, HP: 4}
	boss := &Card{Name: "Boss", Type: CardTypeSpecial, ATK: 2, HP: 30}

	for name, build := range map[string]func() error{
		"duplicate name": func() error {
			_, err := NewCatalog([]*Card{plain("A"), plain("a")}, []*Card{rock}, []*Card{boss}, nil)
			return err
		},
		"evolve without target": func() error {
			_, err := NewCatalog([]*Card{testCard("Grub", 1, 1, SigilEvoluzione)}, []*Card{rock}, []*Card{boss}, nil)
			return err
		},
		"missing reference": func() error {
			c := plain("Pup")
			c.SynergyWith = "Ghost"
			_, err := NewCatalog([]*Card{c}, []*Card{rock}, []*Card{boss}, nil)
			return err
		},
		"obstacle with attack": func() error {
			bad := &Card{Name: "Spiky", Type: CardTypeObstacle, ATK: 1, HP: 2}
			_, err := NewCatalog([]*Card{plain("A")}, []*Card{bad}, []*Card{boss}, nil)
			return err
		},
		"obstacle of wrong type": func() error {
			_, err := NewCatalog([]*Card{plain("A")}, []*Card{testCard("Log", 0, 2)}, []*Card{boss}, nil)
			return err
		},
		"no bosses": func() error {
			_, err := NewCatalog([]*Card{plain("A")}, []*Card{rock}, nil, nil)
			return err
		},
		"zero health": func() error {
			_, err := NewCatalog([]*Card{testCard("Ghost", 1, 0)}, []*Card{rock}, []*Card{boss}, nil)
			return err
		},
		"unknown deck card": func() error {
			_, err := NewCatalog([]*Card{plain("A")}, []*Card{rock}, []*Card{boss}, nil, "B")
			return err
		},
	} {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, build(), ErrInvalidCatalog)
		})
	}
}

func TestParseCatalogRejectsBadSigil(t *testing.T) {
	_, err := ParseCatalog([]byte(`
cards:
  - {name: A, attack: 1, health: 1, cost: 1, sigils: [VOLARE]}
obstacles:
  - {name: Rock, health: 4, type: OBSTACLE}
bosses:
  - {name: Boss, attack: 1, health: 10, type: SPECIAL}
`))
	assert.ErrorIs(t, err, ErrInvalidCatalog)
}

func TestLoadCatalog(t *testing.T) {
	def, err := LoadCatalog("")
	require.NoError(t, err)
	assert.Equal(t, len(DefaultCatalog().Cards), len(def.Cards))

	path := filepath.Join(t.TempDir(), "cards.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
cards:
  - {name: Pup, attack: 1, health: 2, cost: 1}
obstacles:
  - {name: Rock, health: 4, type: OBSTACLE}
bosses:
  - {name: Boss, attack: 1, health: 10, type: SPECIAL}
initial_deck: [Pup]
`), 0o644))

	cat, err := LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, cat.Cards, 1)
	assert.Equal(t, CardTypeBeast, cat.Cards[0].Type)
	assert.Equal(t, "Pup", cat.InitialDeck[0].Name)

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestCardEntryRoundTrip(t *testing.T) {
	cat := DefaultCatalog()
	orig := cat.MustLookup("Alveare")

	back, err := orig.Entry().Card()
	require.NoError(t, err)
	assert.Equal(t, orig, back)
}
