package web

import (
	"github.com/peterkuimelis/warden/internal/game"
)

// CardInfo is the JSON representation of a card for the /api/cards endpoint.
type CardInfo struct {
	game.CardEntry
	Group string `json:"group"` // "card", "obstacle", "boss" or "token"
}

// CatalogInfo is the /api/cards response.
type CatalogInfo struct {
	Cards       []CardInfo `json:"cards"`
	InitialDeck []string   `json:"initial_deck"`
}

func buildCatalogInfo(cat *game.Catalog) CatalogInfo {
	info := CatalogInfo{Cards: []CardInfo{}}
	groups := []struct {
		name  string
		cards []*game.Card
	}{
		{"card", cat.Cards},
		{"obstacle", cat.Obstacles},
		{"boss", cat.Bosses},
		{"token", cat.Tokens},
	}
	for _, g := range groups {
		for _, c := range g.cards {
			info.Cards = append(info.Cards, CardInfo{CardEntry: c.Entry(), Group: g.name})
		}
	}
	for _, c := range cat.InitialDeck {
		info.InitialDeck = append(info.InitialDeck, c.Name)
	}
	return info
}
