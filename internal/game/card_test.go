package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewInstance(t *testing.T) {
	snail := &Card{Name: "Snail", ATK: 1, HP: 2, Cost: 2, Sigils: NewSigilSet(SigilCorazza)}

	a := NewInstance(snail)
	b := NewInstance(snail)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 1, a.ATK)
	assert.Equal(t, 1, a.BaseATK)
	assert.Equal(t, 2, a.HP)
	assert.Equal(t, 2, a.MaxHP)
	assert.Zero(t, a.Age)
	assert.True(t, a.Shielded)
	assert.False(t, NewInstance(testCard("Bare", 1, 1)).Shielded)
	assert.Equal(t, "Snail (1/2) [shield]", a.String())
}

func TestInstanceCloneIsIndependent(t *testing.T) {
	a := NewInstance(testCard("Pup", 2, 3))

	b := a.Clone()
	b.HP = 1
	b.Stunned = true

	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, 3, a.HP)
	assert.False(t, a.Stunned)
	assert.Same(t, a.Card, b.Card)
}

func TestHealCapsAtMax(t *testing.T) {
	ci := NewInstance(testCard("Pup", 1, 3))

	assert.False(t, ci.heal(1))
	ci.HP = 1
	assert.True(t, ci.heal(5))
	assert.Equal(t, 3, ci.HP)
}

func TestBoardHelpers(t *testing.T) {
	b := NewBoard(4)
	put(b, 0, testCard("Ant", 0, 1, SigilForzaBranco))
	put(b, 2, testCard("Ant2", 0, 1, SigilForzaBranco))

	assert.Equal(t, []int{1, 3}, b.EmptySlots())
	assert.Equal(t, 2, b.Occupied())
	assert.Equal(t, 2, b.Count(SigilForzaBranco))
	assert.True(t, b.HasName("Ant2"))
	assert.False(t, b.InRange(4))
	assert.Nil(t, b.At(-1))

	c := b.Clone()
	c[0].HP = 0
	assert.Equal(t, 1, b[0].HP)
}
