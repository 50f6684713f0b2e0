package game

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForkSharesDataWithOwnSource(t *testing.T) {
	a := NewEngine(DefaultCatalog(), DefaultRules(), NewRand(5)).Fork()
	b := NewEngine(DefaultCatalog(), DefaultRules(), NewRand(5)).Fork()

	parent := NewEngine(DefaultCatalog(), DefaultRules(), NewRand(5))
	child := parent.Fork()
	assert.Same(t, parent.Catalog, child.Catalog)
	assert.Equal(t, parent.Rules, child.Rules)
	assert.NotSame(t, parent.Rand, child.Rand)

	for range 10 {
		assert.Equal(t, a.Rand.Intn(1000), b.Rand.Intn(1000), "same parent seed, same child sequence")
	}
}

func TestSessionsShareEngineConcurrently(t *testing.T) {
	e := NewEngine(DefaultCatalog(), DefaultRules(), NewRand(9))
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := NewSession(e, SessionConfig{})
			s.Apply(ctx, Action{Type: ActionStartGame})
			for range 50 {
				if s.State().Status != StatusPlaying {
					break
				}
				s.Apply(ctx, Action{Type: ActionEndTurn})
			}
			assert.NotEqual(t, StatusMenu, s.State().Status)
		}()
	}
	wg.Wait()
}
