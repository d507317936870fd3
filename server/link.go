package server

import (
	"sync"

	"github.com/emirpasic/gods/maps/treemap"

	"github.com/FlorianDenis/Belote/game"
	"github.com/FlorianDenis/Belote/transport"
)

// Link associates one connection with the player created over it, if any.
type Link struct {
	ID        string
	Transport *transport.Transport
	Player    *game.Player
}

// LinkGroup is the set of active links, keyed by link ID. It is mutated by
// the accept goroutine (add) and the dispatch goroutine (remove) only.
type LinkGroup struct {
	imp  *treemap.Map
	lock sync.RWMutex
}

func NewLinkGroup() *LinkGroup {
	return &LinkGroup{
		imp: treemap.NewWithStringComparator(),
	}
}

func (g *LinkGroup) Add(l *Link) {
	g.lock.Lock()
	defer g.lock.Unlock()
	g.imp.Put(l.ID, l)
}

// Remove deletes the link, reporting whether it was still present.
func (g *LinkGroup) Remove(id string) bool {
	g.lock.Lock()
	defer g.lock.Unlock()
	if _, found := g.imp.Get(id); !found {
		return false
	}
	g.imp.Remove(id)
	return true
}

func (g *LinkGroup) Size() int {
	g.lock.RLock()
	defer g.lock.RUnlock()
	return g.imp.Size()
}

func (g *LinkGroup) Range(fn func(*Link) bool) {
	g.lock.RLock()
	defer g.lock.RUnlock()
	g.imp.All(func(key, value interface{}) bool {
		return fn(value.(*Link))
	})
}
