package cfr

import (
	"container/list"

	"github.com/mthaler/fosgcfr/fosg"
)

// schedule is the cyclic player-update queue described in spec §4.G: plain
// iterate() pops the front, uses it, and pushes it onto the back;
// IteratePlayer moves a player to the front without popping, so it is
// ready to be picked again either by a second explicit call (repeating a
// player) or by the next plain iterate() call.
type schedule struct {
	order *list.List // elements are fosg.Player
}

func newSchedule(players []fosg.Player) *schedule {
	order := list.New()
	for _, p := range players {
		order.PushBack(p)
	}
	return &schedule{order: order}
}

func (s *schedule) popFront() fosg.Player {
	front := s.order.Front()
	p := front.Value.(fosg.Player)
	s.order.Remove(front)
	return p
}

func (s *schedule) pushBack(p fosg.Player) {
	s.order.PushBack(p)
}

func (s *schedule) moveToFront(p fosg.Player) {
	for e := s.order.Front(); e != nil; e = e.Next() {
		if e.Value.(fosg.Player) == p {
			s.order.MoveToFront(e)
			return
		}
	}
	s.order.PushFront(p)
}

// snapshot returns the current queue order, front first. Used by tests.
func (s *schedule) snapshot() []fosg.Player {
	out := make([]fosg.Player, 0, s.order.Len())
	for e := s.order.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(fosg.Player))
	}
	return out
}
