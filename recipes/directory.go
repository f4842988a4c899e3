package recipes

import (
	"math/rand"
	"time"

	"github.com/AmrMurad1/recipe-store/shared"
)

const (
	maxLevel    = 12
	probability = 0.5
)

// Entry is one well-formed recipe file known to the store.
type Entry struct {
	Key    shared.Key
	Path   string
	Recipe *shared.Recipe
}

// Directory is a skip list of entries ordered by key. It is only ever built
// from a full scan and is never patched afterwards.
type Directory struct {
	maxLevel int
	p        float64
	level    int
	rand     *rand.Rand
	size     int
	head     *element
}

type element struct {
	Entry
	next []*element
}

func newDirectory() *Directory {
	return &Directory{
		maxLevel: maxLevel,
		p:        probability,
		level:    1,
		rand:     rand.New(rand.NewSource(time.Now().UnixNano())),
		head: &element{
			next: make([]*element, maxLevel),
		},
	}
}

func (d *Directory) Len() int {
	return d.size
}

// insert adds entry and reports false when the key is already taken; the
// existing entry is left as it was.
func (d *Directory) insert(entry Entry) bool {
	curr := d.head
	update := make([]*element, d.maxLevel)

	for i := d.maxLevel - 1; i >= 0; i-- {
		for curr.next[i] != nil && shared.CompareKeys(curr.next[i].Key, entry.Key) < 0 {
			curr = curr.next[i]
		}
		update[i] = curr
	}

	if curr.next[0] != nil && shared.CompareKeys(curr.next[0].Key, entry.Key) == 0 {
		return false
	}

	level := d.randomLevel()
	if level > d.level {
		for i := d.level; i < level; i++ {
			update[i] = d.head
		}
		d.level = level
	}

	e := &element{
		Entry: entry,
		next:  make([]*element, level),
	}
	for i := 0; i < level; i++ {
		e.next[i] = update[i].next[i]
		update[i].next[i] = e
	}

	d.size++
	return true
}

func (d *Directory) Get(key shared.Key) (Entry, bool) {
	curr := d.head
	for i := d.level - 1; i >= 0; i-- {
		for curr.next[i] != nil && shared.CompareKeys(curr.next[i].Key, key) < 0 {
			curr = curr.next[i]
		}
	}
	curr = curr.next[0]

	if curr != nil && shared.CompareKeys(curr.Key, key) == 0 {
		return curr.Entry, true
	}
	return Entry{}, false
}

func (d *Directory) All() []Entry {
	all := make([]Entry, 0, d.size)
	for curr := d.head.next[0]; curr != nil; curr = curr.next[0] {
		all = append(all, curr.Entry)
	}
	return all
}

func (d *Directory) randomLevel() int {
	level := 1
	for d.rand.Float64() < d.p && level < d.maxLevel {
		level++
	}
	return level
}
