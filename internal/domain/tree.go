package domain

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrCategoryCycle    = errors.New("category parent chain has a cycle")
	ErrCategoryNotFound = errors.New("category not found")
)

// CategoryTree is an adjacency-list view over all categories.
type CategoryTree struct {
	nodes    map[int64]Category
	children map[int64][]int64
	roots    []int64
}

// NewCategoryTree indexes the given categories. Children and roots are kept
// ordered by title. A parent reference to an unknown id makes the category a
// root.
func NewCategoryTree(cats []Category) (*CategoryTree, error) {
	t := &CategoryTree{
		nodes:    make(map[int64]Category, len(cats)),
		children: make(map[int64][]int64),
	}
	for _, c := range cats {
		t.nodes[c.ID] = c
	}
	for _, c := range cats {
		if c.ParentID != nil {
			if _, ok := t.nodes[*c.ParentID]; ok {
				t.children[*c.ParentID] = append(t.children[*c.ParentID], c.ID)
				continue
			}
		}
		t.roots = append(t.roots, c.ID)
	}
	for id := range t.nodes {
		if _, err := t.ancestors(id); err != nil {
			return nil, err
		}
	}
	byTitle := func(ids []int64) {
		sort.SliceStable(ids, func(i, j int) bool {
			return t.nodes[ids[i]].Title < t.nodes[ids[j]].Title
		})
	}
	byTitle(t.roots)
	for _, ids := range t.children {
		byTitle(ids)
	}
	return t, nil
}

func (t *CategoryTree) Get(id int64) (Category, bool) {
	c, ok := t.nodes[id]
	return c, ok
}

func (t *CategoryTree) Roots() []Category { return t.collect(t.roots) }

func (t *CategoryTree) Children(id int64) []Category { return t.collect(t.children[id]) }

// Descendants walks the whole subtree below id, depth first.
func (t *CategoryTree) Descendants(id int64) []Category {
	var out []Category
	var walk func(int64)
	walk = func(n int64) {
		for _, c := range t.children[n] {
			out = append(out, t.nodes[c])
			walk(c)
		}
	}
	walk(id)
	return out
}

// Ancestors returns the parent chain of id, nearest first.
func (t *CategoryTree) Ancestors(id int64) []Category {
	ids, _ := t.ancestors(id)
	return t.collect(ids)
}

// FilterSet is the category set a catalog or tag filter on id matches:
// the category itself and its direct children.
func (t *CategoryTree) FilterSet(id int64) []int64 {
	out := []int64{id}
	return append(out, t.children[id]...)
}

// CanAttach reports whether parent may become the parent of child without
// closing a loop.
func (t *CategoryTree) CanAttach(child, parent int64) bool {
	if child == parent {
		return false
	}
	for _, a := range t.Ancestors(parent) {
		if a.ID == child {
			return false
		}
	}
	return true
}

func (t *CategoryTree) ancestors(id int64) ([]int64, error) {
	var out []int64
	seen := map[int64]bool{id: true}
	cur, ok := t.nodes[id]
	for ok && cur.ParentID != nil {
		pid := *cur.ParentID
		if seen[pid] {
			return nil, fmt.Errorf("%w: category %d", ErrCategoryCycle, id)
		}
		seen[pid] = true
		var parent Category
		if parent, ok = t.nodes[pid]; ok {
			out = append(out, pid)
			cur = parent
		}
	}
	return out, nil
}

func (t *CategoryTree) collect(ids []int64) []Category {
	out := make([]Category, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.nodes[id])
	}
	return out
}
