package economy

import (
	"sort"
)

// MaxKinds bounds the number of resource kinds in one economy. Vectors are
// fixed-size arrays so that search states stay comparable values.
const MaxKinds = 6

// Kind indexes a resource kind in its economy's dependency order.
type Kind int

// Vector holds one quantity per resource kind.
type Vector [MaxKinds]int

// Covers reports whether v holds at least cost of every kind.
func (v Vector) Covers(cost Vector) bool {
	for i := range v {
		if v[i] < cost[i] {
			return false
		}
	}
	return true
}

// Economy is an immutable description of one puzzle instance.
type Economy struct {
	id       int
	names    []string
	index    map[string]Kind
	costs    [MaxKinds]Vector
	recipe   [MaxKinds]bool
	maxUse   Vector
	root     Kind
	terminal Kind
}

// New validates and builds an Economy. kinds lists resource names in
// production dependency order; recipes maps a producer kind to the quantity of
// each resource spent to build one producer of that kind. Kinds without a
// recipe can never gain producers.
func New(id int, kinds []string, recipes map[string]map[string]int, root, terminal string) (*Economy, error) {
	if len(kinds) == 0 {
		return nil, configErr(id, "kinds", "no resource kinds")
	}
	if len(kinds) > MaxKinds {
		return nil, configErr(id, "kinds", "%d kinds exceeds the limit of %d", len(kinds), MaxKinds)
	}
	e := &Economy{
		id:    id,
		names: append([]string(nil), kinds...),
		index: make(map[string]Kind, len(kinds)),
	}
	for i, name := range kinds {
		if name == "" {
			return nil, configErr(id, "kinds", "empty kind name at position %d", i)
		}
		if _, dup := e.index[name]; dup {
			return nil, configErr(id, "kinds", "duplicate kind %q", name)
		}
		e.index[name] = Kind(i)
	}

	var ok bool
	if root == "" {
		return nil, configErr(id, "root", "no root kind designated")
	}
	if e.root, ok = e.index[root]; !ok {
		return nil, configErr(id, "root", "unknown kind %q", root)
	}
	if terminal == "" {
		return nil, configErr(id, "terminal", "no terminal kind designated")
	}
	if e.terminal, ok = e.index[terminal]; !ok {
		return nil, configErr(id, "terminal", "unknown kind %q", terminal)
	}

	// Deterministic error reporting regardless of map iteration order.
	producers := make([]string, 0, len(recipes))
	for name := range recipes {
		producers = append(producers, name)
	}
	sort.Strings(producers)
	for _, name := range producers {
		k, ok := e.index[name]
		if !ok {
			return nil, configErr(id, "recipes", "recipe for unknown kind %q", name)
		}
		var cost Vector
		for input, qty := range recipes[name] {
			in, ok := e.index[input]
			if !ok {
				return nil, configErr(id, "recipes."+name, "cost references unknown kind %q", input)
			}
			if qty < 0 {
				return nil, configErr(id, "recipes."+name, "negative quantity %d of %q", qty, input)
			}
			if qty == 0 {
				continue
			}
			if in == e.terminal {
				return nil, configErr(id, "recipes."+name, "terminal kind %q cannot be spent", input)
			}
			if in > k {
				return nil, configErr(id, "recipes."+name, "cyclic dependency: %q is produced after %q", input, name)
			}
			cost[in] = qty
		}
		e.costs[k] = cost
		e.recipe[k] = true
	}

	for k := range e.names {
		if !e.recipe[k] {
			continue
		}
		for in, qty := range e.costs[k] {
			if qty > e.maxUse[in] {
				e.maxUse[in] = qty
			}
		}
	}
	return e, nil
}

// ID returns the instance identifier.
func (e *Economy) ID() int { return e.id }

// Len returns the number of resource kinds.
func (e *Economy) Len() int { return len(e.names) }

// Kinds returns the kind names in dependency order.
func (e *Economy) Kinds() []string { return append([]string(nil), e.names...) }

// Name returns the name of k.
func (e *Economy) Name(k Kind) string { return e.names[k] }

// KindByName looks up a kind by its name.
func (e *Economy) KindByName(name string) (Kind, bool) {
	k, ok := e.index[name]
	return k, ok
}

// Root is the kind with one producer at tick 0.
func (e *Economy) Root() Kind { return e.root }

// Terminal is the kind being maximised.
func (e *Economy) Terminal() Kind { return e.terminal }

// Depth is the position of k in the dependency order. Deeper kinds are
// explored first by the search.
func (e *Economy) Depth(k Kind) int { return int(k) }

// HasRecipe reports whether producers of k can be built.
func (e *Economy) HasRecipe(k Kind) bool { return e.recipe[k] }

// Cost returns the cost of building one producer of k.
func (e *Economy) Cost(k Kind) Vector { return e.costs[k] }

// MaxConsumption is the largest quantity of k any single recipe spends. Since
// at most one producer is built per tick, no more than this amount of k can
// be consumed in one tick.
func (e *Economy) MaxConsumption(k Kind) int { return e.maxUse[k] }

// Recipes returns a copy of the recipe table keyed by kind name.
func (e *Economy) Recipes() map[string]map[string]int {
	out := make(map[string]map[string]int)
	for k, name := range e.names {
		if !e.recipe[k] {
			continue
		}
		cost := make(map[string]int)
		for in, qty := range e.costs[k] {
			if qty > 0 {
				cost[e.names[in]] = qty
			}
		}
		out[name] = cost
	}
	return out
}
