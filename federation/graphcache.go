package federation

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/unkn0wn-root/graphcache"
	"github.com/unkn0wn-root/graphcache/codec"
)

// CacheName is the cache federated graphs live in.
const CacheName = "federatedStoreGraphs"

// ErrNoGraphID is returned for a graph without an ID.
var ErrNoGraphID = errors.New("federation: graph id is required")

// Entry is what GraphCache stores per graph ID.
type Entry = graphcache.Pair[Graph, Access]

type Options struct {
	// Services resolves the cache service; nil uses graphcache.DefaultLocator().
	Services graphcache.Resolver
	// Codec names the value codec ("json", "cbor", "msgpack"); "" is json.
	Codec string
}

// GraphCache stores graph/access pairs keyed by graph ID.
type GraphCache struct {
	tc *graphcache.TupleCache[string, Entry]
}

func NewGraphCache(opts Options) (*GraphCache, error) {
	services := opts.Services
	if services == nil {
		services = graphcache.DefaultLocator()
	}
	ser, err := codec.ByName[Entry](opts.Codec)
	if err != nil {
		return nil, fmt.Errorf("federation: %w", err)
	}
	tc, err := graphcache.NewTupleCache(graphcache.TupleOptions[string, Entry]{
		Name:     CacheName,
		Services: services,
		Codec:    ser,
	})
	if err != nil {
		return nil, err
	}
	return &GraphCache{tc: tc}, nil
}

// AddGraph stores g with its access. Without overwrite an existing graph of
// the same ID is kept and the error wraps graphcache.ErrConflict.
func (c *GraphCache) AddGraph(ctx context.Context, g Graph, access Access, overwrite bool) error {
	if g.ID == "" {
		return ErrNoGraphID
	}
	e := graphcache.NewPair(g, access)
	if overwrite {
		return c.tc.PutOwner(ctx, g.ID, e)
	}
	return c.tc.PutSafeOwner(ctx, g.ID, e)
}

// GetGraph returns the graph and access stored for id.
func (c *GraphCache) GetGraph(ctx context.Context, id string) (Graph, Access, bool, error) {
	e, ok, err := c.tc.Get(ctx, id)
	if err != nil || !ok {
		return Graph{}, Access{}, false, err
	}
	return e.First, e.Second, true, nil
}

// GetGraphIDs returns every stored graph ID, sorted.
func (c *GraphCache) GetGraphIDs(ctx context.Context) ([]string, error) {
	ids, err := c.tc.Keys(ctx)
	if err != nil {
		return nil, err
	}
	slices.Sort(ids)
	return ids, nil
}

// Graphs returns the graphs visible to userID with auths, ordered by ID.
func (c *GraphCache) Graphs(ctx context.Context, userID string, auths ...string) ([]Graph, error) {
	entries, err := c.tc.Values(ctx)
	if err != nil {
		return nil, err
	}
	var out []Graph
	for _, e := range entries {
		if e.Second.Visible(userID, auths...) {
			out = append(out, e.First)
		}
	}
	slices.SortFunc(out, func(a, b Graph) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

func (c *GraphCache) Contains(ctx context.Context, id string) (bool, error) {
	_, ok, err := c.tc.Get(ctx, id)
	return ok, err
}

// DeleteGraph removes id. Removing an unknown ID is not an error.
func (c *GraphCache) DeleteGraph(ctx context.Context, id string) error {
	return c.tc.Remove(ctx, id)
}

func (c *GraphCache) Size(ctx context.Context) (int, error) { return c.tc.Size(ctx) }

func (c *GraphCache) Clear(ctx context.Context) error { return c.tc.Clear(ctx) }
