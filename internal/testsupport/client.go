package testsupport

import (
	"context"
	"fmt"
	"sync"

	"reelfetch/internal/platform"
)

// FakeItem scripts one item served by a FakeClient.
type FakeItem struct {
	Ref        platform.ItemRef
	Meta       platform.Metadata
	MetaErr    error
	MediaURL   string
	ResolveErr error
}

// FakeClient is a scripted platform.Client for tests. It records resolve and
// metadata probe counts per item ID.
type FakeClient struct {
	Platform string
	Items    []FakeItem
	ListErr  error

	mu           sync.Mutex
	resolveCalls map[string]int
	metaCalls    map[string]int
}

var _ platform.Client = (*FakeClient)(nil)

func (c *FakeClient) Name() string {
	if c.Platform == "" {
		return "instagram"
	}
	return c.Platform
}

func (c *FakeClient) ListItems(ctx context.Context, account string) (platform.ItemIterator, error) {
	if c.ListErr != nil {
		return nil, c.ListErr
	}
	var items []platform.ItemRef
	for _, it := range c.Items {
		if it.Ref.Account == account {
			items = append(items, it.Ref)
		}
	}
	return &sliceIterator{items: items}, nil
}

func (c *FakeClient) ResolveMediaURL(ctx context.Context, item platform.ItemRef) (string, error) {
	c.count(&c.resolveCalls, item.ID)
	scripted, ok := c.find(item.ID)
	if !ok {
		return "", &platform.ResolutionError{Item: item, Err: fmt.Errorf("unknown item %s", item.ID)}
	}
	if scripted.ResolveErr != nil {
		return "", scripted.ResolveErr
	}
	return scripted.MediaURL, nil
}

func (c *FakeClient) FetchMetadata(ctx context.Context, item platform.ItemRef) (platform.Metadata, error) {
	c.count(&c.metaCalls, item.ID)
	scripted, ok := c.find(item.ID)
	if !ok {
		return platform.Metadata{}, &platform.ProbeError{Item: item, Err: fmt.Errorf("unknown item %s", item.ID)}
	}
	if scripted.MetaErr != nil {
		return platform.Metadata{}, scripted.MetaErr
	}
	return scripted.Meta, nil
}

func (c *FakeClient) ParseItemURL(ctx context.Context, rawURL string) (platform.ItemRef, error) {
	for _, it := range c.Items {
		if it.Ref.SourceURL == rawURL {
			return it.Ref, nil
		}
	}
	return platform.ItemRef{}, platform.ErrUnsupportedURL
}

// ResolveCalls returns how many times ResolveMediaURL was invoked for the ID.
func (c *FakeClient) ResolveCalls(id string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resolveCalls[id]
}

// MetadataCalls returns how many times FetchMetadata was invoked for the ID.
func (c *FakeClient) MetadataCalls(id string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.metaCalls[id]
}

func (c *FakeClient) find(id string) (FakeItem, bool) {
	for _, it := range c.Items {
		if it.Ref.ID == id {
			return it, true
		}
	}
	return FakeItem{}, false
}

func (c *FakeClient) count(calls *map[string]int, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if *calls == nil {
		*calls = make(map[string]int)
	}
	(*calls)[id]++
}

type sliceIterator struct {
	items []platform.ItemRef
	index int
	item  platform.ItemRef
}

func (it *sliceIterator) Next(ctx context.Context) bool {
	if ctx.Err() != nil || it.index >= len(it.items) {
		return false
	}
	it.item = it.items[it.index]
	it.index++
	return true
}

func (it *sliceIterator) Item() platform.ItemRef { return it.item }

func (it *sliceIterator) Err() error { return nil }

// Int64 returns a pointer to v, for populating optional metadata fields.
func Int64(v int64) *int64 { return &v }

// Float64 returns a pointer to v, for populating optional metadata fields.
func Float64(v float64) *float64 { return &v }
