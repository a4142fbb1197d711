// Package galleryindex reads the service's remote word index: a B-tree
// fetched node by node with range requests, keyed by truncated SHA-256
// word hashes, whose leaves point at id-set slices in a data file.
package galleryindex

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/hitogo/hitomi/internal/fetch"
)

const (
	// nodeSize is the fixed byte span fetched per node.
	nodeSize = 464

	// subnodeCount is the child-pointer fan-out of every node.
	subnodeCount = 17

	// nodeCacheSize bounds the in-memory node cache.
	nodeCacheSize = 256
)

// DataRef locates an id-set slice inside the index data file.
type DataRef struct {
	Offset uint64
	Length int
}

// Node is one decoded B-tree node.
type Node struct {
	Keys     [][]byte
	Data     []DataRef
	Subnodes []uint64
}

// Client fetches and searches the remote index. Nodes are cached in an LRU
// and concurrent fetches of the same node are deduplicated.
type Client struct {
	fetcher *fetch.Client
	baseURL string
	nodes   *lru.Cache[string, *Node]
	group   singleflight.Group
}

// New creates a Client rooted at baseURL (the galleriesindex directory,
// without a trailing slash).
func New(fetcher *fetch.Client, baseURL string) (*Client, error) {
	nodes, err := lru.New[string, *Node](nodeCacheSize)
	if err != nil {
		return nil, err
	}
	return &Client{
		fetcher: fetcher,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		nodes:   nodes,
	}, nil
}

// Version returns the current index version token.
func (c *Client) Version(ctx context.Context) (string, error) {
	body, err := c.fetcher.Get(ctx, c.baseURL+"/version")
	if err != nil {
		return "", err
	}
	version := strings.TrimSpace(string(body))
	if version == "" {
		return "", fmt.Errorf("index version: empty response")
	}
	return version, nil
}

// Search walks the tree from the root looking for key. The second return
// is false when the key is absent.
func (c *Client) Search(ctx context.Context, version string, key []byte) (DataRef, bool, error) {
	node, err := c.nodeAt(ctx, version, 0)
	if err != nil {
		return DataRef{}, false, err
	}

	for {
		if len(node.Keys) == 0 {
			return DataRef{}, false, nil
		}

		index := 0
		found := false
		for index < len(node.Keys) {
			cmp := bytes.Compare(key, node.Keys[index])
			if cmp == 0 {
				found = true
				break
			}
			if cmp < 0 {
				break
			}
			index++
		}

		if found {
			if index >= len(node.Data) {
				return DataRef{}, false, fmt.Errorf("index node: key %d has no data entry", index)
			}
			return node.Data[index], true, nil
		}

		if index >= len(node.Subnodes) {
			return DataRef{}, false, fmt.Errorf("index node: no subnode slot for position %d", index)
		}
		child := node.Subnodes[index]
		if child == 0 {
			return DataRef{}, false, nil
		}

		node, err = c.nodeAt(ctx, version, child)
		if err != nil {
			return DataRef{}, false, err
		}
	}
}

// Data fetches the id-set slice a search result points at, skipping the
// 4-byte length prefix stored in the data file.
func (c *Client) Data(ctx context.Context, version string, ref DataRef) ([]byte, error) {
	if ref.Length <= 4 {
		return nil, nil
	}
	byteRange := fmt.Sprintf("bytes=%d-%d", ref.Offset+4, ref.Offset+uint64(ref.Length)-1)
	return c.fetcher.GetRange(ctx, c.baseURL+"/galleries."+version+".data", byteRange)
}

func (c *Client) nodeAt(ctx context.Context, version string, address uint64) (*Node, error) {
	key := version + "@" + strconv.FormatUint(address, 10)
	if node, ok := c.nodes.Get(key); ok {
		return node, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		if node, ok := c.nodes.Get(key); ok {
			return node, nil
		}
		byteRange := fmt.Sprintf("bytes=%d-%d", address, address+nodeSize-1)
		raw, err := c.fetcher.GetRange(ctx, c.baseURL+"/galleries."+version+".index", byteRange)
		if err != nil {
			return nil, err
		}
		node, err := parseNode(raw)
		if err != nil {
			return nil, err
		}
		c.nodes.Add(key, node)
		return node, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Node), nil
}
