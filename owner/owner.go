// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package owner maps numeric user ids to account names.
//
// The host account database is a process-wide resource, so scanning code takes
// a Resolver instead of calling os/user directly. Tests substitute a Table.
package owner

import (
	"os/user"
	"strconv"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Unknown is returned for ids that have no matching account. Ids owned by
// other user namespaces (containers) are the usual cause.
const Unknown = "unknown"

// DefaultCacheSize is the number of uid lookups System keeps.
const DefaultCacheSize = 256

// Resolver resolves a numeric user id to a display name.
// Implementations return Unknown rather than failing.
type Resolver interface {
	Resolve(uid int) string
}

// System resolves ids against the host account database and memoizes the
// results, since a scan sees the same handful of uids thousands of times.
type System struct {
	cache  *lru.Cache[int, string]
	lookup func(uid string) (*user.User, error)
	// serializes misses so concurrent scans don't hit the database twice for one uid
	mu sync.Mutex
}

// NewSystem creates a System resolver with an LRU cache of the given size.
func NewSystem(size int) (*System, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[int, string](size)
	if err != nil {
		return nil, err
	}
	return &System{cache: cache, lookup: user.LookupId}, nil
}

// Resolve returns the account name for uid, or Unknown.
func (s *System) Resolve(uid int) string {
	if uid < 0 {
		return Unknown
	}
	if name, ok := s.cache.Get(uid); ok {
		return name
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if name, ok := s.cache.Get(uid); ok {
		return name
	}

	name := Unknown
	if u, err := s.lookup(strconv.Itoa(uid)); err == nil && u.Username != "" {
		name = u.Username
	}
	s.cache.Add(uid, name)
	return name
}

// Table is a fixed id -> name mapping.
type Table map[int]string

// Resolve returns the mapped name, or Unknown.
func (t Table) Resolve(uid int) string {
	if name, ok := t[uid]; ok {
		return name
	}
	return Unknown
}
