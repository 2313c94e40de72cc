package lspsrv

import "github.com/rocket-tycoon/rocketindex/internal/typecache"

func loadCache(path string) (*typecache.Cache, error) {
	return typecache.Load(path)
}
