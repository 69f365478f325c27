package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/getshort/getshort/internal/models"
)

// URLCache keeps hot short-code lookups out of the database. Entries are
// invalidated on update and delete; correctness never depends on the cache.
type URLCache struct {
	c *lru.Cache[string, *models.ShortURL]
}

func New(size int) (*URLCache, error) {
	c, err := lru.New[string, *models.ShortURL](size)
	if err != nil {
		return nil, err
	}
	return &URLCache{c: c}, nil
}

func (uc *URLCache) Get(code string) (*models.ShortURL, bool) {
	return uc.c.Get(code)
}

func (uc *URLCache) Set(code string, u *models.ShortURL) {
	uc.c.Add(code, u)
}

func (uc *URLCache) Invalidate(code string) {
	uc.c.Remove(code)
}
