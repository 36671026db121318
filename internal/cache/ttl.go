package cache

import (
	"strings"
	"sync"
	"time"
)

// TTL es un cache en memoria de un solo proceso. Los valores son []byte,
// normalmente JSON ya serializado listo para escribir en la respuesta.
type TTL struct {
	mu    sync.RWMutex
	items map[string]entry
	ttl   time.Duration
}

type entry struct {
	data []byte
	exp  int64
}

// New crea el cache y arranca la goroutine de limpieza. El intervalo de
// limpieza nunca baja de un segundo.
func New(ttl time.Duration) *TTL {
	c := &TTL{items: make(map[string]entry), ttl: ttl}
	interval := ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	go c.sweep(interval)
	return c
}

func (c *TTL) sweep(interval time.Duration) {
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for range tick.C {
		now := time.Now().UnixNano()
		c.mu.Lock()
		for k, e := range c.items {
			if e.exp < now {
				delete(c.items, k)
			}
		}
		c.mu.Unlock()
	}
}

// Get devuelve el valor si existe y no expiró; nil en cualquier otro caso.
func (c *TTL) Get(key string) []byte {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()
	if !ok || e.exp < time.Now().UnixNano() {
		return nil
	}
	return e.data
}

func (c *TTL) Set(key string, value []byte) {
	exp := time.Now().Add(c.ttl).UnixNano()
	c.mu.Lock()
	c.items[key] = entry{data: value, exp: exp}
	c.mu.Unlock()
}

func (c *TTL) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// DeletePrefix borra todas las claves con el prefijo dado, p. ej. "agenda:"
// tras mover una cita.
func (c *TTL) DeletePrefix(prefix string) {
	c.mu.Lock()
	for k := range c.items {
		if strings.HasPrefix(k, prefix) {
			delete(c.items, k)
		}
	}
	c.mu.Unlock()
}
