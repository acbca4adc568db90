package rescache

import "time"

func (c *Cache) startJanitor() {
	if c.interval <= 0 {
		return
	}

	ticker := time.NewTicker(c.interval)

	go func() {
		for {
			select {
			case <-ticker.C:
				c.deleteExpired()
			case <-c.stopChan:
				ticker.Stop()
				return
			}
		}
	}()
}

// deleteExpired sweeps the whole cache for expired entries.
//
// Lazy removal on Lookup only catches keys which are read again.
// The sweep also reclaims the ones which are not.
func (c *Cache) deleteExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for elem := c.lru.Back(); elem != nil; {
		prev := elem.Prev()
		if elem.Value.(*entry).expired() {
			c.removeElement(elem)
		}
		elem = prev
	}
}

// Stop terminates the janitor goroutine. Call it once.
func (c *Cache) Stop() {
	close(c.stopChan)
}
