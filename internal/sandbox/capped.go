package sandbox

import (
	"bytes"
	"sync"
)

// cappedBuffer keeps at most limit bytes and silently drops the rest so
// that the writer is never blocked. onExceed is called once the limit is
// crossed.
type cappedBuffer struct {
	mu       sync.Mutex
	buf      bytes.Buffer
	limit    int64
	onExceed func()
	exceeded bool
}

func newCappedBuffer(limit int64, onExceed func()) *cappedBuffer {
	return &cappedBuffer{limit: limit, onExceed: onExceed}
}

func (c *cappedBuffer) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.limit <= 0 {
		return c.buf.Write(p)
	}
	room := c.limit - int64(c.buf.Len())
	if int64(len(p)) <= room {
		return c.buf.Write(p)
	}
	if room > 0 {
		c.buf.Write(p[:room])
	}
	if !c.exceeded {
		c.exceeded = true
		if c.onExceed != nil {
			c.onExceed()
		}
	}
	return len(p), nil
}

func (c *cappedBuffer) Bytes() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return bytes.Clone(c.buf.Bytes())
}
