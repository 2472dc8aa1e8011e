package bus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// blockingTransport blocks every operation until released.
type blockingTransport struct {
	release chan struct{}
	data    []byte
	closed  bool
}

func (b *blockingTransport) Write(p []byte) (int, error) {
	<-b.release
	return len(p), nil
}

func (b *blockingTransport) Read(p []byte) (int, error) {
	<-b.release
	return copy(p, b.data), nil
}

func (b *blockingTransport) Close() error {
	b.closed = true
	return nil
}

func TestWithDeadlineZero(t *testing.T) {
	tr := &blockingTransport{}
	require.Equal(t, Transport(tr), WithDeadline(tr, 0))
}

func TestWithDeadlinePassThrough(t *testing.T) {
	tr := &blockingTransport{release: make(chan struct{}), data: []byte{1, 2, 3}}
	close(tr.release)
	d := WithDeadline(tr, time.Second)
	n, err := d.Write([]byte{0})
	require.NoError(t, err)
	require.Equal(t, 1, n)
	buf := make([]byte, 3)
	n, err = d.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, []byte{1, 2, 3}, buf)
	require.NoError(t, d.Close())
	require.True(t, tr.closed)
}

func TestWithDeadlineTimeout(t *testing.T) {
	tr := &blockingTransport{release: make(chan struct{}), data: []byte{9}}
	d := WithDeadline(tr, 10*time.Millisecond)
	buf := []byte{0}
	n, err := d.Read(buf)
	require.Equal(t, ErrTimeout, err)
	require.Zero(t, n)

	// the stalled read still holds the bus.
	_, err = d.Write([]byte{0})
	require.Equal(t, ErrBusy, err)

	close(tr.release)
	require.Eventually(t, func() bool {
		_, err := d.Write([]byte{0})
		return err == nil
	}, time.Second, time.Millisecond)
	// the late read never touched the caller's buffer.
	require.Equal(t, []byte{0}, buf)
}
