package transport

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeDevice records writes byte by byte into a shared sink and fails if it
// is ever opened twice at once
type fakeDevice struct {
	mu       sync.Mutex
	sink     *bytes.Buffer
	open     bool
	opens    int
	closes   int
	openErr  error
	writeErr error
	started  chan struct{}
	release  chan struct{}
	ctxErr   error
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{sink: &bytes.Buffer{}}
}

func (f *fakeDevice) Open(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.openErr != nil {
		return f.openErr
	}
	if f.open {
		return errors.New("device already open")
	}
	f.open = true
	f.opens++
	return nil
}

func (f *fakeDevice) Write(ctx context.Context, data []byte) error {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
		f.mu.Lock()
		f.ctxErr = ctx.Err()
		f.mu.Unlock()
	}
	if f.writeErr != nil {
		return f.writeErr
	}
	for _, b := range data {
		f.mu.Lock()
		f.sink.WriteByte(b)
		f.mu.Unlock()
		runtime.Gosched()
	}
	return nil
}

func (f *fakeDevice) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.open = false
	f.closes++
	return nil
}

func newTestTransport(t *testing.T, opts Options, devices map[string]Device) *Transport {
	t.Helper()
	registry := NewRegistry()
	for id, dev := range devices {
		qid, err := ParseQueueID(id)
		require.NoError(t, err)
		require.NoError(t, registry.Register(qid, DeviceTypeFile, dev))
	}
	return New(registry, opts, zap.NewNop(), nil)
}

func TestSendWritesContiguousJobs(t *testing.T) {
	dev := newFakeDevice()
	tr := newTestTransport(t, Options{}, map[string]Device{"USB001:Front": dev})

	const jobs, size = 8, 200
	var wg sync.WaitGroup
	for i := 0; i < jobs; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			data := bytes.Repeat([]byte{byte('A' + i)}, size)
			assert.NoError(t, tr.Send(context.Background(), "USB001:Front", data))
		}(i)
	}
	wg.Wait()

	out := dev.sink.Bytes()
	require.Len(t, out, jobs*size)
	for off := 0; off < len(out); off += size {
		chunk := out[off : off+size]
		assert.Equal(t, bytes.Repeat(chunk[:1], size), chunk, "job bytes interleaved at offset %d", off)
	}
	assert.Equal(t, jobs, dev.opens)
	assert.Equal(t, jobs, dev.closes)
}

func TestSendDifferentQueuesDoNotBlock(t *testing.T) {
	slow := newFakeDevice()
	slow.started = make(chan struct{}, 1)
	slow.release = make(chan struct{})
	fast := newFakeDevice()
	tr := newTestTransport(t, Options{}, map[string]Device{"USB001:Front": slow, "USB002:Back": fast})

	done := make(chan error, 1)
	go func() { done <- tr.Send(context.Background(), "USB001:Front", []byte("slow")) }()
	<-slow.started

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, tr.Send(ctx, "USB002:Back", []byte("fast")))
	assert.Equal(t, "fast", fast.sink.String())

	close(slow.release)
	require.NoError(t, <-done)
	assert.Equal(t, "slow", slow.sink.String())
}

func TestSendFailFastWhenBusy(t *testing.T) {
	dev := newFakeDevice()
	dev.started = make(chan struct{}, 1)
	dev.release = make(chan struct{})
	tr := newTestTransport(t, Options{Policy: BusyFailFast}, map[string]Device{"USB001:Front": dev})

	done := make(chan error, 1)
	go func() { done <- tr.Send(context.Background(), "USB001:Front", []byte("first")) }()
	<-dev.started

	err := tr.Send(context.Background(), "USB001:Front", []byte("second"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBusy))
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, KindBusy, terr.Kind)
	assert.Equal(t, "USB001:Front", terr.Queue)

	close(dev.release)
	require.NoError(t, <-done)
	assert.Equal(t, "first", dev.sink.String())
}

func TestSendBlockTimesOutWaitingForLock(t *testing.T) {
	dev := newFakeDevice()
	dev.started = make(chan struct{}, 1)
	dev.release = make(chan struct{})
	tr := newTestTransport(t, Options{Policy: BusyBlock, LockTimeout: 20 * time.Millisecond}, map[string]Device{"USB001:Front": dev})

	done := make(chan error, 1)
	go func() { done <- tr.Send(context.Background(), "USB001:Front", []byte("first")) }()
	<-dev.started

	err := tr.Send(context.Background(), "USB001:Front", []byte("second"))
	assert.True(t, errors.Is(err, ErrBusy))

	close(dev.release)
	require.NoError(t, <-done)
}

func TestSendWriteIgnoresCallerCancellation(t *testing.T) {
	dev := newFakeDevice()
	dev.started = make(chan struct{}, 1)
	dev.release = make(chan struct{})
	tr := newTestTransport(t, Options{}, map[string]Device{"USB001:Front": dev})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- tr.Send(ctx, "USB001:Front", []byte("job")) }()
	<-dev.started
	cancel()
	close(dev.release)

	require.NoError(t, <-done)
	assert.NoError(t, dev.ctxErr)
	assert.Equal(t, "job", dev.sink.String())
}

func TestSendNotFound(t *testing.T) {
	tr := newTestTransport(t, Options{}, map[string]Device{"USB001:Front": newFakeDevice()})

	for _, id := range []string{"USB001:Back", "USB009:Front", "nocolon", ""} {
		err := tr.Send(context.Background(), id, []byte("x"))
		assert.True(t, errors.Is(err, ErrNotFound), "queue %q", id)
		assert.False(t, errors.Is(err, ErrBusy))
	}
}

func TestSendOpenFailureIsBusy(t *testing.T) {
	dev := newFakeDevice()
	dev.openErr = errors.New("printer offline")
	tr := newTestTransport(t, Options{}, map[string]Device{"USB001:Front": dev})

	err := tr.Send(context.Background(), "USB001:Front", []byte("x"))
	assert.True(t, errors.Is(err, ErrBusy))
	assert.Contains(t, err.Error(), "printer offline")
	assert.Zero(t, dev.closes)
}

func TestSendWriteFailure(t *testing.T) {
	dev := newFakeDevice()
	dev.writeErr = errors.New("pipe broken")
	tr := newTestTransport(t, Options{}, map[string]Device{"USB001:Front": dev})

	err := tr.Send(context.Background(), "USB001:Front", []byte("x"))
	assert.True(t, errors.Is(err, ErrWrite))
	assert.Equal(t, 1, dev.closes)

	// the queue is free again afterwards
	dev.writeErr = nil
	require.NoError(t, tr.Send(context.Background(), "USB001:Front", []byte("y")))
	assert.Equal(t, "y", dev.sink.String())
}

type recordingObserver struct {
	mu    sync.Mutex
	bytes map[string]int
	waits int
}

func (r *recordingObserver) QueueWait(string, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.waits++
}

func (r *recordingObserver) BytesWritten(queue string, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bytes[queue] += n
}

func TestSendReportsToObserver(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(QueueID{Port: "USB001", Name: "Front"}, DeviceTypeUSB, newFakeDevice()))
	obs := &recordingObserver{bytes: map[string]int{}}
	tr := New(registry, Options{}, zap.NewNop(), obs)

	require.NoError(t, tr.Send(context.Background(), "USB001:Front", []byte("hello")))
	assert.Equal(t, 5, obs.bytes["USB001:Front"])
	assert.Equal(t, 1, obs.waits)
}

func TestSendToFileDevice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lp0")
	tr := newTestTransport(t, Options{}, map[string]Device{"LPT1:Capture": NewFileDevice(path, zap.NewNop())})

	require.NoError(t, tr.Send(context.Background(), "LPT1:Capture", []byte{0x1B, 0x40}))
	require.NoError(t, tr.Send(context.Background(), "LPT1:Capture", []byte{0x1D, 0x56, 0x00}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x1B, 0x40, 0x1D, 0x56, 0x00}, data)
}
