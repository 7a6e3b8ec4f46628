package mirror

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"

	"github.com/tamzrod/vitals-sampler/internal/reading"
	"github.com/tamzrod/vitals-sampler/internal/status"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// ---- fake register client ----

type writeCall struct {
	unitID uint8
	addr   uint16
	regs   []uint16
}

type fakeClient struct {
	mu     sync.Mutex
	writes []writeCall
	fail   bool
}

func (f *fakeClient) WriteRegisters(unitID uint8, addr uint16, regs []uint16) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("boom")
	}
	f.writes = append(f.writes, writeCall{unitID: unitID, addr: addr, regs: append([]uint16(nil), regs...)})
	return nil
}

func (f *fakeClient) calls() []writeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]writeCall(nil), f.writes...)
}

type countObserver struct {
	mu   sync.Mutex
	ok   map[string]int
	fail map[string]int
}

func newCountObserver() *countObserver {
	return &countObserver{ok: map[string]int{}, fail: map[string]int{}}
}

func (c *countObserver) ObserveMirrorWrite(kind string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.fail[kind]++
		return
	}
	c.ok[kind]++
}

func testPlan() Plan {
	return Plan{
		Endpoint:      "127.0.0.1:502",
		UnitID:        7,
		BaseAddress:   0,
		StatusAddress: 100,
		DeviceName:    "raspi",
	}
}

// ---- tests ----

func TestNew_RejectsOverlap(t *testing.T) {
	p := testPlan()
	p.StatusAddress = 3
	_, err := New(p, &fakeClient{}, nil, nil)
	assert.Error(t, err)

	_, err = New(testPlan(), nil, nil, nil)
	assert.Error(t, err)
}

func TestEncodeReadings(t *testing.T) {
	at := time.Unix(0x0001_0002, 0)
	regs := EncodeReadings(reading.Snapshot{
		Tuple: reading.Tuple{Temperature: reading.Of(98.6), SpO2: reading.Of(97)},
		At:    at,
	})

	require.Len(t, regs, SlotsPerReadings)
	assert.Equal(t, validTemperature|validSpO2, regs[SlotValidMask])
	assert.Equal(t, uint16(986), regs[SlotTemperature])
	assert.Zero(t, regs[SlotHeartRate])
	assert.Equal(t, uint16(97), regs[SlotSpO2])
	assert.Equal(t, uint16(1), regs[SlotEpochHi])
	assert.Equal(t, uint16(2), regs[SlotEpochLo])

	empty := EncodeReadings(reading.Snapshot{})
	assert.Equal(t, make([]uint16, SlotsPerReadings), empty)
}

func TestClampU16(t *testing.T) {
	assert.Equal(t, uint16(0), clampU16(-4))
	assert.Equal(t, uint16(65535), clampU16(1e9))
	assert.Equal(t, uint16(73), clampU16(72.5))
}

func TestWriteStatus_FullThenDelta(t *testing.T) {
	ctrl := gomock.NewController(t)
	cli := NewMockRegisterClient(ctrl)

	m, err := New(testPlan(), cli, nil, nil)
	require.NoError(t, err)

	name := status.EncodeDeviceName("raspi")
	first := status.Snapshot{Health: status.HealthUnknown}

	gomock.InOrder(
		cli.EXPECT().WriteRegisters(uint8(7), uint16(100), status.Encode(first, name)).Return(nil),
		cli.EXPECT().WriteRegisters(uint8(7), uint16(100+status.SlotHealthCode), []uint16{status.HealthNoData}).Return(nil),
		cli.EXPECT().WriteRegisters(uint8(7), uint16(100+status.SlotSecondsWithoutData), []uint16{1}).Return(nil),
	)

	require.NoError(t, m.WriteStatus(first))
	require.NoError(t, m.WriteStatus(status.Snapshot{Health: status.HealthNoData}))
	require.NoError(t, m.WriteStatus(status.Snapshot{Health: status.HealthNoData, SecondsWithoutData: 1}))

	// unchanged snapshot: no writes at all
	require.NoError(t, m.WriteStatus(status.Snapshot{Health: status.HealthNoData, SecondsWithoutData: 1}))
}

func TestWriteStatus_FailureForcesFullReassert(t *testing.T) {
	ctrl := gomock.NewController(t)
	cli := NewMockRegisterClient(ctrl)

	m, err := New(testPlan(), cli, nil, nil)
	require.NoError(t, err)

	name := status.EncodeDeviceName("raspi")
	ok := status.Snapshot{Health: status.HealthOK}

	gomock.InOrder(
		cli.EXPECT().WriteRegisters(uint8(7), uint16(100), status.Encode(status.Snapshot{}, name)).Return(nil),
		cli.EXPECT().WriteRegisters(uint8(7), uint16(100), []uint16{status.HealthOK}).Return(errors.New("timeout")),
		cli.EXPECT().WriteRegisters(uint8(7), uint16(100), status.Encode(ok, name)).Return(nil),
	)

	require.NoError(t, m.WriteStatus(status.Snapshot{}))
	assert.Error(t, m.WriteStatus(ok))
	require.NoError(t, m.WriteStatus(ok))
}

func TestWriteReadings_ReportsErrors(t *testing.T) {
	obs := newCountObserver()
	cli := &fakeClient{fail: true}
	m, err := New(testPlan(), cli, obs, nil)
	require.NoError(t, err)

	assert.Error(t, m.WriteReadings(reading.Snapshot{}))
	assert.Equal(t, 1, obs.fail["readings"])
}

func TestRun_MirrorsTicksAndStops(t *testing.T) {
	cli := &fakeClient{}
	obs := newCountObserver()
	m, err := New(testPlan(), cli, obs, nil)
	require.NoError(t, err)

	in := make(chan reading.Tick, 4)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- m.Run(ctx, in) }()

	at := time.Now()
	in <- reading.Tick{Snapshot: reading.Snapshot{Tuple: reading.Tuple{HeartRate: reading.Of(70)}, At: at}}
	in <- reading.Tick{Snapshot: reading.Snapshot{At: at}, Failed: true}

	require.Eventually(t, func() bool {
		return len(cli.calls()) >= 5
	}, time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	calls := cli.calls()
	// start: full status block
	assert.Equal(t, uint16(100), calls[0].addr)
	assert.Len(t, calls[0].regs, status.SlotsPerBlock)
	// tick 1: readings + health OK
	assert.Equal(t, uint16(0), calls[1].addr)
	assert.Equal(t, validHeartRate, calls[1].regs[SlotValidMask])
	assert.Equal(t, []uint16{status.HealthOK}, calls[2].regs)

	assert.Equal(t, status.HealthStopped, m.Status().Health)
	assert.Equal(t, status.ErrorSampleFailed, m.Status().LastErrorCode)

	last := calls[len(calls)-1]
	assert.Equal(t, []uint16{status.HealthStopped}, last.regs)
	assert.GreaterOrEqual(t, obs.ok["readings"], 2)
}

func TestRun_ClosedInputDoesNotSpin(t *testing.T) {
	cli := &fakeClient{}
	m, err := New(testPlan(), cli, nil, nil)
	require.NoError(t, err)

	in := make(chan reading.Tick)
	close(in)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	require.NoError(t, m.Run(ctx, in))
	// start block + stopped health only
	assert.Len(t, cli.calls(), 2)
}
