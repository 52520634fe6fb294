package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/hamed0406/serverchecker/internal/domain"
)

// ErrPoolLaunch is returned when the engine could not start a probe.
var ErrPoolLaunch = errors.New("probe: cannot launch probe")

// Engine probes a batch of hosts for TCP reachability. The zero value is
// ready to use and launches one goroutine per host.
type Engine struct {
	Dialer Dialer
	Logger *zap.Logger

	// PoolSize caps how many probes run at once. 0 means no cap.
	PoolSize int
}

func NewEngine(logger *zap.Logger, poolSize int) *Engine {
	if poolSize < 0 {
		poolSize = 0
	}
	return &Engine{
		Dialer:   &net.Dialer{},
		Logger:   logger,
		PoolSize: poolSize,
	}
}

// Run probes every host on port and returns one result per host, in input
// order. Each probe is bounded by timeout, which must be positive.
//
// Unreachable hosts are reported in the results, not as errors. Run only
// fails when probes could not be launched or ctx ended before the batch
// finished; it never returns a partial report.
func (e *Engine) Run(ctx context.Context, hosts []string, port uint16, timeout time.Duration) (*Report, error) {
	rep := &Report{
		ID:        uuid.NewString(),
		Port:      port,
		Timeout:   timeout,
		StartedAt: time.Now().UTC(),
		Results:   make([]Result, len(hosts)),
	}
	if len(hosts) == 0 {
		return rep, nil
	}

	log := e.logger().With(zap.String("batch_id", rep.ID))
	dialer := e.dialer()

	launch, release, err := e.launcher(log)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPoolLaunch, err)
	}
	defer release()

	start := time.Now()
	var wg sync.WaitGroup
	var launchErr error
	for i, host := range hosts {
		wg.Add(1)
		err := launch(func() {
			defer wg.Done()
			res := probeOne(ctx, dialer, host, port, timeout)
			rep.Results[i] = res
			log.Debug("probe_result",
				zap.String("host", res.Host),
				zap.String("status", string(res.Status)),
				zap.String("reason", string(res.Reason)),
				zap.Duration("elapsed", res.Elapsed),
			)
		})
		if err != nil {
			wg.Done()
			launchErr = fmt.Errorf("%w %q: %w", ErrPoolLaunch, host, err)
			break
		}
	}
	wg.Wait()

	if launchErr != nil {
		log.Error("probe_batch_failed", zap.Error(launchErr))
		return nil, launchErr
	}
	if err := ctx.Err(); err != nil {
		log.Warn("probe_batch_interrupted", zap.Error(err))
		return nil, fmt.Errorf("probe: batch interrupted: %w", err)
	}

	rep.Elapsed = time.Since(start)
	online, offline := rep.Counts()
	log.Info("probe_batch_done",
		zap.Int("hosts", len(hosts)),
		zap.Int("online", online),
		zap.Int("offline", offline),
		zap.Uint16("port", port),
		zap.Duration("elapsed", rep.Elapsed),
	)
	return rep, nil
}

func (e *Engine) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

func (e *Engine) dialer() Dialer {
	if e.Dialer == nil {
		return &net.Dialer{}
	}
	return e.Dialer
}

// launcher returns how a probe gets started for this batch. A pool is only
// created when PoolSize is set, and lives for a single batch.
func (e *Engine) launcher(log *zap.Logger) (launch func(func()) error, release func(), err error) {
	if e.PoolSize <= 0 {
		launch = func(f func()) error {
			go f()
			return nil
		}
		return launch, func() {}, nil
	}

	pool, err := ants.NewPool(e.PoolSize)
	if err != nil {
		return nil, nil, err
	}
	release = func() {
		if err := pool.ReleaseTimeout(time.Second); err != nil {
			log.Debug("probe_pool_release", zap.Error(err))
		}
	}
	return pool.Submit, release, nil
}

type dialOutcome struct {
	conn net.Conn
	err  error
}

// probeOne races a single dial against the timeout. Whichever finishes first
// decides the result; a dial that loses is left to finish on its own and its
// connection, if any, is closed.
func probeOne(ctx context.Context, d Dialer, host string, port uint16, timeout time.Duration) Result {
	res := Result{Host: host, Status: domain.StatusOffline}
	addr := net.JoinHostPort(host, strconv.Itoa(int(port)))

	pctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	done := make(chan dialOutcome, 1)
	go func() {
		conn, err := d.DialContext(pctx, "tcp", addr)
		done <- dialOutcome{conn: conn, err: err}
	}()

	select {
	case out := <-done:
		elapsed := time.Since(start)
		if out.err != nil {
			res.Reason, res.Detail = classify(out.err)
			return res
		}
		if out.conn == nil {
			res.Reason, res.Detail = ReasonError, "dialer returned no connection"
			return res
		}
		_ = out.conn.Close()
		if elapsed > timeout {
			res.Reason, res.Detail = ReasonTimeout, detailTimeout
			return res
		}
		res.Status = domain.StatusOnline
		res.Elapsed = elapsed
		res.Detail = fmt.Sprintf("connection on port %d succeeded", port)
	case <-pctx.Done():
		res.Reason, res.Detail = ReasonTimeout, detailTimeout
		go func() {
			if out := <-done; out.conn != nil {
				_ = out.conn.Close()
			}
		}()
	}
	return res
}
