package wpcom

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/five82/wpstores/internal/metrics"
)

const (
	defaultWorkers       = 4
	defaultRatePerSecond = 10
	defaultBuffer        = 64
	defaultUserAgent     = "wpstores/0.1"
	requestTimeout       = 30 * time.Second
	maxBodyBytes         = 4 << 20
)

// Enqueuer accepts requests for asynchronous execution.
type Enqueuer interface {
	Add(req *Request) error
}

// Ensure Queue implements Enqueuer at compile time.
var _ Enqueuer = (*Queue)(nil)

// QueueOptions configure a Queue. Zero values select defaults.
type QueueOptions struct {
	HTTPClient    *http.Client
	Workers       int
	RatePerSecond float64
	Buffer        int
	UserAgent     string
	Tokens        TokenSource
	Logger        logrus.FieldLogger
	Metrics       *metrics.Metrics
}

// Queue executes requests on a fixed pool of worker goroutines. Completion
// listeners run on the worker that executed the request; there is no ordering
// between independent requests.
type Queue struct {
	http      *http.Client
	limiter   *rate.Limiter
	workers   int
	userAgent string
	tokens    TokenSource
	log       logrus.FieldLogger
	metrics   *metrics.Metrics

	mu      sync.Mutex
	pending chan *Request
	started bool
	closed  bool
	wg      sync.WaitGroup
}

// NewQueue builds a Queue. Call Start before expecting requests to run.
func NewQueue(opts QueueOptions) *Queue {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: requestTimeout}
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	buffer := opts.Buffer
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	limit := rate.Limit(opts.RatePerSecond)
	if opts.RatePerSecond == 0 {
		limit = defaultRatePerSecond
	}
	if opts.RatePerSecond < 0 {
		limit = rate.Inf
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Queue{
		http:      client,
		limiter:   rate.NewLimiter(limit, workers),
		workers:   workers,
		userAgent: userAgent,
		tokens:    opts.Tokens,
		log:       log.WithField("component", "queue"),
		metrics:   opts.Metrics,
		pending:   make(chan *Request, buffer),
	}
}

// Start launches the workers. The queue closes itself when ctx is done.
// Calling Start more than once has no effect.
func (q *Queue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started || q.closed {
		return
	}
	q.started = true

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go func() {
			defer q.wg.Done()
			for req := range q.pending {
				q.execute(ctx, req)
			}
		}()
	}
	go func() {
		<-ctx.Done()
		q.Close()
	}()
}

// Add enqueues req without blocking.
func (q *Queue) Add(req *Request) error {
	if req == nil {
		return fmt.Errorf("request is nil")
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.pending <- req:
		q.log.WithFields(logrus.Fields{
			"request_id": req.ID,
			"method":     req.Method,
			"url":        req.URL,
		}).Debug("request queued")
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting requests and waits for queued ones to finish.
func (q *Queue) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.pending)
	}
	q.mu.Unlock()
	q.wg.Wait()
}

func (q *Queue) execute(ctx context.Context, req *Request) {
	log := q.log.WithFields(logrus.Fields{
		"request_id": req.ID,
		"method":     req.Method,
		"url":        req.URL,
	})

	if err := q.limiter.Wait(ctx); err != nil {
		q.fail(log, req, &NetworkError{Err: fmt.Errorf("rate limit: %w", err)})
		return
	}

	token := ""
	if q.tokens != nil {
		token = q.tokens.AccessToken()
	}
	httpReq, err := req.build(ctx, q.userAgent, token)
	if err != nil {
		q.fail(log, req, &NetworkError{Err: err})
		return
	}

	start := time.Now()
	resp, err := q.http.Do(httpReq)
	if err != nil {
		q.metrics.ObserveRequest(req.Method, 0, time.Since(start))
		q.fail(log, req, &NetworkError{Err: fmt.Errorf("execute request: %w", err)})
		return
	}
	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	_ = resp.Body.Close()
	q.metrics.ObserveRequest(req.Method, resp.StatusCode, time.Since(start))

	if resp.StatusCode >= 400 {
		q.fail(log, req, &NetworkError{StatusCode: resp.StatusCode, Body: body})
		return
	}
	if readErr != nil {
		q.fail(log, req, &NetworkError{StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", readErr)})
		return
	}
	if err := req.deliver(body); err != nil {
		q.fail(log, req, &NetworkError{StatusCode: resp.StatusCode, Body: body, Err: fmt.Errorf("decode response: %w", err)})
		return
	}
	log.WithField("status", resp.StatusCode).Debug("request completed")
}

func (q *Queue) fail(log logrus.FieldLogger, req *Request, err *NetworkError) {
	log.WithError(err).Warn("request failed")
	req.Fail(err)
}

// Submit adds req to e and reports an enqueue failure through the request's
// error listener, so callers always observe exactly one completion.
func Submit(e Enqueuer, req *Request) {
	if err := e.Add(req); err != nil {
		req.Fail(&NetworkError{Err: fmt.Errorf("enqueue request: %w", err)})
	}
}
