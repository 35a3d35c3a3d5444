package engine

import (
	"runtime"
	"sync"

	"github.com/pthm-cable/fieldscan/coord"
	"github.com/pthm-cable/fieldscan/eval"
)

// parallelThreshold is the minimum batch size to split across workers.
// Below this, a single goroutine is faster.
const parallelThreshold = 1024

// evalChunk is one evaluator's work over a range of batch slots.
type evalChunk struct {
	ev     eval.Evaluator
	xs, ys []coord.Coord
	out    []float32
}

// evalPool runs evaluator chunks on persistent worker goroutines.
type evalPool struct {
	numWorkers int

	workChan chan evalChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool
}

// newEvalPool creates a pool with n workers; n <= 0 means GOMAXPROCS.
func newEvalPool(n int) *evalPool {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	return &evalPool{numWorkers: n}
}

// start launches the workers.
func (p *evalPool) start() {
	if p.running {
		return
	}
	p.workChan = make(chan evalChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for range p.numWorkers {
		p.wg.Add(1)
		go p.worker()
	}
}

// stop signals all workers to exit and waits for them.
func (p *evalPool) stop() {
	if !p.running {
		return
	}
	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

func (p *evalPool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.stopChan:
			return
		case c, ok := <-p.workChan:
			if !ok {
				return
			}
			c.ev.Batch(c.xs, c.ys, c.out)
			p.doneChan <- struct{}{}
		}
	}
}

// evaluate fills outs[i] with evals[i] over (xs, ys). Small batches and
// single-worker pools run inline.
func (p *evalPool) evaluate(evals []eval.Evaluator, xs, ys []coord.Coord, outs [][]float32) {
	n := len(xs)
	if p.numWorkers <= 1 || n < parallelThreshold {
		for i, ev := range evals {
			ev.Batch(xs, ys, outs[i])
		}
		return
	}

	p.start()
	chunkSize := (n + p.numWorkers - 1) / p.numWorkers
	chunks := (n + chunkSize - 1) / chunkSize

	// workChan holds numWorkers chunks, so dispatch runs beside the done loop.
	go func() {
		for i, ev := range evals {
			for start := 0; start < n; start += chunkSize {
				end := min(start+chunkSize, n)
				p.workChan <- evalChunk{ev: ev, xs: xs[start:end], ys: ys[start:end], out: outs[i][start:end]}
			}
		}
	}()
	for range chunks * len(evals) {
		<-p.doneChan
	}
}
