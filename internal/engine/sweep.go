package engine

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/stanford5667/advanced-portfolio-backtester2/internal/series"
	"github.com/stanford5667/advanced-portfolio-backtester2/internal/strategy"
)

// Job is one independent backtest in a parameter sweep. Each job must own its
// generator: runs share nothing mutable.
type Job struct {
	Name      string
	Options   Options
	Series    *series.Series
	Generator strategy.Generator
}

// Outcome pairs a job name with its results or the error that kept the run
// from starting.
type Outcome struct {
	Name    string
	Results *Results
	Err     error
}

// Sweep runs independent jobs concurrently, one goroutine each. Steps inside
// a run stay strictly sequential; only whole runs parallelize. Outcomes come
// back in job order regardless of completion order.
func Sweep(jobs []Job, log zerolog.Logger) []Outcome {
	outcomes := make([]Outcome, len(jobs))
	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		go func(i int, job Job) {
			defer wg.Done()
			eng, err := New(job.Options, log)
			if err != nil {
				outcomes[i] = Outcome{Name: job.Name, Err: err}
				return
			}
			results, err := eng.Run(job.Series, job.Generator)
			outcomes[i] = Outcome{Name: job.Name, Results: results, Err: err}
		}(i, job)
	}
	wg.Wait()
	return outcomes
}
