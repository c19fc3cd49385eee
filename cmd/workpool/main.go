package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"gitlab.com/parlabs/workpool-go/pkg/config"
	"gitlab.com/parlabs/workpool-go/pkg/logging"
	"gitlab.com/parlabs/workpool-go/pkg/nested"
	"gitlab.com/parlabs/workpool-go/pkg/pool"
	"gitlab.com/parlabs/workpool-go/pkg/queue"
	"gitlab.com/parlabs/workpool-go/pkg/sink"
	"gitlab.com/parlabs/workpool-go/pkg/statemap"
	"gitlab.com/parlabs/workpool-go/pkg/work"
	"gitlab.com/parlabs/workpool-go/pkg/workload"
)

type cliOptions struct {
	configFilename  string
	mode            string
	workloadName    string
	workers         int
	innerWorkers    int
	tasks           int
	subtasks        int
	weight          int64
	drainTimeout    int64
	cpuProfFilename string
	memProfFilename string
	traceFilename   string
	delay           int64
}

func getOptions() cliOptions {
	var result cliOptions
	flag.StringVar(&result.configFilename, "config", "", "a file with run parameters (JSON or TOML)")
	flag.StringVar(&result.mode, "mode", "queue", "execution mode: serial, pool, queue or nested")
	flag.StringVar(&result.workloadName, "workload", "leibniz", "sample computation: leibniz, montecarlo or randomsum")
	flag.IntVar(&result.workers, "workers", 0, "number of workers (outer workers in nested mode)")
	flag.IntVar(&result.innerWorkers, "inner", 0, "number of workers in each inner pool (nested mode)")
	flag.IntVar(&result.tasks, "tasks", 0, "number of tasks to submit")
	flag.IntVar(&result.subtasks, "subtasks", 0, "number of subtasks per task (nested mode)")
	flag.Int64Var(&result.weight, "weight", 0, "per-task cost: iterations of the sample computation")
	flag.Int64Var(&result.drainTimeout, "drain_timeout", 0, "seconds to wait for all results before giving up (0 waits forever)")
	flag.StringVar(&result.cpuProfFilename, "cpuprof", "", "the name of the file with cpu-profile results")
	flag.StringVar(&result.memProfFilename, "memprof", "", "the name of the file with mem-profile results")
	flag.StringVar(&result.traceFilename, "trace", "", "the name of the file with trace-profile results")
	flag.Int64Var(&result.delay, "delay", 0, "number of seconds to wait before running")
	flag.Parse()
	return result
}

// applyOverrides lets explicitly set flags win over values from the config file.
func applyOverrides(params *config.Params, options cliOptions) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "workers":
			params.Workers = options.workers
		case "inner":
			params.InnerWorkers = options.innerWorkers
		case "tasks":
			params.Tasks = options.tasks
		case "subtasks":
			params.Subtasks = options.subtasks
		case "weight":
			params.Weight = options.weight
		}
	})
}

func getParams(options cliOptions) (*config.Params, error) {
	params := config.NewDefaultParams()
	if options.configFilename != "" {
		loaded, err := config.Load(options.configFilename)
		if err != nil {
			return nil, err
		}
		params = *loaded
	}
	applyOverrides(&params, options)
	if err := config.Valid(&params); err != nil {
		return nil, err
	}
	return &params, nil
}

func getWorkload(name string) (work.Func[int64, float64], error) {
	switch name {
	case "leibniz":
		return workload.PiLeibniz, nil
	case "montecarlo":
		return workload.PiMonteCarlo, nil
	case "randomsum":
		return workload.RandomSum, nil
	}
	return nil, work.NewConfigError("unknown workload " + name)
}

func runSerial(fn work.Func[int64, float64], params *config.Params) []work.Result[float64] {
	results := make([]work.Result[float64], params.Tasks)
	for i := range results {
		id := work.ID{Index: i + 1}
		value, err := fn(params.Weight)
		if err != nil {
			err = work.NewTaskError(id, err)
		}
		results[i] = work.Result[float64]{ID: id, Value: value, Err: err}
	}
	return results
}

func runPool(fn work.Func[int64, float64], params *config.Params) []work.Result[float64] {
	p := pool.New[int64, float64](params.Workers, log.Logger)
	tasks := make([]work.Task[int64, float64], params.Tasks)
	for i := range tasks {
		tasks[i] = work.Task[int64, float64]{
			ID:      work.ID{Index: i + 1},
			Payload: params.Weight,
			Compute: fn,
		}
	}
	results := p.Wait(p.SubmitAll(tasks))
	p.Close()
	return results
}

func fillQueue(params *config.Params) *queue.Queue[int64] {
	q := queue.New[int64]()
	for i := 0; i < params.Tasks; i++ {
		q.Push(work.Item[int64]{ID: work.ID{Index: i + 1}, Payload: params.Weight})
	}
	log.Info().Int(logging.Size, q.Len()).Msg(logging.QueueFilled)
	return q
}

type jobStats struct {
	completed int
	failed    int
	sum       float64
}

// summarize groups results by owning job.
func summarize(results []work.Result[float64]) *statemap.Map[int, jobStats] {
	stats := statemap.New[int, jobStats]()
	for _, r := range results {
		stats.Update(r.ID.Job, func(old jobStats, _ bool) jobStats {
			if r.Err != nil {
				old.failed++
				return old
			}
			old.completed++
			old.sum += r.Value
			return old
		})
	}
	return stats
}

func drain(s *sink.Sink[float64], count int, timeout int64) ([]work.Result[float64], error) {
	if timeout > 0 {
		return s.DrainTimeout(count, time.Duration(timeout)*time.Second)
	}
	return s.Drain(count), nil
}

func runQueue(fn work.Func[int64, float64], params *config.Params, timeout int64) ([]work.Result[float64], error) {
	q := fillQueue(params)
	s := sink.New[float64]()
	workers := pool.NewWorkers(params.Workers, fn, q, s, log.Logger)
	workers.Start()
	results, err := drain(s, params.Tasks, timeout)
	if err != nil {
		// drop the remaining backlog, the run already failed
		workers.Cancel()
	}
	workers.Wait()
	work.SortByID(results)
	return results, err
}

func runNested(fn work.Func[int64, float64], params *config.Params, timeout int64) ([]work.Result[float64], error) {
	q := fillQueue(params)
	s := sink.New[float64]()
	coordinator := nested.New(params.Workers, params.InnerWorkers, params.Subtasks,
		fn, nested.Mean(1), q, s, log.Logger)
	coordinator.Start()
	results, err := drain(s, params.Tasks, timeout)
	if err != nil {
		coordinator.Cancel()
	}
	coordinator.Wait()
	work.SortByID(results)
	return results, err
}

func main() {
	options := getOptions()

	// wait if asked to
	if options.delay != 0 {
		duration := time.Duration(options.delay) * time.Second
		time.Sleep(duration)
	}

	// set up profilers
	if options.cpuProfFilename != "" {
		f, err := os.Create(options.cpuProfFilename)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Creating cpu-profile file \"%s\" failed because: %s.\n", options.cpuProfFilename, err.Error())
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Cpu-profile failed to start because: %s", err.Error())
		}
		defer pprof.StopCPUProfile()
	}
	if options.traceFilename != "" {
		f, err := os.Create(options.traceFilename)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Creating trace-profile file \"%s\" failed because: %s.\n", options.traceFilename, err.Error())
		}
		defer f.Close()
		trace.Start(f)
		defer trace.Stop()
	}

	params, err := getParams(options)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid run parameters: %s.\n", err.Error())
		os.Exit(1)
	}

	err = logging.Init(logging.Config{
		Level:    params.LogLevel,
		Path:     params.LogFile,
		DiodeBuf: params.LogBuffer,
		TimeUnit: time.Millisecond,
		Human:    params.LogHuman,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Initializing the logger failed because: %s.\n", err.Error())
		os.Exit(1)
	}

	if params.LogMemInterval > 0 {
		memlog := logging.NewMemLogService(params.LogMemInterval,
			log.With().Int(logging.Service, logging.MemLogService).Logger())
		_ = memlog.Start()
		defer memlog.Stop()
	}

	fn, err := getWorkload(options.workloadName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s.\n", err.Error())
		os.Exit(1)
	}

	// the measured section brackets the full run: construction, start, drain, teardown
	startingTime := time.Now()
	var results []work.Result[float64]
	switch options.mode {
	case "serial":
		results = runSerial(fn, params)
	case "pool":
		results = runPool(fn, params)
	case "queue":
		results, err = runQueue(fn, params, options.drainTimeout)
	case "nested":
		results, err = runNested(fn, params, options.drainTimeout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown mode \"%s\".\n", options.mode)
		os.Exit(1)
	}
	elapsed := time.Since(startingTime)

	if err != nil {
		fmt.Fprintf(os.Stderr, "Run failed because: %s.\n", err.Error())
		os.Exit(1)
	}

	logging.ResultErrors(results, log.Logger)
	stats := summarize(results).Snapshot()
	jobs := make([]int, 0, len(stats))
	for job := range stats {
		jobs = append(jobs, job)
	}
	sort.Ints(jobs)
	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("(%d,%d)\tfailed: %s\n", r.ID.Job, r.ID.Index, r.Err.Error())
			continue
		}
		fmt.Printf("(%d,%d)\t%v\n", r.ID.Job, r.ID.Index, r.Value)
	}
	for _, job := range jobs {
		st := stats[job]
		if st.completed == 0 {
			fmt.Printf("Job %d: all %d tasks failed\n", job, st.failed)
			continue
		}
		fmt.Printf("Job %d: %d ok, %d failed, mean %v\n", job, st.completed, st.failed, st.sum/float64(st.completed))
	}
	fmt.Printf("Mode: %s,   Workers: %d,   Tasks: %d,   Weight: %d,   Spent time: %.3f s\n",
		options.mode, params.Workers, params.Tasks, params.Weight, elapsed.Seconds())

	if options.memProfFilename != "" {
		f, err := os.Create(options.memProfFilename)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Creating mem-profile file \"%s\" failed because: %s.\n", options.memProfFilename, err.Error())
		}
		defer f.Close()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Mem-profile failed because: %s.\n", err.Error())
		}
	}
}
