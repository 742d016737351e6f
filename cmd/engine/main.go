package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	pyroscope "github.com/grafana/pyroscope-go"
	"github.com/sirupsen/logrus"
	"github.com/yanun0323/pkg/sys"

	"tradecore/internal/engine"
	"tradecore/internal/model"
	"tradecore/internal/ops"
	"tradecore/internal/store"
	"tradecore/internal/strategy"
	"tradecore/pkg/conn"
	"tradecore/pkg/dates"
)

const banner = `
 _____ ___    _   ___  ___ ___ ___  ___ ___
|_   _| _ \  /_\ |   \| __/ __/ _ \| _ \ __|
  | | |   / / _ \| |) | _| (_| (_) |   / _|
  |_| |_|_\/_/ \_\___/|___\___\___/|_|_\___|
`

func main() {
	mode := flag.String("mode", string(model.ModeBacktest), "run mode: backtest|sandbox|real")
	benchmark := flag.String("benchmark", "", "benchmark label")
	dbPath := flag.String("db", "tradecore.db", "embedded store path")
	pgConn := flag.String("pg", "", "postgres connection string (overrides -db)")
	begin := flag.String("begin", "", "replay window begin, compact UTC (e.g. 20240101)")
	end := flag.String("end", "", "replay window end, compact UTC")
	step := flag.Duration("step", time.Minute, "simulated time per tick")
	bootstrap := flag.Bool("bootstrap", false, "init then stop, no tick loop")
	lenient := flag.Bool("continue-on-error", false, "log failing hooks instead of aborting the tick")
	flag.Parse()

	log := newLogger()
	if ops.EnvShowBanner.Bool(true) {
		fmt.Print(banner)
	}

	if addr, ok := ops.EnvPyroscopeAddr.Value(); ok {
		profiler, err := pyroscope.Start(pyroscope.Config{
			ApplicationName: "tradecore",
			ServerAddress:   addr,
		})
		if err != nil {
			log.WithError(err).Warn("pyroscope start failed")
		} else {
			defer profiler.Stop()
		}
	}

	if err := run(log, *mode, *benchmark, *dbPath, *pgConn, *begin, *end, *step, *bootstrap, *lenient); err != nil {
		log.WithError(err).Fatal("engine run failed")
	}
}

func run(log *logrus.Logger, mode, benchmark, dbPath, pgConn, begin, end string, step time.Duration, bootstrap, lenient bool) error {
	backend, err := openBackend(dbPath, pgConn)
	if err != nil {
		return err
	}

	policy := strategy.PolicyPropagate
	if lenient {
		policy = strategy.PolicyContinue
	}

	eng := engine.New(engine.Config{
		Mode:      model.Mode(mode),
		Benchmark: benchmark,
		Callbacks: heartbeat(log),
		Backend:   backend,
		Policy:    policy,
		Step:      step,
		Logger:    log,
	})

	if bootstrap {
		return eng.Bootstrap()
	}

	switch model.Mode(mode) {
	case model.ModeBacktest:
		b, err := dates.ParseCompact(begin)
		if err != nil {
			return err
		}
		e, err := dates.ParseCompact(end)
		if err != nil {
			return err
		}
		return eng.Run(context.Background(), b.UnixMilli(), e.UnixMilli())
	default:
		if err := eng.Start(); err != nil {
			return err
		}
		log.Infof("engine started in %s mode, waiting for shutdown signal", mode)
		<-sys.Shutdown()
		return eng.Stop()
	}
}

func openBackend(dbPath, pgConn string) (store.Backend, error) {
	if pgConn != "" {
		return store.OpenPostgres(conn.Option{ConnString: pgConn})
	}
	return store.OpenBolt(dbPath)
}

// heartbeat is the built-in smoke strategy: it only logs lifecycle edges.
// Real strategies replace it through the engine config.
func heartbeat(log *logrus.Logger) *strategy.Callbacks {
	return &strategy.Callbacks{
		OnInit: func() error {
			log.Info("strategy init")
			return nil
		},
		OnDayBegin: func() error {
			log.Debug("day begin")
			return nil
		},
		OnTick: func() error {
			return nil
		},
		OnDayEnd: func() error {
			log.Debug("day end")
			return nil
		},
		OnStop: func() error {
			log.Info("strategy stop")
			return nil
		},
	}
}

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(ops.EnvLogLevel.String("debug"))
	if err != nil {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)

	format := "2006-01-02 15:04:05"
	if ops.EnvLogMs.Bool(false) {
		format = "2006-01-02 15:04:05.000"
	}
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: format,
		ForceColors:     ops.EnvLogColor.Bool(true),
		DisableColors:   !ops.EnvLogColor.Bool(true),
	})
	return log
}
