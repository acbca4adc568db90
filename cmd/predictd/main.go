package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/inferlab/predictd/pkg/buildtime"
	configs "github.com/inferlab/predictd/pkg/configs/serving"
	"github.com/inferlab/predictd/pkg/domain/dispatch"
	"github.com/inferlab/predictd/pkg/domain/model"
	"github.com/inferlab/predictd/pkg/domain/monitor"
	"github.com/inferlab/predictd/pkg/domain/predlog"
	"github.com/inferlab/predictd/pkg/domain/rescache"
	"github.com/inferlab/predictd/pkg/metrics"
	"github.com/inferlab/predictd/pkg/utils/filewatch"
	"github.com/inferlab/predictd/pkg/utils/rfctime"
)

func main() {

	// .env is optional. flag defaults below read the environment.
	_ = godotenv.Load()

	pconfig := flag.String(
		"config-path", os.Getenv("PREDICTD_CONFIG"), "path to config file",
	)
	loglevel := flag.String("loglevel", "", "log level. debug|info|warn|error|off")
	pcert := flag.String("cert", "", "certification file for TLS")
	pkey := flag.String("certkey", "", "key of certification file for TLS")
	pversion := flag.Bool("version", false, "show version and quit")

	flag.Parse()

	if *pversion {
		fmt.Println("predictd", buildtime.VersionString())
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer cancel()

	conf, err := configs.LoadServingConfig(*pconfig)
	if err != nil {
		panic(err)
	}

	level := *loglevel
	if level == "" {
		level = conf.Server().LogLevel()
	}

	store, err := model.LoadStore(conf.Models())
	if err != nil {
		panic(err)
	}

	// restart when the config file or a model archive is replaced.
	watched := []string{*pconfig}
	for _, archive := range conf.Models() {
		watched = append(watched, archive)
	}
	ctx, stopWatch, err := filewatch.UntilModifyContext(ctx, watched...)
	if err != nil {
		panic(err)
	}
	defer stopWatch()

	dispatcher := dispatch.New(store)

	cache := rescache.New(
		rescache.WithCapacity(conf.Cache().Capacity()),
		rescache.WithTTL(conf.Cache().TTL()),
		rescache.WithCleanupInterval(conf.Cache().CleanupInterval()),
	)

	window := monitor.New(
		monitor.WithWindowSize(conf.Monitor().Window()),
		monitor.WithReference(conf.Monitor().Reference()),
	)

	sinks := []predlog.Sink{}
	if file := conf.Logging().File(); file != "" {
		sink, err := predlog.NewFileSink(file)
		if err != nil {
			panic(err)
		}
		sinks = append(sinks, sink)
	}
	if natsconf := conf.Logging().NATS(); natsconf != nil {
		sink, err := predlog.NewNATSSink(natsconf.URL(), natsconf.Subject())
		if err != nil {
			panic(err)
		}
		sinks = append(sinks, sink)
	}
	if dsn := conf.Logging().Postgres(); dsn != "" {
		sink, err := predlog.NewPostgresSink(ctx, dsn)
		if err != nil {
			panic(err)
		}
		sinks = append(sinks, sink)
	}
	if len(sinks) == 0 {
		sink, err := predlog.NewFileSink("-")
		if err != nil {
			panic(err)
		}
		sinks = append(sinks, sink)
	}
	// the monitoring window observes everything the sinks record.
	sinks = append(sinks, window)

	recorder := predlog.NewRecorder(
		predlog.NewFanoutSink(sinks...),
		log.New(os.Stderr, "predlog: ", log.LstdFlags),
		predlog.WithBufferSize(conf.Logging().Buffer()),
	)

	tracker := metrics.NewLatencyTracker(0.2)
	m := metrics.New()
	m.WatchCache(cache.Stats)
	m.WatchRecorder(recorder.QueueDepth, recorder.Stats)

	server := BuildServer(
		conf, level, store, cache, dispatcher, recorder, window, tracker, m,
	)
	for _, entry := range store.Entries() {
		server.Logger.Infof(
			"- model loaded: %s (at %s)",
			entry.Name, entry.LoadedAt.Format(rfctime.RFC3339DateTimeFormat),
		)
	}
	for _, r := range server.Routes() {
		server.Logger.Debugf("- mount handler: %s %s", strings.ToUpper(r.Method), r.Path)
	}

	ch := make(chan error, 1)
	go func() {
		defer close(ch)

		addr := fmt.Sprintf(":%d", conf.Server().Port())
		cert, key := *pcert, *pkey
		if cert == "" {
			cert = conf.Server().Cert()
		}
		if key == "" {
			key = conf.Server().CertKey()
		}

		var err error
		if cert != "" && key != "" {
			err = server.StartTLS(addr, cert, key)
		} else {
			err = server.Start(addr)
		}
		if err != nil && err != http.ErrServerClosed {
			ch <- err
		}
	}()

	exit := 0
	select {
	case <-ctx.Done(): // wait
		if err := ctx.Err(); err != nil {
			server.Logger.Infof(
				"context has been done: %s, cause: %s", err, context.Cause(ctx),
			)
			exit = 1
		}
	case err := <-ch:
		if err != nil {
			server.Logger.Error("server stops with error:", err)
			exit = 1
		}
	}

	{
		server.Logger.Info("shutting down...")
		qctx, qcancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer qcancel()

		if err := server.Shutdown(qctx); err != nil {
			server.Logger.Errorf("shutdown with error. %+v", err)
			exit = 1
		}
		if err := recorder.Close(qctx); err != nil {
			server.Logger.Errorf("prediction log is not drained. %+v", err)
			exit = 1
		}
		cache.Stop()
		os.Exit(exit)
	}
}
